package config

import (
	"fmt"
	"sort"
	"strings"
)

// Network selects one of the deployment tables shipped with the SDK.
type Network int

const (
	Mainnet Network = iota
	Devnet
	Testnet
)

// String returns the lower-case network name.
func (n Network) String() string {
	switch n {
	case Devnet:
		return "devnet"
	case Testnet:
		return "testnet"
	default:
		return "mainnet"
	}
}

// ParseNetwork resolves a network name. The empty string selects mainnet.
func ParseNetwork(raw string) (Network, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "mainnet":
		return Mainnet, nil
	case "devnet":
		return Devnet, nil
	case "testnet":
		return Testnet, nil
	default:
		return Mainnet, fmt.Errorf("config: unknown network %q", raw)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (n Network) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *Network) UnmarshalText(text []byte) error {
	parsed, err := ParseNetwork(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// Modules holds the swap and MasterChef deployment coordinates.
type Modules struct {
	CoinInfo                         string `toml:"CoinInfo" json:"CoinInfo"`
	CoinStore                        string `toml:"CoinStore" json:"CoinStore"`
	Scripts                          string `toml:"Scripts" json:"Scripts"`
	ResourceAccountAddress           string `toml:"ResourceAccountAddress" json:"ResourceAccountAddress"`
	DeployerAddress                  string `toml:"DeployerAddress" json:"DeployerAddress"`
	FinAddress                       string `toml:"FinAddress" json:"FinAddress"`
	MasterChefScripts                string `toml:"MasterChefScripts" json:"MasterChefScripts"`
	MasterChefDeployerAddress        string `toml:"MasterChefDeployerAddress" json:"MasterChefDeployerAddress"`
	MasterChefResourceAccountAddress string `toml:"MasterChefResourceAccountAddress" json:"MasterChefResourceAccountAddress"`
}

// Misc holds the airdrop and AutoFin vault deployment coordinates.
type Misc struct {
	AirdropDeployer               string `toml:"AirdropDeployer" json:"AirdropDeployer"`
	AutoFinScripts                string `toml:"AutoFinScripts" json:"AutoFinScripts"`
	AutoFinDeployerAddress        string `toml:"AutoFinDeployerAddress" json:"AutoFinDeployerAddress"`
	AutoFinResourceAccountAddress string `toml:"AutoFinResourceAccountAddress" json:"AutoFinResourceAccountAddress"`
}

// Options is the complete table of addresses and types for one network.
type Options struct {
	NativeCoin string            `toml:"NativeCoin" json:"nativeCoin"`
	Modules    Modules           `toml:"Modules" json:"modules"`
	Misc       Misc              `toml:"Misc" json:"misc"`
	Coins      map[string]string `toml:"Coins" json:"coins"`
}

const (
	nativeCoin      = "0x1::aptos_coin::AptosCoin"
	coinInfo        = "0x1::coin::CoinInfo"
	coinStore       = "0x1::coin::CoinStore"
	deployer        = "0x8f3fd4fa708e5b3bff4019b801d2d3d0ae16cf430440fff32ede61c09e001ec6"
	poolScripts     = deployer + "::FinancerProtocolPoolV1"
	finCoin         = deployer + "::FinancerCoin::FIN"
	finScripts      = deployer + "::FinancerCoin"
	swapResource    = "0x5835dabd0cdfae7fe3d19715a05793727cbd523b3d9976c2a52f44b929ebb106"
	chefResource    = "0x1074ce8ac446c97b943d58b3a93ba4ba6bc68781815dcea6e6ceee767941c2c3"
	airdropDeployer = "0xf713bbb607b171ef26dd141050b854a8a7270b5a555a0a202abd98e3e5ded9da"
	autoFinResource = "0x453989b1e41bb442c833314f6ffc8572e3670c1a40a6c8a6e52ea7c588c72fd7"
)

var networkOptions = map[Network]Options{
	Mainnet: {
		NativeCoin: nativeCoin,
		Modules: Modules{
			CoinInfo:                         coinInfo,
			CoinStore:                        coinStore,
			Scripts:                          poolScripts,
			ResourceAccountAddress:           swapResource,
			DeployerAddress:                  deployer,
			FinAddress:                       finCoin,
			MasterChefScripts:                finScripts,
			MasterChefDeployerAddress:        deployer,
			MasterChefResourceAccountAddress: chefResource,
		},
		Misc: Misc{
			AirdropDeployer:               airdropDeployer,
			AutoFinScripts:                deployer + "::AutoFin",
			AutoFinDeployerAddress:        deployer,
			AutoFinResourceAccountAddress: autoFinResource,
		},
		Coins: map[string]string{
			"zUSDC": "0xf22bede237a07e121b56d91a491eb7bcdfd1f5907926a9e58338f964a01b17fa::asset::USDC",
		},
	},
	Devnet: {
		NativeCoin: nativeCoin,
		Modules: Modules{
			CoinInfo:                         coinInfo,
			CoinStore:                        coinStore,
			Scripts:                          poolScripts,
			ResourceAccountAddress:           swapResource,
			DeployerAddress:                  deployer,
			FinAddress:                       finCoin,
			MasterChefScripts:                finScripts,
			MasterChefDeployerAddress:        deployer,
			MasterChefResourceAccountAddress: swapResource,
		},
		Misc: Misc{
			AirdropDeployer:               airdropDeployer,
			AutoFinScripts:                deployer + "::AutoFinT1",
			AutoFinDeployerAddress:        deployer,
			AutoFinResourceAccountAddress: autoFinResource,
		},
		Coins: map[string]string{
			"zUSDC": finCoin,
		},
	},
	Testnet: {
		NativeCoin: nativeCoin,
		Modules: Modules{
			CoinInfo:                         coinInfo,
			CoinStore:                        coinStore,
			Scripts:                          poolScripts,
			ResourceAccountAddress:           swapResource,
			DeployerAddress:                  deployer,
			FinAddress:                       finCoin,
			MasterChefScripts:                finScripts,
			MasterChefDeployerAddress:        deployer,
			MasterChefResourceAccountAddress: chefResource,
		},
		Misc: Misc{
			AirdropDeployer:               airdropDeployer,
			AutoFinScripts:                deployer + "::AutoFinf2",
			AutoFinDeployerAddress:        deployer,
			AutoFinResourceAccountAddress: "0xdfee246b309af2e34e11c4f10119ac177185a6737ba05ad4377245d8164e669d",
		},
		// Testnet has no USDC deployment; FIN stands in.
		Coins: map[string]string{
			"zUSDC": finCoin,
		},
	},
}

// OptionsFor returns a copy of the table for the network. Unknown values fall
// back to mainnet.
func OptionsFor(network Network) Options {
	opts, ok := networkOptions[network]
	if !ok {
		opts = networkOptions[Mainnet]
	}
	return opts.Clone()
}

// Clone returns a deep copy of the options.
func (o Options) Clone() Options {
	out := o
	out.Coins = make(map[string]string, len(o.Coins))
	for k, v := range o.Coins {
		out.Coins[k] = v
	}
	return out
}

// Coin returns the coin type registered under symbol.
func (o Options) Coin(symbol string) (string, bool) {
	coin, ok := o.Coins[symbol]
	return coin, ok
}

// ResolveCoin maps user input to a coin type. Empty input and "FIN" select
// the FIN coin, "APT" the native coin and known symbols their table entry.
// Anything else is returned unchanged.
func (o Options) ResolveCoin(input string) string {
	input = strings.TrimSpace(input)
	switch {
	case input == "" || strings.EqualFold(input, "FIN"):
		return o.Modules.FinAddress
	case strings.EqualFold(input, "APT"):
		return o.NativeCoin
	}
	if coin, ok := o.Coin(input); ok {
		return coin
	}
	return input
}

// ApplyOverrides returns a copy of the options with individual entries
// replaced. Keys take the form "NativeCoin", "Modules.<Field>",
// "Misc.<Field>" or "Coins.<Symbol>" and are matched case-insensitively,
// except for coin symbols.
func (o Options) ApplyOverrides(overrides map[string]string) (Options, error) {
	out := o.Clone()
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value := strings.TrimSpace(overrides[key])
		if value == "" {
			return o, fmt.Errorf("config: override %q has empty value", key)
		}
		section, field, nested := strings.Cut(strings.TrimSpace(key), ".")
		if !nested {
			if !strings.EqualFold(section, "NativeCoin") {
				return o, fmt.Errorf("config: unknown override %q", key)
			}
			out.NativeCoin = value
			continue
		}
		var target *string
		switch strings.ToLower(section) {
		case "modules":
			target = out.Modules.field(field)
		case "misc":
			target = out.Misc.field(field)
		case "coins":
			if field == "" {
				return o, fmt.Errorf("config: override %q missing coin symbol", key)
			}
			out.Coins[field] = value
			continue
		}
		if target == nil {
			return o, fmt.Errorf("config: unknown override %q", key)
		}
		*target = value
	}
	return out, nil
}

func (m *Modules) field(name string) *string {
	switch strings.ToLower(name) {
	case "coininfo":
		return &m.CoinInfo
	case "coinstore":
		return &m.CoinStore
	case "scripts":
		return &m.Scripts
	case "resourceaccountaddress":
		return &m.ResourceAccountAddress
	case "deployeraddress":
		return &m.DeployerAddress
	case "finaddress":
		return &m.FinAddress
	case "masterchefscripts":
		return &m.MasterChefScripts
	case "masterchefdeployeraddress":
		return &m.MasterChefDeployerAddress
	case "masterchefresourceaccountaddress":
		return &m.MasterChefResourceAccountAddress
	default:
		return nil
	}
}

func (m *Misc) field(name string) *string {
	switch strings.ToLower(name) {
	case "airdropdeployer":
		return &m.AirdropDeployer
	case "autofinscripts":
		return &m.AutoFinScripts
	case "autofindeployeraddress":
		return &m.AutoFinDeployerAddress
	case "autofinresourceaccountaddress":
		return &m.AutoFinResourceAccountAddress
	default:
		return nil
	}
}
