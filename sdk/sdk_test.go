package sdk_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"financer/config"
	"financer/core/composer"
	"financer/core/resources"
	"financer/core/resources/resourcestest"
	"financer/native/masterchef"
	"financer/native/swap"
	"financer/native/vault"
	"financer/sdk"
)

const user = "0x2c5ebdd44fd5eac6382e53319a8fae35b87c3b25903c8b44ed35f9db63746538"

var fixedNow = time.Unix(5000, 0)

type fixture struct {
	node *resourcestest.Server
	sdk  *sdk.SDK
	opts config.Options
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	node := resourcestest.NewServer(t)
	client, err := sdk.New(node.URL, config.Mainnet, sdk.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return &fixture{node: node, sdk: client, opts: client.NetworkOptions()}
}

func (f *fixture) coinStore(t *testing.T, address, coin, value string) {
	f.node.PutRaw(t, address, composer.ComposeCoinStore(f.opts.Modules.CoinStore, coin),
		`{"coin":{"value":"`+value+`"},"frozen":false}`)
}

// seedVault stores a vault holding 500 idle FIN and 1500 FIN staked in
// MasterChef with 277 FIN of pending rewards.
func (f *fixture) seedVault(t *testing.T) {
	misc, modules := f.opts.Misc, f.opts.Modules
	fin := modules.FinAddress

	f.node.PutRaw(t, user, composer.ComposeAutoFinUserInfo(misc.AutoFinScripts),
		`{"shares":"500","last_deposited_time":"1000","last_user_action_FIN":"900","last_user_action_time":"1000"}`)
	f.node.PutRaw(t, misc.AutoFinResourceAccountAddress, composer.ComposeAutoFinData(misc.AutoFinScripts),
		`{"total_shares":"1000","performance_fee":"200","call_fee":"25","withdraw_fee":"100","withdraw_fee_period":"259200","last_harvested_time":"900"}`)
	f.coinStore(t, misc.AutoFinResourceAccountAddress, fin, "500")

	f.node.PutRaw(t, misc.AutoFinResourceAccountAddress, composer.ComposeMasterChefUserInfo(modules.MasterChefScripts, fin),
		`{"amount":"1500","reward_debt":"0"}`)
	f.seedMasterChef(t)
}

func (f *fixture) seedMasterChef(t *testing.T) {
	modules := f.opts.Modules
	account := modules.MasterChefResourceAccountAddress
	f.node.PutRaw(t, account, composer.ComposeMasterChefData(modules.MasterChefScripts),
		`{"admin_address":"0x8f3f","dao_address":"0x8f3f","dao_percent":"10","bonus_multiplier":"1","total_alloc_point":"1000","per_second_FIN":"1000000","start_timestamp":"0","last_timestamp_dao_withdraw":"0"}`)
	f.node.PutRaw(t, account, composer.ComposeMasterChefPoolInfo(modules.MasterChefScripts, modules.FinAddress),
		`{"acc_FIN_per_share":"184666666667","last_reward_timestamp":"5000","alloc_point":"400"}`)
	f.coinStore(t, account, modules.FinAddress, "100000")
}

func TestNewAppliesNetworkAndOverrides(t *testing.T) {
	client, err := sdk.New("https://fullnode.example.com", config.Testnet, sdk.WithOverrides(map[string]string{
		"Misc.AirdropDeployer": "0x42",
	}))
	require.NoError(t, err)
	require.Equal(t, config.Testnet, client.Network())

	opts := client.NetworkOptions()
	require.Equal(t, "0x42", opts.Misc.AirdropDeployer)
	require.Equal(t, config.OptionsFor(config.Testnet).Misc.AutoFinScripts, opts.Misc.AutoFinScripts)

	opts.Misc.AutoFinScripts = "mutated"
	require.NotEqual(t, "mutated", client.NetworkOptions().Misc.AutoFinScripts)

	_, err = sdk.New("https://fullnode.example.com", config.Mainnet, sdk.WithOverrides(map[string]string{"Nope": "x"}))
	require.Error(t, err)
	_, err = sdk.New("", config.Mainnet)
	require.Error(t, err)
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.NodeURL = "http://127.0.0.1:8080"
	cfg.Network = config.Devnet
	cfg.RequestsPerSecond = 5
	cfg.Burst = 2
	cfg.Overrides = map[string]string{"Coins.FIN": "0xfeed::coin::FIN"}

	client, err := sdk.FromConfig(cfg)
	require.NoError(t, err)
	require.Equal(t, config.Devnet, client.Network())
	coin, ok := client.NetworkOptions().Coin("FIN")
	require.True(t, ok)
	require.Equal(t, "0xfeed::coin::FIN", coin)

	_, err = sdk.FromConfig(nil)
	require.Error(t, err)
}

func TestCalculateAutoFinStakedAmount(t *testing.T) {
	f := newFixture(t)
	f.seedVault(t)

	staked, err := f.sdk.Misc().CalculateAutoFinStakedAmount(context.Background(), user)
	require.NoError(t, err)
	require.True(t, staked.Amount.Equal(decimal.NewFromInt(1000)), "amount %s", staked.Amount)
	require.True(t, staked.AfterPenaltyAmount.Equal(decimal.NewFromInt(990)), "after penalty %s", staked.AfterPenaltyAmount)
	require.True(t, staked.WithdrawFeeFreeTimestamp.Equal(decimal.NewFromInt(260200)))
	require.True(t, staked.Shares.Equal(decimal.NewFromInt(500)))
	require.True(t, staked.LastUserActionAmount.Equal(decimal.NewFromInt(900)))
	require.True(t, staked.WithdrawFeeApplies(fixedNow.Unix()))
}

func TestCalculateAutoFinStakedAmountMissingUser(t *testing.T) {
	f := newFixture(t)
	f.seedVault(t)

	_, err := f.sdk.Misc().CalculateAutoFinStakedAmount(context.Background(), "0xdead")
	require.ErrorIs(t, err, resources.ErrResourceNotFound)
}

func TestCalculateAutoFinStakedAmountUnseededVault(t *testing.T) {
	f := newFixture(t)
	f.seedVault(t)
	misc := f.opts.Misc
	f.node.PutRaw(t, misc.AutoFinResourceAccountAddress, composer.ComposeAutoFinData(misc.AutoFinScripts),
		`{"total_shares":"0","performance_fee":"200","call_fee":"25","withdraw_fee":"100","withdraw_fee_period":"259200","last_harvested_time":"0"}`)

	_, err := f.sdk.Misc().CalculateAutoFinStakedAmount(context.Background(), user)
	require.ErrorIs(t, err, vault.ErrZeroTotalShares)
}

func TestCalculateAutoFinInfoAndCallFee(t *testing.T) {
	f := newFixture(t)
	f.seedVault(t)

	info, err := f.sdk.Misc().CalculateAutoFinInfo(context.Background())
	require.NoError(t, err)
	require.True(t, info.Amount.Equal(decimal.NewFromInt(2000)), "vault total %s", info.Amount)

	fee, err := f.sdk.Misc().CalculateAutoFinHarvestCallFee(context.Background())
	require.NoError(t, err)
	require.True(t, fee.Equal(decimal.NewFromInt(1)), "call fee %s", fee)
}

func TestCheckUserAirdropBalance(t *testing.T) {
	f := newFixture(t)
	deployer := f.opts.Misc.AirdropDeployer
	f.node.PutRaw(t, deployer, composer.ComposeAirdrop(deployer),
		`{"map":{"data":[{"key":"0x1234","value":"750"},{"key":"0xabc","value":"0"}]},"treasury":{"value":"10000"}}`)

	ctx := context.Background()
	padded, err := f.sdk.Misc().CheckUserAirdropBalance(ctx, "0x0000000000000000000000000000000000000000000000000000000000001234")
	require.NoError(t, err)
	short, err := f.sdk.Misc().CheckUserAirdropBalance(ctx, "0x1234")
	require.NoError(t, err)
	require.True(t, padded.Valid)
	require.True(t, padded.Decimal.Equal(short.Decimal))
	require.Equal(t, "750", short.Decimal.String())

	claimed, err := f.sdk.Misc().CheckUserAirdropBalance(ctx, "0xabc")
	require.NoError(t, err)
	require.True(t, claimed.Valid)
	require.True(t, claimed.Decimal.IsZero())

	none, err := f.sdk.Misc().CheckUserAirdropBalance(ctx, "0x9999")
	require.NoError(t, err)
	require.False(t, none.Valid)
}

func TestCheckUserAirdropBalanceMissingResource(t *testing.T) {
	f := newFixture(t)
	_, err := f.sdk.Misc().CheckUserAirdropBalance(context.Background(), "0x1234")
	require.ErrorIs(t, err, resources.ErrResourceNotFound)
}

func TestMasterChefReads(t *testing.T) {
	f := newFixture(t)
	f.seedMasterChef(t)
	modules := f.opts.Modules
	ctx := context.Background()

	lpCoin := composer.ComposeLPCoin(modules.ResourceAccountAddress, f.opts.NativeCoin, modules.FinAddress)
	f.node.PutRaw(t, modules.MasterChefResourceAccountAddress, composer.ComposeMasterChefPoolInfo(modules.MasterChefScripts, lpCoin),
		`{"acc_FIN_per_share":"0","last_reward_timestamp":"4990","alloc_point":"600"}`)
	f.coinStore(t, modules.MasterChefResourceAccountAddress, lpCoin, "1000000000")
	f.node.PutRaw(t, modules.MasterChefResourceAccountAddress, composer.ComposeMasterChefLPList(modules.MasterChefScripts),
		`{"lp_list":[{"account_address":"0x1","module_name":"0x6170746f735f636f696e","struct_name":"0x4170746f73436f696e"}]}`)

	lps, err := f.sdk.MasterChef().GetLPInfoResources(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"0x1::aptos_coin::AptosCoin"}, lps)

	pools, err := f.sdk.MasterChef().GetAllPoolInfo(ctx)
	require.NoError(t, err)
	require.Len(t, pools, 2)
	coins := []string{pools[0].CoinType, pools[1].CoinType}
	require.ElementsMatch(t, []string{modules.FinAddress, lpCoin}, coins)

	data, err := f.sdk.MasterChef().GetMasterChefData(ctx)
	require.NoError(t, err)
	require.Equal(t, "1000", data.TotalAllocPoint.String())

	// 10s * 1e6 * 600/1000 * 90% = 5.4e6 over 1e9 staked.
	f.node.PutRaw(t, user, composer.ComposeMasterChefUserInfo(modules.MasterChefScripts, lpCoin), `{"amount":"1000000","reward_debt":"0"}`)
	position, err := f.sdk.MasterChef().GetUserInfoByCoinType(ctx, user, lpCoin)
	require.NoError(t, err)
	require.Equal(t, "1000000", position.Amount.String())
	require.Equal(t, "5400", position.Pending.String())

	// A stale position whose pool was removed is skipped.
	f.node.PutRaw(t, user, composer.ComposeMasterChefUserInfo(modules.MasterChefScripts, "0x9::gone::Coin"), `{"amount":"1","reward_debt":"0"}`)
	all, err := f.sdk.MasterChef().GetUserInfoAll(ctx, user)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, lpCoin, all[0].CoinType)

	none, err := f.sdk.MasterChef().GetUserInfoAll(ctx, "0xdead")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestCheckRegisteredFIN(t *testing.T) {
	f := newFixture(t)
	f.coinStore(t, user, f.opts.Modules.FinAddress, "0")

	ok, err := f.sdk.MasterChef().CheckRegisteredFIN(context.Background(), user)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = f.sdk.MasterChef().CheckRegisteredFIN(context.Background(), "0xdead")
	require.NoError(t, err)
	require.False(t, ok)

	f.node.FailWith(500)
	_, err = f.sdk.MasterChef().CheckRegisteredFIN(context.Background(), user)
	require.Error(t, err)
	require.False(t, errors.Is(err, resources.ErrResourceNotFound))
}

func TestSwapQuotes(t *testing.T) {
	f := newFixture(t)
	modules := f.opts.Modules
	native, fin := f.opts.NativeCoin, modules.FinAddress
	f.node.PutRaw(t, modules.ResourceAccountAddress, composer.ComposeSwapPoolData(modules.Scripts),
		`{"admin_address":"0x1","dao_fee_to":"0x1","swap_fee":"30","dao_fee":"5","dao_fee_on":true,"is_pause":false}`)
	// Stored as LiquidityPool<FIN, APT>; queried as APT/FIN.
	f.node.PutRaw(t, modules.ResourceAccountAddress, composer.ComposeLP(modules.Scripts, fin, native),
		`{"coin_x_reserve":{"value":"200000"},"coin_y_reserve":{"value":"100000"},"last_block_timestamp":"1","k_last":"0","locked":false}`)

	ctx := context.Background()
	reserves, err := f.sdk.Swap().GetLiquidityPool(ctx, native, fin)
	require.NoError(t, err)
	require.Equal(t, "100000", reserves.ReserveX.String())
	require.Equal(t, "200000", reserves.ReserveY.String())

	out, err := f.sdk.Swap().QuoteExactIn(ctx, []string{native, fin}, decimal.NewFromInt(1000))
	require.NoError(t, err)
	require.Equal(t, "1974", out[1].String())

	in, err := f.sdk.Swap().QuoteExactOut(ctx, []string{native, fin}, decimal.NewFromInt(1974))
	require.NoError(t, err)
	require.Equal(t, "1000", in[0].String())

	_, err = f.sdk.Swap().GetLiquidityPool(ctx, native, "0x9::none::Coin")
	require.ErrorIs(t, err, resources.ErrResourceNotFound)

	_, err = f.sdk.Swap().QuoteExactIn(ctx, []string{native}, decimal.NewFromInt(1))
	require.ErrorIs(t, err, swap.ErrInvalidPath)

	f.node.PutRaw(t, modules.ResourceAccountAddress, composer.ComposeSwapPoolData(modules.Scripts),
		`{"admin_address":"0x1","dao_fee_to":"0x1","swap_fee":"30","dao_fee":"5","dao_fee_on":true,"is_pause":true}`)
	_, err = f.sdk.Swap().QuoteExactIn(ctx, []string{native, fin}, decimal.NewFromInt(1000))
	require.ErrorIs(t, err, swap.ErrPaused)
}

func TestPayloadsUseNetworkTable(t *testing.T) {
	f := newFixture(t)
	misc, modules := f.opts.Misc, f.opts.Modules

	deposit := f.sdk.Misc().AutoFinDepositPayload("100000000")
	require.Equal(t, misc.AutoFinScripts+"::deposit", deposit.Function)
	require.Equal(t, []string{"100000000"}, deposit.Arguments)
	require.Empty(t, deposit.TypeArguments)

	require.Equal(t, misc.AutoFinScripts+"::withdraw", f.sdk.Misc().AutoFinWithdrawPayload("3").Function)
	require.Equal(t, misc.AutoFinScripts+"::withdraw_all", f.sdk.Misc().AutoFinWithdrawAllPayload().Function)
	require.Equal(t, misc.AutoFinScripts+"::harvest", f.sdk.Misc().AutoFinHarvestPayload().Function)
	require.Equal(t, misc.AirdropDeployer+"::Airdrop::claim_airdrop", f.sdk.Misc().ClaimAirdropPayload().Function)
	require.Equal(t, composer.ExtractAddress(modules.FinAddress)+"::FinancerCoin::register_FIN", f.sdk.MasterChef().RegisterFINPayload().Function)

	stake, err := f.sdk.MasterChef().StakeFINPayload(masterchef.StakeFINParams{Amount: "5", Method: masterchef.MethodLeaveStaking})
	require.NoError(t, err)
	require.Equal(t, modules.MasterChefScripts+"::leave_staking", stake.Function)

	swapIn, err := f.sdk.Swap().SwapExactInPayload([]string{"A", "B", "C"}, "10", "9")
	require.NoError(t, err)
	require.Equal(t, modules.Scripts+"::swap_exact_coins_for_coins_2_pair_entry", swapIn.Function)

	// Payload builders never touch the node.
	require.Empty(t, f.node.Requests())
}
