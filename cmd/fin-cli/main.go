package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"financer/config"
	"financer/observability/logging"
	"financer/sdk"
)

const defaultCommandTimeout = 60 * time.Second

type globalOptions struct {
	configPath string
	nodeURL    string
	network    string
	logLevel   string
}

// newSDK is swapped out in tests.
var newSDK = func(opts globalOptions, stderr io.Writer) (*sdk.SDK, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.nodeURL != "" {
		cfg.NodeURL = opts.nodeURL
	}
	if opts.network != "" {
		network, err := config.ParseNetwork(opts.network)
		if err != nil {
			return nil, err
		}
		cfg.Network = network
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level := cfg.Log.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger := logging.Setup("fin-cli", cfg.Log.Env,
		logging.WithWriter(stderr),
		logging.WithLevel(logging.ParseLevel(level)),
	)
	return sdk.FromConfig(cfg, sdk.WithLogger(logger))
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fin-cli", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var opts globalOptions
	fs.StringVar(&opts.configPath, "config", "", "path to a TOML config file (defaults apply when empty)")
	fs.StringVar(&opts.nodeURL, "node", "", "fullnode URL, overrides the config file")
	fs.StringVar(&opts.network, "network", "", "mainnet, devnet or testnet")
	fs.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	fs.Usage = func() { fmt.Fprintln(stderr, usage()) }
	if err := fs.Parse(args); err != nil {
		return 1
	}
	rest := fs.Args()
	if len(rest) == 0 {
		fmt.Fprintln(stderr, usage())
		return 1
	}

	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "Unknown command: %s\n", rest[0])
		fmt.Fprintln(stderr, usage())
		return 1
	}

	client, err := newSDK(opts, stderr)
	if err != nil {
		return printError(stderr, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultCommandTimeout)
	defer cancel()
	return cmd(ctx, client, rest[1:], stdout, stderr)
}

type command func(ctx context.Context, client *sdk.SDK, args []string, stdout, stderr io.Writer) int

var commands = map[string]command{
	"balance":    runBalance,
	"airdrop":    runAirdrop,
	"vault":      runVault,
	"masterchef": runMasterChef,
	"swap":       runSwap,
	"network":    runNetwork,
}

func usage() string {
	return strings.TrimSpace(`
Usage: fin-cli [--config file] [--node url] [--network name] <command> [args]

Commands:
  balance <address> [--coin type]        coin balance (defaults to FIN)
  network                                active network table
  airdrop balance <address>              unclaimed airdrop allocation
  airdrop claim                          claim payload
  vault staked <address>                 AutoFin position of an address
  vault total                            FIN managed by the vault
  vault call-fee                         current harvest call fee
  vault deposit <amount>                 deposit payload
  vault withdraw <shares>                withdraw payload
  vault withdraw-all                     withdraw-all payload
  vault harvest                          harvest payload
  masterchef pools                       every farm pool
  masterchef lps                         coins accepted by the farm
  masterchef user <address> [--coin t]   farm positions of an address
  masterchef registered <address>        whether the address can receive FIN
  masterchef register                    register FIN payload
  masterchef stake-lp --coin t --amount n [--withdraw]
  masterchef stake-fin --amount n [--leave]
  swap pool <coinX> <coinY>              pool reserves
  swap quote --in|--out <amount> <coin> <coin> [coin...]
  swap payload --in|--out <amount> --limit <amount> <coin> <coin> [coin...]

Payload commands print JSON for an external signer; nothing is submitted.`)
}

func newSubFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// parseInterspersed parses flags that may follow positional arguments and
// returns the positional arguments.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func printJSON(stdout io.Writer, v interface{}) int {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return 1
	}
	return 0
}

func printError(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

func printUsageError(stderr io.Writer, msg string) int {
	fmt.Fprintf(stderr, "Error: %s\n", msg)
	return 1
}
