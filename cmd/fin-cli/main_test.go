package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"financer/config"
	"financer/core/composer"
	"financer/core/resources/resourcestest"
)

const testAddress = "0x2c5ebdd44fd5eac6382e53319a8fae35b87c3b25903c8b44ed35f9db63746538"

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("FIN_NODE_URL", "")
	t.Setenv("FIN_NETWORK", "")
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func decodeOutput(t *testing.T, out string) map[string]interface{} {
	t.Helper()
	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	return decoded
}

func TestRunWithoutCommandPrintsUsage(t *testing.T) {
	code, _, stderr := runCLI(t)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr, "Usage: fin-cli") {
		t.Fatalf("usage not printed: %q", stderr)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	code, _, stderr := runCLI(t, "bogus")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr, "Unknown command: bogus") {
		t.Fatalf("unexpected stderr: %q", stderr)
	}
}

func TestRunRejectsUnknownNetwork(t *testing.T) {
	code, _, stderr := runCLI(t, "--network", "moonnet", "network")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr, "Error:") {
		t.Fatalf("expected error output, got %q", stderr)
	}
}

func TestNetworkCommand(t *testing.T) {
	code, stdout, stderr := runCLI(t, "--network", "testnet", "network")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	out := decodeOutput(t, stdout)
	if out["network"] != "testnet" {
		t.Fatalf("unexpected network %v", out["network"])
	}
	opts, ok := out["options"].(map[string]interface{})
	if !ok {
		t.Fatalf("options missing from %v", out)
	}
	misc := opts["misc"].(map[string]interface{})
	if misc["AutoFinScripts"] != config.OptionsFor(config.Testnet).Misc.AutoFinScripts {
		t.Fatalf("unexpected AutoFin scripts %v", misc["AutoFinScripts"])
	}
}

func TestBalanceCommand(t *testing.T) {
	node := resourcestest.NewServer(t)
	opts := config.OptionsFor(config.Mainnet)
	node.PutRaw(t, testAddress, composer.ComposeCoinStore(opts.Modules.CoinStore, opts.Modules.FinAddress),
		`{"coin":{"value":"250"},"frozen":false}`)

	code, stdout, stderr := runCLI(t, "--node", node.URL, "balance", testAddress)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	out := decodeOutput(t, stdout)
	if out["balance"] != "250" {
		t.Fatalf("unexpected balance %v", out["balance"])
	}
	if out["coinType"] != opts.Modules.FinAddress {
		t.Fatalf("unexpected coin type %v", out["coinType"])
	}
}

func TestBalanceRequiresAddress(t *testing.T) {
	node := resourcestest.NewServer(t)
	code, _, stderr := runCLI(t, "--node", node.URL, "balance")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr, "balance requires exactly one address") {
		t.Fatalf("unexpected stderr: %q", stderr)
	}
	if len(node.Requests()) != 0 {
		t.Fatalf("expected no node requests, got %d", len(node.Requests()))
	}
}

func TestAirdropBalanceCommand(t *testing.T) {
	node := resourcestest.NewServer(t)
	deployer := config.OptionsFor(config.Mainnet).Misc.AirdropDeployer
	node.PutRaw(t, deployer, composer.ComposeAirdrop(deployer),
		`{"map":{"data":[{"key":"0x1234","value":"750"}]},"treasury":{"value":"10000"}}`)

	code, stdout, stderr := runCLI(t, "--node", node.URL, "airdrop", "balance", "0x0001234")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	out := decodeOutput(t, stdout)
	if out["eligible"] != true || out["amount"] != "750" {
		t.Fatalf("unexpected output %v", out)
	}

	code, stdout, _ = runCLI(t, "--node", node.URL, "airdrop", "balance", "0x9999")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	out = decodeOutput(t, stdout)
	if out["eligible"] != false {
		t.Fatalf("expected no allocation, got %v", out)
	}
	if _, ok := out["amount"]; ok {
		t.Fatalf("amount should be absent without an allocation: %v", out)
	}
}

func TestVaultPayloadCommands(t *testing.T) {
	scripts := config.OptionsFor(config.Mainnet).Misc.AutoFinScripts
	cases := []struct {
		args     []string
		function string
	}{
		{args: []string{"vault", "deposit", "100"}, function: scripts + "::deposit"},
		{args: []string{"vault", "withdraw", "7"}, function: scripts + "::withdraw"},
		{args: []string{"vault", "withdraw-all"}, function: scripts + "::withdraw_all"},
		{args: []string{"vault", "harvest"}, function: scripts + "::harvest"},
	}
	for _, tc := range cases {
		code, stdout, stderr := runCLI(t, tc.args...)
		if code != 0 {
			t.Fatalf("%v: exit %d: %s", tc.args, code, stderr)
		}
		out := decodeOutput(t, stdout)
		if out["function"] != tc.function {
			t.Fatalf("%v: unexpected function %v", tc.args, out["function"])
		}
		if out["type"] != "entry_function_payload" {
			t.Fatalf("%v: unexpected payload type %v", tc.args, out["type"])
		}
	}
}

func TestMasterChefStakeValidation(t *testing.T) {
	code, _, stderr := runCLI(t, "masterchef", "stake-fin")
	if code != 1 || !strings.Contains(stderr, "--amount is required") {
		t.Fatalf("unexpected result %d %q", code, stderr)
	}

	code, stdout, stderr := runCLI(t, "masterchef", "stake-fin", "--amount", "10", "--leave")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	out := decodeOutput(t, stdout)
	want := config.OptionsFor(config.Mainnet).Modules.MasterChefScripts + "::leave_staking"
	if out["function"] != want {
		t.Fatalf("unexpected function %v", out["function"])
	}
}

func TestSwapQuoteRequiresSingleAmount(t *testing.T) {
	code, _, stderr := runCLI(t, "swap", "quote", "--in", "1", "--out", "2", "APT", "FIN")
	if code != 1 || !strings.Contains(stderr, "exactly one of --in or --out") {
		t.Fatalf("unexpected result %d %q", code, stderr)
	}
}
