package main

import (
	"context"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"financer/native/masterchef"
	"financer/sdk"
)

func runNetwork(_ context.Context, client *sdk.SDK, args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		return printUsageError(stderr, "network takes no arguments")
	}
	return printJSON(stdout, map[string]interface{}{
		"network": client.Network().String(),
		"options": client.NetworkOptions(),
	})
}

func runBalance(ctx context.Context, client *sdk.SDK, args []string, stdout, stderr io.Writer) int {
	fs := newSubFlagSet("balance", stderr)
	coin := fs.String("coin", "", "coin type or symbol from the network table (defaults to FIN)")
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return 1
	}
	if len(positional) != 1 {
		return printUsageError(stderr, "balance requires exactly one address")
	}
	coinType := resolveCoin(client, *coin)
	balance, err := client.GetBalance(ctx, positional[0], coinType)
	if err != nil {
		return printError(stderr, err)
	}
	return printJSON(stdout, map[string]interface{}{
		"address":  positional[0],
		"coinType": coinType,
		"balance":  balance,
	})
}

func resolveCoin(client *sdk.SDK, coin string) string {
	return client.NetworkOptions().ResolveCoin(coin)
}

func runAirdrop(ctx context.Context, client *sdk.SDK, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		return printUsageError(stderr, "airdrop requires a subcommand: balance or claim")
	}
	switch args[0] {
	case "balance":
		if len(args) != 2 {
			return printUsageError(stderr, "airdrop balance requires an address")
		}
		allocation, err := client.Misc().CheckUserAirdropBalance(ctx, args[1])
		if err != nil {
			return printError(stderr, err)
		}
		out := map[string]interface{}{"address": args[1], "eligible": allocation.Valid}
		if allocation.Valid {
			out["amount"] = allocation.Decimal
			out["claimed"] = allocation.Decimal.IsZero()
		}
		return printJSON(stdout, out)
	case "claim":
		return printJSON(stdout, client.Misc().ClaimAirdropPayload())
	default:
		return printUsageError(stderr, fmt.Sprintf("unknown airdrop subcommand: %s", args[0]))
	}
}

func runVault(ctx context.Context, client *sdk.SDK, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		return printUsageError(stderr, "vault requires a subcommand")
	}
	misc := client.Misc()
	switch args[0] {
	case "staked":
		if len(args) != 2 {
			return printUsageError(stderr, "vault staked requires an address")
		}
		staked, err := misc.CalculateAutoFinStakedAmount(ctx, args[1])
		if err != nil {
			return printError(stderr, err)
		}
		return printJSON(stdout, map[string]interface{}{
			"position": staked,
			"interest": staked.Interest(),
		})
	case "total":
		info, err := misc.CalculateAutoFinInfo(ctx)
		if err != nil {
			return printError(stderr, err)
		}
		return printJSON(stdout, info)
	case "call-fee":
		fee, err := misc.CalculateAutoFinHarvestCallFee(ctx)
		if err != nil {
			return printError(stderr, err)
		}
		return printJSON(stdout, map[string]interface{}{"callFee": fee})
	case "deposit":
		if len(args) != 2 {
			return printUsageError(stderr, "vault deposit requires an amount")
		}
		return printJSON(stdout, misc.AutoFinDepositPayload(args[1]))
	case "withdraw":
		if len(args) != 2 {
			return printUsageError(stderr, "vault withdraw requires a share count")
		}
		return printJSON(stdout, misc.AutoFinWithdrawPayload(args[1]))
	case "withdraw-all":
		return printJSON(stdout, misc.AutoFinWithdrawAllPayload())
	case "harvest":
		return printJSON(stdout, misc.AutoFinHarvestPayload())
	default:
		return printUsageError(stderr, fmt.Sprintf("unknown vault subcommand: %s", args[0]))
	}
}

func runMasterChef(ctx context.Context, client *sdk.SDK, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		return printUsageError(stderr, "masterchef requires a subcommand")
	}
	mc := client.MasterChef()
	switch args[0] {
	case "pools":
		pools, err := mc.GetAllPoolInfo(ctx)
		if err != nil {
			return printError(stderr, err)
		}
		return printJSON(stdout, pools)
	case "lps":
		lps, err := mc.GetLPInfoResources(ctx)
		if err != nil {
			return printError(stderr, err)
		}
		return printJSON(stdout, lps)
	case "user":
		fs := newSubFlagSet("masterchef user", stderr)
		coin := fs.String("coin", "", "restrict to one pool")
		positional, err := parseInterspersed(fs, args[1:])
		if err != nil {
			return 1
		}
		if len(positional) != 1 {
			return printUsageError(stderr, "masterchef user requires an address")
		}
		if *coin != "" {
			position, err := mc.GetUserInfoByCoinType(ctx, positional[0], resolveCoin(client, *coin))
			if err != nil {
				return printError(stderr, err)
			}
			return printJSON(stdout, position)
		}
		positions, err := mc.GetUserInfoAll(ctx, positional[0])
		if err != nil {
			return printError(stderr, err)
		}
		return printJSON(stdout, positions)
	case "registered":
		if len(args) != 2 {
			return printUsageError(stderr, "masterchef registered requires an address")
		}
		ok, err := mc.CheckRegisteredFIN(ctx, args[1])
		if err != nil {
			return printError(stderr, err)
		}
		return printJSON(stdout, map[string]interface{}{"address": args[1], "registered": ok})
	case "register":
		return printJSON(stdout, mc.RegisterFINPayload())
	case "stake-lp":
		fs := newSubFlagSet("masterchef stake-lp", stderr)
		coin := fs.String("coin", "", "LP coin type")
		amount := fs.String("amount", "", "amount in base units")
		withdraw := fs.Bool("withdraw", false, "withdraw instead of deposit")
		if err := fs.Parse(args[1:]); err != nil {
			return 1
		}
		if *amount == "" {
			return printUsageError(stderr, "--amount is required")
		}
		method := masterchef.MethodDeposit
		if *withdraw {
			method = masterchef.MethodWithdraw
		}
		payload, err := mc.StakeLPCoinPayload(masterchef.StakeLPCoinParams{Amount: *amount, CoinType: *coin, Method: method})
		if err != nil {
			return printError(stderr, err)
		}
		return printJSON(stdout, payload)
	case "stake-fin":
		fs := newSubFlagSet("masterchef stake-fin", stderr)
		amount := fs.String("amount", "", "amount in base units")
		leave := fs.Bool("leave", false, "leave staking instead of entering")
		if err := fs.Parse(args[1:]); err != nil {
			return 1
		}
		if *amount == "" {
			return printUsageError(stderr, "--amount is required")
		}
		method := masterchef.MethodEnterStaking
		if *leave {
			method = masterchef.MethodLeaveStaking
		}
		payload, err := mc.StakeFINPayload(masterchef.StakeFINParams{Amount: *amount, Method: method})
		if err != nil {
			return printError(stderr, err)
		}
		return printJSON(stdout, payload)
	default:
		return printUsageError(stderr, fmt.Sprintf("unknown masterchef subcommand: %s", args[0]))
	}
}

func runSwap(ctx context.Context, client *sdk.SDK, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		return printUsageError(stderr, "swap requires a subcommand")
	}
	sw := client.Swap()
	switch args[0] {
	case "pool":
		if len(args) != 3 {
			return printUsageError(stderr, "swap pool requires two coins")
		}
		reserves, err := sw.GetLiquidityPool(ctx, resolveCoin(client, args[1]), resolveCoin(client, args[2]))
		if err != nil {
			return printError(stderr, err)
		}
		return printJSON(stdout, reserves)
	case "quote", "payload":
		fs := newSubFlagSet("swap "+args[0], stderr)
		in := fs.String("in", "", "exact input amount")
		out := fs.String("out", "", "exact output amount")
		limit := fs.String("limit", "", "minimum output or maximum input (payload only)")
		positional, err := parseInterspersed(fs, args[1:])
		if err != nil {
			return 1
		}
		if (*in == "") == (*out == "") {
			return printUsageError(stderr, "exactly one of --in or --out is required")
		}
		path := make([]string, 0, len(positional))
		for _, coin := range positional {
			path = append(path, resolveCoin(client, coin))
		}
		if args[0] == "payload" {
			if *limit == "" {
				return printUsageError(stderr, "--limit is required")
			}
			var payloadErr error
			var payload interface{}
			if *in != "" {
				payload, payloadErr = sw.SwapExactInPayload(path, *in, *limit)
			} else {
				payload, payloadErr = sw.SwapExactOutPayload(path, *out, *limit)
			}
			if payloadErr != nil {
				return printError(stderr, payloadErr)
			}
			return printJSON(stdout, payload)
		}
		var amounts []decimal.Decimal
		if *in != "" {
			amount, err := decimal.NewFromString(*in)
			if err != nil {
				return printUsageError(stderr, "--in must be a number")
			}
			amounts, err = sw.QuoteExactIn(ctx, path, amount)
			if err != nil {
				return printError(stderr, err)
			}
		} else {
			amount, err := decimal.NewFromString(*out)
			if err != nil {
				return printUsageError(stderr, "--out must be a number")
			}
			amounts, err = sw.QuoteExactOut(ctx, path, amount)
			if err != nil {
				return printError(stderr, err)
			}
		}
		return printJSON(stdout, map[string]interface{}{"path": path, "amounts": amounts})
	default:
		return printUsageError(stderr, fmt.Sprintf("unknown swap subcommand: %s", args[0]))
	}
}
