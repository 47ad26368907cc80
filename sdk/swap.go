package sdk

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"financer/core/composer"
	"financer/core/resources"
	"financer/core/types"
	"financer/native/swap"
)

// Swap reads AMM pools and builds liquidity and swap payloads.
type Swap struct {
	sdk *SDK
}

func (sw *Swap) scripts() string {
	return sw.sdk.options.Modules.Scripts
}

// GetAdminData returns the swap module's fee and pause settings.
func (sw *Swap) GetAdminData(ctx context.Context) (swap.AdminData, error) {
	if sw == nil || sw.sdk == nil {
		return swap.AdminData{}, fmt.Errorf("sdk: swap module not initialised")
	}
	account := sw.sdk.options.Modules.ResourceAccountAddress
	res, err := resources.Fetch[swap.AdminData](ctx, sw.sdk.resources, account, composer.ComposeSwapPoolData(sw.scripts()))
	if err != nil {
		return swap.AdminData{}, fmt.Errorf("sdk: swap admin data: %w", err)
	}
	return res.Data, nil
}

// GetLiquidityPool returns the reserves of the coinX/coinY pool oriented in
// the requested direction, whichever order the pool was created in.
func (sw *Swap) GetLiquidityPool(ctx context.Context, coinX, coinY string) (swap.Reserves, error) {
	if sw == nil || sw.sdk == nil {
		return swap.Reserves{}, fmt.Errorf("sdk: swap module not initialised")
	}
	account := sw.sdk.options.Modules.ResourceAccountAddress
	res, err := resources.Fetch[swap.LiquidityPool](ctx, sw.sdk.resources, account, composer.ComposeLP(sw.scripts(), coinX, coinY))
	if err == nil {
		return res.Data.Oriented(coinX, coinY, false), nil
	}
	if !errors.Is(err, resources.ErrResourceNotFound) {
		return swap.Reserves{}, fmt.Errorf("sdk: liquidity pool: %w", err)
	}
	res, err = resources.Fetch[swap.LiquidityPool](ctx, sw.sdk.resources, account, composer.ComposeLP(sw.scripts(), coinY, coinX))
	if err != nil {
		return swap.Reserves{}, fmt.Errorf("sdk: liquidity pool %s/%s: %w", coinX, coinY, err)
	}
	return res.Data.Oriented(coinX, coinY, true), nil
}

// QuoteExactIn returns the amounts received along path when selling
// amountIn of path[0].
func (sw *Swap) QuoteExactIn(ctx context.Context, path []string, amountIn decimal.Decimal) ([]decimal.Decimal, error) {
	fee, hops, err := sw.route(ctx, path)
	if err != nil {
		return nil, err
	}
	amounts, err := swap.AmountsOut(amountIn, hops, fee)
	if err != nil {
		return nil, fmt.Errorf("sdk: quote: %w", err)
	}
	return amounts, nil
}

// QuoteExactOut returns the amounts required along path to buy amountOut of
// the last coin.
func (sw *Swap) QuoteExactOut(ctx context.Context, path []string, amountOut decimal.Decimal) ([]decimal.Decimal, error) {
	fee, hops, err := sw.route(ctx, path)
	if err != nil {
		return nil, err
	}
	amounts, err := swap.AmountsIn(amountOut, hops, fee)
	if err != nil {
		return nil, fmt.Errorf("sdk: quote: %w", err)
	}
	return amounts, nil
}

func (sw *Swap) route(ctx context.Context, path []string) (decimal.Decimal, []swap.Reserves, error) {
	if sw == nil || sw.sdk == nil {
		return decimal.Zero, nil, fmt.Errorf("sdk: swap module not initialised")
	}
	if len(path) < 2 || len(path) > swap.MaxHops+1 {
		return decimal.Zero, nil, fmt.Errorf("sdk: %w: %d coins", swap.ErrInvalidPath, len(path))
	}
	admin, err := sw.GetAdminData(ctx)
	if err != nil {
		return decimal.Zero, nil, err
	}
	if admin.IsPause {
		return decimal.Zero, nil, fmt.Errorf("sdk: %w", swap.ErrPaused)
	}
	hops := make([]swap.Reserves, 0, len(path)-1)
	for i := 0; i+1 < len(path); i++ {
		reserves, err := sw.GetLiquidityPool(ctx, path[i], path[i+1])
		if err != nil {
			return decimal.Zero, nil, err
		}
		hops = append(hops, reserves)
	}
	return admin.SwapFee.Decimal(), hops, nil
}

// AddLiquidityPayload deposits both coins of a pair.
func (sw *Swap) AddLiquidityPayload(params swap.AddLiquidityParams) (types.EntryFunctionPayload, error) {
	payload, err := swap.AddLiquidityPayload(sw.scripts(), params)
	if err != nil {
		return types.EntryFunctionPayload{}, err
	}
	return sw.sdk.payload("swap_add_liquidity", payload), nil
}

// RemoveLiquidityPayload burns LP coins for the underlying pair.
func (sw *Swap) RemoveLiquidityPayload(params swap.RemoveLiquidityParams) (types.EntryFunctionPayload, error) {
	payload, err := swap.RemoveLiquidityPayload(sw.scripts(), params)
	if err != nil {
		return types.EntryFunctionPayload{}, err
	}
	return sw.sdk.payload("swap_remove_liquidity", payload), nil
}

// SwapExactInPayload sells exactly amountIn for at least minOut.
func (sw *Swap) SwapExactInPayload(path []string, amountIn, minOut string) (types.EntryFunctionPayload, error) {
	payload, err := swap.SwapExactInPayload(sw.scripts(), path, amountIn, minOut)
	if err != nil {
		return types.EntryFunctionPayload{}, err
	}
	return sw.sdk.payload("swap_exact_in", payload), nil
}

// SwapExactOutPayload buys exactly amountOut for at most maxIn.
func (sw *Swap) SwapExactOutPayload(path []string, amountOut, maxIn string) (types.EntryFunctionPayload, error) {
	payload, err := swap.SwapExactOutPayload(sw.scripts(), path, amountOut, maxIn)
	if err != nil {
		return types.EntryFunctionPayload{}, err
	}
	return sw.sdk.payload("swap_exact_out", payload), nil
}
