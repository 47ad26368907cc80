package swap

import (
	"errors"
	"fmt"

	"financer/core/composer"
	"financer/core/types"
)

// Entry functions of the swap module.
const (
	EntryAddLiquidity    = "add_liquidity_entry"
	EntryRemoveLiquidity = "remove_liquidity_entry"
	EntrySwapExactIn     = "swap_exact_coins_for_coins_entry"
	EntrySwapExactIn2    = "swap_exact_coins_for_coins_2_pair_entry"
	EntrySwapExactIn3    = "swap_exact_coins_for_coins_3_pair_entry"
	EntrySwapExactOut    = "swap_coins_for_exact_coins_entry"
	EntrySwapExactOut2   = "swap_coins_for_exact_coins_2_pair_entry"
	EntrySwapExactOut3   = "swap_coins_for_exact_coins_3_pair_entry"
)

// MaxHops is the longest route the swap module accepts.
const MaxHops = 3

// ErrInvalidPath is returned for routes that are too short, too long or
// revisit a coin.
var ErrInvalidPath = errors.New("swap: invalid path")

// AddLiquidityParams describes an add_liquidity_entry call.
type AddLiquidityParams struct {
	CoinX      string `json:"coinX"`
	CoinY      string `json:"coinY"`
	AmountX    string `json:"amountX"`
	AmountY    string `json:"amountY"`
	AmountXMin string `json:"amountXMin"`
	AmountYMin string `json:"amountYMin"`
}

// RemoveLiquidityParams describes a remove_liquidity_entry call.
type RemoveLiquidityParams struct {
	CoinX      string `json:"coinX"`
	CoinY      string `json:"coinY"`
	Liquidity  string `json:"liquidity"`
	AmountXMin string `json:"amountXMin"`
	AmountYMin string `json:"amountYMin"`
}

// AddLiquidityPayload deposits both coins of a pair.
func AddLiquidityPayload(scripts string, params AddLiquidityParams) (types.EntryFunctionPayload, error) {
	if err := validatePath([]string{params.CoinX, params.CoinY}); err != nil {
		return types.EntryFunctionPayload{}, err
	}
	return types.NewEntryFunctionPayload(
		composer.ComposeScript(scripts, EntryAddLiquidity),
		[]string{params.CoinX, params.CoinY},
		params.AmountX, params.AmountY, params.AmountXMin, params.AmountYMin,
	), nil
}

// RemoveLiquidityPayload burns LP coins for the underlying pair.
func RemoveLiquidityPayload(scripts string, params RemoveLiquidityParams) (types.EntryFunctionPayload, error) {
	if err := validatePath([]string{params.CoinX, params.CoinY}); err != nil {
		return types.EntryFunctionPayload{}, err
	}
	return types.NewEntryFunctionPayload(
		composer.ComposeScript(scripts, EntryRemoveLiquidity),
		[]string{params.CoinX, params.CoinY},
		params.Liquidity, params.AmountXMin, params.AmountYMin,
	), nil
}

// SwapExactInPayload sells exactly amountIn of path[0] for at least minOut of
// the last coin. path lists two to four coins.
func SwapExactInPayload(scripts string, path []string, amountIn, minOut string) (types.EntryFunctionPayload, error) {
	entry, err := entryForPath(path, EntrySwapExactIn, EntrySwapExactIn2, EntrySwapExactIn3)
	if err != nil {
		return types.EntryFunctionPayload{}, err
	}
	return types.NewEntryFunctionPayload(composer.ComposeScript(scripts, entry), path, amountIn, minOut), nil
}

// SwapExactOutPayload buys exactly amountOut of the last coin for at most
// maxIn of path[0].
func SwapExactOutPayload(scripts string, path []string, amountOut, maxIn string) (types.EntryFunctionPayload, error) {
	entry, err := entryForPath(path, EntrySwapExactOut, EntrySwapExactOut2, EntrySwapExactOut3)
	if err != nil {
		return types.EntryFunctionPayload{}, err
	}
	return types.NewEntryFunctionPayload(composer.ComposeScript(scripts, entry), path, amountOut, maxIn), nil
}

func entryForPath(path []string, entries ...string) (string, error) {
	if err := validatePath(path); err != nil {
		return "", err
	}
	return entries[len(path)-2], nil
}

func validatePath(path []string) error {
	if len(path) < 2 || len(path) > MaxHops+1 {
		return fmt.Errorf("%w: %d coins", ErrInvalidPath, len(path))
	}
	seen := make(map[string]struct{}, len(path))
	for _, coin := range path {
		if coin == "" {
			return fmt.Errorf("%w: empty coin type", ErrInvalidPath)
		}
		if _, dup := seen[coin]; dup {
			return fmt.Errorf("%w: %s repeats", ErrInvalidPath, coin)
		}
		seen[coin] = struct{}{}
	}
	return nil
}
