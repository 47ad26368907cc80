// Package swap models the constant-product AMM pools and builds their entry
// function payloads.
package swap

import (
	"errors"

	"github.com/shopspring/decimal"
)

// BasisPoints is the swap fee denominator.
const BasisPoints = 10_000

var (
	// ErrInsufficientAmount is returned for non-positive trade amounts.
	ErrInsufficientAmount = errors.New("swap: insufficient amount")
	// ErrInsufficientLiquidity is returned when a pool cannot fill the trade.
	ErrInsufficientLiquidity = errors.New("swap: insufficient liquidity")
	// ErrFeeOutOfRange is returned when the swap fee is not below 100%.
	ErrFeeOutOfRange = errors.New("swap: fee out of range")
	// ErrPaused is returned when the swap module is paused by its admin.
	ErrPaused = errors.New("swap: paused")
)

var (
	bps = decimal.NewFromInt(BasisPoints)
	one = decimal.NewFromInt(1)
)

// GetAmountOut returns the output of selling amountIn into a pool, rounding
// down.
func GetAmountOut(amountIn, reserveIn, reserveOut decimal.Decimal, swapFee decimal.Decimal) (decimal.Decimal, error) {
	if !amountIn.IsPositive() {
		return decimal.Zero, ErrInsufficientAmount
	}
	if !reserveIn.IsPositive() || !reserveOut.IsPositive() {
		return decimal.Zero, ErrInsufficientLiquidity
	}
	if swapFee.IsNegative() || swapFee.GreaterThanOrEqual(bps) {
		return decimal.Zero, ErrFeeOutOfRange
	}
	inWithFee := amountIn.Mul(bps.Sub(swapFee))
	numerator := inWithFee.Mul(reserveOut)
	denominator := reserveIn.Mul(bps).Add(inWithFee)
	return quo(numerator, denominator), nil
}

// GetAmountIn returns the input needed to buy amountOut from a pool,
// rounding up.
func GetAmountIn(amountOut, reserveIn, reserveOut decimal.Decimal, swapFee decimal.Decimal) (decimal.Decimal, error) {
	if !amountOut.IsPositive() {
		return decimal.Zero, ErrInsufficientAmount
	}
	if !reserveIn.IsPositive() || !reserveOut.IsPositive() || amountOut.GreaterThanOrEqual(reserveOut) {
		return decimal.Zero, ErrInsufficientLiquidity
	}
	if swapFee.IsNegative() || swapFee.GreaterThanOrEqual(bps) {
		return decimal.Zero, ErrFeeOutOfRange
	}
	numerator := reserveIn.Mul(amountOut).Mul(bps)
	denominator := reserveOut.Sub(amountOut).Mul(bps.Sub(swapFee))
	return quo(numerator, denominator).Add(one), nil
}

// Quote returns the amount of Y matching amountX at the current pool ratio,
// as used when adding liquidity.
func Quote(amountX, reserveX, reserveY decimal.Decimal) (decimal.Decimal, error) {
	if !amountX.IsPositive() {
		return decimal.Zero, ErrInsufficientAmount
	}
	if !reserveX.IsPositive() || !reserveY.IsPositive() {
		return decimal.Zero, ErrInsufficientLiquidity
	}
	return quo(amountX.Mul(reserveY), reserveX), nil
}

// AmountsOut chains GetAmountOut across consecutive pools. The result has one
// entry per coin in the route, starting with amountIn.
func AmountsOut(amountIn decimal.Decimal, hops []Reserves, swapFee decimal.Decimal) ([]decimal.Decimal, error) {
	amounts := make([]decimal.Decimal, 0, len(hops)+1)
	amounts = append(amounts, amountIn)
	for _, hop := range hops {
		out, err := GetAmountOut(amounts[len(amounts)-1], hop.ReserveX, hop.ReserveY, swapFee)
		if err != nil {
			return nil, err
		}
		amounts = append(amounts, out)
	}
	return amounts, nil
}

// AmountsIn chains GetAmountIn backwards across consecutive pools. The
// result has one entry per coin in the route, ending with amountOut.
func AmountsIn(amountOut decimal.Decimal, hops []Reserves, swapFee decimal.Decimal) ([]decimal.Decimal, error) {
	amounts := make([]decimal.Decimal, len(hops)+1)
	amounts[len(hops)] = amountOut
	for i := len(hops) - 1; i >= 0; i-- {
		in, err := GetAmountIn(amounts[i+1], hops[i].ReserveX, hops[i].ReserveY, swapFee)
		if err != nil {
			return nil, err
		}
		amounts[i] = in
	}
	return amounts, nil
}

func quo(n, d decimal.Decimal) decimal.Decimal {
	q, _ := n.QuoRem(d, 0)
	return q
}
