// Package vault implements the AutoFin auto-compounding vault share
// accounting.
package vault

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// BasisPoints is the fee denominator used by the vault.
const BasisPoints = 10_000

var (
	// ErrZeroTotalShares is returned when the vault has not been seeded and
	// share values are undefined.
	ErrZeroTotalShares = errors.New("vault: total shares is zero")
	// ErrFeeOutOfRange is returned when a fee exceeds the basis point
	// denominator.
	ErrFeeOutOfRange = errors.New("vault: fee exceeds basis points")
	// ErrNegativeBalance is returned for negative vault balances.
	ErrNegativeBalance = errors.New("vault: negative balance")
)

var bps = decimal.NewFromInt(BasisPoints)

// ComputeStakedReturn derives a depositor's position from their share count
// and the vault balance. The gross amount is floored while the post-fee
// amount is ceiled, matching the on-chain withdraw path.
func ComputeStakedReturn(user UserInfo, global GlobalData, vaultBalance decimal.Decimal) (StakedReturn, error) {
	if global.TotalShares.IsZero() {
		return StakedReturn{}, ErrZeroTotalShares
	}
	if vaultBalance.IsNegative() {
		return StakedReturn{}, fmt.Errorf("%w: %s", ErrNegativeBalance, vaultBalance)
	}
	withdrawFee := global.WithdrawFee.Decimal()
	if withdrawFee.GreaterThan(bps) {
		return StakedReturn{}, fmt.Errorf("%w: withdraw fee %s", ErrFeeOutOfRange, withdrawFee)
	}

	shares := user.Shares.Decimal()
	amount := floorDiv(shares.Mul(vaultBalance), global.TotalShares.Decimal())
	afterPenalty := ceilDiv(amount.Mul(bps.Sub(withdrawFee)), bps)

	return StakedReturn{
		LastUserActionAmount:     user.LastUserActionAmount.Decimal(),
		Amount:                   amount,
		AfterPenaltyAmount:       afterPenalty,
		WithdrawFeeFreeTimestamp: user.LastDepositedTime.Decimal().Add(global.WithdrawFeePeriod.Decimal()),
		Shares:                   shares,
	}, nil
}

// ComputeVaultTotal returns the total amount managed by the vault, which is
// the vault balance itself.
func ComputeVaultTotal(vaultBalance decimal.Decimal) decimal.Decimal {
	return vaultBalance
}

// ComputeHarvestCallFee returns the reward paid to whoever triggers a harvest,
// given the FIN available after unstaking from MasterChef.
func ComputeHarvestCallFee(global GlobalData, available decimal.Decimal) decimal.Decimal {
	return floorDiv(available.Mul(global.CallFee.Decimal()), bps)
}

// floorDiv returns floor(n/d) using exact integer division.
func floorDiv(n, d decimal.Decimal) decimal.Decimal {
	q, r := n.QuoRem(d, 0)
	if !r.IsZero() && (r.IsNegative() != d.IsNegative()) {
		q = q.Sub(decimal.NewFromInt(1))
	}
	return q
}

// ceilDiv returns ceil(n/d) using exact integer division.
func ceilDiv(n, d decimal.Decimal) decimal.Decimal {
	q, r := n.QuoRem(d, 0)
	if !r.IsZero() && (r.IsNegative() == d.IsNegative()) {
		q = q.Add(decimal.NewFromInt(1))
	}
	return q
}
