package vault

import (
	"github.com/shopspring/decimal"

	"financer/core/types"
)

// UserInfo mirrors the AutoFin UserInfo resource stored under each depositor.
type UserInfo struct {
	Shares               types.Uint `json:"shares"`
	LastDepositedTime    types.Uint `json:"last_deposited_time"`
	LastUserActionAmount types.Uint `json:"last_user_action_FIN"`
	LastUserActionTime   types.Uint `json:"last_user_action_time"`
}

// GlobalData mirrors the AutoFINData resource held by the vault resource
// account. Fees are expressed in basis points.
type GlobalData struct {
	TotalShares       types.Uint `json:"total_shares"`
	PerformanceFee    types.Uint `json:"performance_fee"`
	CallFee           types.Uint `json:"call_fee"`
	WithdrawFee       types.Uint `json:"withdraw_fee"`
	WithdrawFeePeriod types.Uint `json:"withdraw_fee_period"`
	LastHarvestedTime types.Uint `json:"last_harvested_time"`
}

// StakedReturn is the derived position of a depositor. It is recomputed for
// every query.
type StakedReturn struct {
	// LastUserActionAmount is the amount recorded at the last deposit or
	// withdrawal. It approximates the principal.
	LastUserActionAmount decimal.Decimal `json:"lastUserActionAmount"`

	// Amount is principal plus accrued interest.
	Amount decimal.Decimal `json:"amount"`

	// AfterPenaltyAmount is Amount net of the withdraw fee.
	AfterPenaltyAmount decimal.Decimal `json:"afterPenaltyAmount"`

	// WithdrawFeeFreeTimestamp is the first unix second at which withdrawing
	// carries no fee.
	WithdrawFeeFreeTimestamp decimal.Decimal `json:"withdrawFeeFreeTimestamp"`

	Shares decimal.Decimal `json:"shares"`
}

// Interest returns the growth since the last user action, floored at zero.
func (r StakedReturn) Interest() decimal.Decimal {
	interest := r.Amount.Sub(r.LastUserActionAmount)
	if interest.IsNegative() {
		return decimal.Zero
	}
	return interest
}

// WithdrawFeeApplies reports whether a withdrawal at unix time now would be
// charged the withdraw fee.
func (r StakedReturn) WithdrawFeeApplies(now int64) bool {
	return decimal.NewFromInt(now).LessThan(r.WithdrawFeeFreeTimestamp)
}

// Info summarises the vault as a whole.
type Info struct {
	Amount decimal.Decimal `json:"amount"`
}
