// Package masterchef models the FIN farming contract and projects pending
// rewards off chain.
package masterchef

import (
	"github.com/shopspring/decimal"
)

// AccPrecision scales acc_FIN_per_share on chain.
var AccPrecision = decimal.New(1, 12)

var hundred = decimal.NewFromInt(100)

// AccFINPerShare projects the pool accumulator to unix time now. The
// projection mirrors update_pool: rewards accrue per second, scaled by the
// bonus multiplier and the pool's share of allocation points, with the DAO
// cut removed before distribution to stakers.
func AccFINPerShare(pool PoolInfo, data Data, stakedSupply decimal.Decimal, now int64) decimal.Decimal {
	acc := pool.AccFINPerShare.Decimal()
	last := pool.LastRewardTimestamp.Decimal()
	current := decimal.NewFromInt(now)
	if !current.GreaterThan(last) || !stakedSupply.IsPositive() || data.TotalAllocPoint.IsZero() {
		return acc
	}
	elapsed := current.Sub(last)
	reward := elapsed.
		Mul(data.BonusMultiplier.Decimal()).
		Mul(data.PerSecondFIN.Decimal()).
		Mul(pool.AllocPoint.Decimal())
	reward = quo(reward, data.TotalAllocPoint.Decimal())

	daoPercent := data.DaoPercent.Decimal()
	if daoPercent.GreaterThan(hundred) {
		daoPercent = hundred
	}
	reward = quo(reward.Mul(hundred.Sub(daoPercent)), hundred)

	return acc.Add(quo(reward.Mul(AccPrecision), stakedSupply))
}

// PendingReward returns the FIN a staker could harvest at unix time now.
// The result is never negative.
func PendingReward(pool PoolInfo, data Data, user UserInfo, stakedSupply decimal.Decimal, now int64) decimal.Decimal {
	acc := AccFINPerShare(pool, data, stakedSupply, now)
	accrued := quo(user.Amount.Decimal().Mul(acc), AccPrecision)
	pending := accrued.Sub(user.RewardDebt.Decimal())
	if pending.IsNegative() {
		return decimal.Zero
	}
	return pending
}

// quo is truncating division of non-negative integers, matching Move's u128
// arithmetic.
func quo(n, d decimal.Decimal) decimal.Decimal {
	q, _ := n.QuoRem(d, 0)
	return q
}
