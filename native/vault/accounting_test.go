package vault

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"financer/core/types"
)

func testGlobal() GlobalData {
	return GlobalData{
		TotalShares:       types.NewUint(1000),
		PerformanceFee:    types.NewUint(200),
		CallFee:           types.NewUint(25),
		WithdrawFee:       types.NewUint(100),
		WithdrawFeePeriod: types.NewUint(259200),
	}
}

func TestComputeStakedReturnScenario(t *testing.T) {
	user := UserInfo{
		Shares:               types.NewUint(500),
		LastDepositedTime:    types.NewUint(1000),
		LastUserActionAmount: types.NewUint(950),
	}
	got, err := ComputeStakedReturn(user, testGlobal(), decimal.NewFromInt(2000))
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if !got.Amount.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("amount: got %s want 1000", got.Amount)
	}
	if !got.AfterPenaltyAmount.Equal(decimal.NewFromInt(990)) {
		t.Fatalf("after penalty: got %s want 990", got.AfterPenaltyAmount)
	}
	if !got.WithdrawFeeFreeTimestamp.Equal(decimal.NewFromInt(260200)) {
		t.Fatalf("fee free timestamp: got %s want 260200", got.WithdrawFeeFreeTimestamp)
	}
	if !got.Shares.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("shares: got %s", got.Shares)
	}
	if !got.LastUserActionAmount.Equal(decimal.NewFromInt(950)) {
		t.Fatalf("last user action amount: got %s", got.LastUserActionAmount)
	}
	if !got.Interest().Equal(decimal.NewFromInt(50)) {
		t.Fatalf("interest: got %s want 50", got.Interest())
	}
}

func TestComputeStakedReturnZeroTotalShares(t *testing.T) {
	global := testGlobal()
	global.TotalShares = types.NewUint(0)
	_, err := ComputeStakedReturn(UserInfo{Shares: types.NewUint(1)}, global, decimal.NewFromInt(10))
	if !errors.Is(err, ErrZeroTotalShares) {
		t.Fatalf("expected ErrZeroTotalShares, got %v", err)
	}
}

func TestComputeStakedReturnRejectsInvalidInput(t *testing.T) {
	global := testGlobal()
	global.WithdrawFee = types.NewUint(BasisPoints + 1)
	if _, err := ComputeStakedReturn(UserInfo{}, global, decimal.NewFromInt(1)); !errors.Is(err, ErrFeeOutOfRange) {
		t.Fatalf("expected ErrFeeOutOfRange, got %v", err)
	}
	if _, err := ComputeStakedReturn(UserInfo{}, testGlobal(), decimal.NewFromInt(-1)); !errors.Is(err, ErrNegativeBalance) {
		t.Fatalf("expected ErrNegativeBalance, got %v", err)
	}
}

func TestComputeStakedReturnRoundingDirection(t *testing.T) {
	global := GlobalData{
		TotalShares: types.NewUint(3),
		WithdrawFee: types.NewUint(33),
	}
	for shares := uint64(0); shares <= 50; shares++ {
		for _, balance := range []int64{0, 1, 7, 1000, 99991} {
			vb := decimal.NewFromInt(balance)
			got, err := ComputeStakedReturn(UserInfo{Shares: types.NewUint(shares)}, global, vb)
			if err != nil {
				t.Fatalf("compute: %v", err)
			}
			exact := decimal.NewFromInt(int64(shares)).Mul(vb).DivRound(decimal.NewFromInt(3), 32)
			if got.Amount.GreaterThan(exact) {
				t.Fatalf("amount %s overstates exact %s", got.Amount, exact)
			}
			if exact.Sub(got.Amount).GreaterThanOrEqual(decimal.NewFromInt(1)) {
				t.Fatalf("amount %s is not the floor of %s", got.Amount, exact)
			}
			exactPenalty := got.Amount.Mul(decimal.NewFromInt(BasisPoints - 33)).DivRound(decimal.NewFromInt(BasisPoints), 32)
			if got.AfterPenaltyAmount.LessThan(exactPenalty) {
				t.Fatalf("after penalty %s understates exact %s", got.AfterPenaltyAmount, exactPenalty)
			}
			if got.AfterPenaltyAmount.Sub(exactPenalty).GreaterThanOrEqual(decimal.NewFromInt(1)) {
				t.Fatalf("after penalty %s is not the ceiling of %s", got.AfterPenaltyAmount, exactPenalty)
			}
			if !got.Amount.IsInteger() || !got.AfterPenaltyAmount.IsInteger() {
				t.Fatalf("results must be integral: %s %s", got.Amount, got.AfterPenaltyAmount)
			}
		}
	}
}

func TestComputeStakedReturnMonotonicInShares(t *testing.T) {
	global := testGlobal()
	balance := decimal.NewFromInt(123457)
	prev := StakedReturn{Amount: decimal.Zero, AfterPenaltyAmount: decimal.Zero}
	for shares := uint64(0); shares <= 1000; shares += 7 {
		got, err := ComputeStakedReturn(UserInfo{Shares: types.NewUint(shares)}, global, balance)
		if err != nil {
			t.Fatalf("compute: %v", err)
		}
		if got.Amount.LessThan(prev.Amount) || got.AfterPenaltyAmount.LessThan(prev.AfterPenaltyAmount) {
			t.Fatalf("shares %d decreased position: %s < %s", shares, got.Amount, prev.Amount)
		}
		prev = got
	}
}

func TestComputeStakedReturnLargeValues(t *testing.T) {
	global := GlobalData{
		TotalShares: types.MustParseUint("340282366920938463463374607431768211455"),
		WithdrawFee: types.NewUint(10),
	}
	user := UserInfo{Shares: types.MustParseUint("170141183460469231731687303715884105727")}
	balance := decimal.RequireFromString("18446744073709551615")
	got, err := ComputeStakedReturn(user, global, balance)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if got.Amount.String() != "9223372036854775807" {
		t.Fatalf("unexpected amount %s", got.Amount)
	}
}

func TestWithdrawFeeBoundary(t *testing.T) {
	r := StakedReturn{WithdrawFeeFreeTimestamp: decimal.NewFromInt(260200)}
	if !r.WithdrawFeeApplies(260199) {
		t.Fatalf("fee must apply one second before the boundary")
	}
	if r.WithdrawFeeApplies(260200) {
		t.Fatalf("fee must not apply at the boundary")
	}
	if r.WithdrawFeeApplies(260201) {
		t.Fatalf("fee must not apply after the boundary")
	}
}

func TestComputeHarvestCallFee(t *testing.T) {
	cases := []struct {
		available int64
		callFee   uint64
		want      int64
	}{
		{available: 777, callFee: 25, want: 1},
		{available: 0, callFee: 25, want: 0},
		{available: 399, callFee: 25, want: 0},
		{available: 400, callFee: 25, want: 1},
		{available: 1_000_000, callFee: 25, want: 2500},
		{available: 1_000_000, callFee: 0, want: 0},
	}
	for _, tc := range cases {
		global := GlobalData{CallFee: types.NewUint(tc.callFee)}
		got := ComputeHarvestCallFee(global, decimal.NewFromInt(tc.available))
		if !got.Equal(decimal.NewFromInt(tc.want)) {
			t.Fatalf("call fee for %d at %d bps: got %s want %d", tc.available, tc.callFee, got, tc.want)
		}
	}
}

func TestComputeVaultTotal(t *testing.T) {
	balance := decimal.RequireFromString("123456789012345678901234567890")
	if got := ComputeVaultTotal(balance); !got.Equal(balance) {
		t.Fatalf("vault total: got %s", got)
	}
}

func TestDivisionHelpers(t *testing.T) {
	seven := decimal.NewFromInt(7)
	two := decimal.NewFromInt(2)
	if got := floorDiv(seven, two); !got.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("floor 7/2: %s", got)
	}
	if got := ceilDiv(seven, two); !got.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("ceil 7/2: %s", got)
	}
	if got := floorDiv(seven.Neg(), two); !got.Equal(decimal.NewFromInt(-4)) {
		t.Fatalf("floor -7/2: %s", got)
	}
	if got := ceilDiv(seven.Neg(), two); !got.Equal(decimal.NewFromInt(-3)) {
		t.Fatalf("ceil -7/2: %s", got)
	}
	if got := ceilDiv(decimal.NewFromInt(8), two); !got.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("ceil 8/2: %s", got)
	}
}
