package swap

import (
	"errors"
	"reflect"
	"testing"
)

const scripts = "0xabc::FinancerProtocolPoolV1"

func TestSwapExactInPayloadSelectsEntryByHops(t *testing.T) {
	cases := []struct {
		path  []string
		entry string
	}{
		{path: []string{"A", "B"}, entry: EntrySwapExactIn},
		{path: []string{"A", "B", "C"}, entry: EntrySwapExactIn2},
		{path: []string{"A", "B", "C", "D"}, entry: EntrySwapExactIn3},
	}
	for _, tc := range cases {
		payload, err := SwapExactInPayload(scripts, tc.path, "100", "90")
		if err != nil {
			t.Fatalf("payload for %v: %v", tc.path, err)
		}
		if payload.Function != scripts+"::"+tc.entry {
			t.Fatalf("unexpected function %q", payload.Function)
		}
		if !reflect.DeepEqual(payload.TypeArguments, tc.path) {
			t.Fatalf("unexpected type arguments %v", payload.TypeArguments)
		}
		if !reflect.DeepEqual(payload.Arguments, []string{"100", "90"}) {
			t.Fatalf("unexpected arguments %v", payload.Arguments)
		}
	}
}

func TestSwapExactOutPayload(t *testing.T) {
	payload, err := SwapExactOutPayload(scripts, []string{"A", "B", "C"}, "5", "50")
	if err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload.Function != scripts+"::"+EntrySwapExactOut2 {
		t.Fatalf("unexpected function %q", payload.Function)
	}
	if !reflect.DeepEqual(payload.Arguments, []string{"5", "50"}) {
		t.Fatalf("unexpected arguments %v", payload.Arguments)
	}
}

func TestSwapPayloadRejectsInvalidPath(t *testing.T) {
	for _, path := range [][]string{nil, {"A"}, {"A", "B", "C", "D", "E"}, {"A", "A"}, {"A", ""}} {
		if _, err := SwapExactInPayload(scripts, path, "1", "1"); !errors.Is(err, ErrInvalidPath) {
			t.Fatalf("expected ErrInvalidPath for %v, got %v", path, err)
		}
	}
}

func TestLiquidityPayloads(t *testing.T) {
	add, err := AddLiquidityPayload(scripts, AddLiquidityParams{
		CoinX: "X", CoinY: "Y", AmountX: "10", AmountY: "20", AmountXMin: "9", AmountYMin: "19",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if add.Function != scripts+"::add_liquidity_entry" || !reflect.DeepEqual(add.Arguments, []string{"10", "20", "9", "19"}) {
		t.Fatalf("unexpected add payload %+v", add)
	}
	remove, err := RemoveLiquidityPayload(scripts, RemoveLiquidityParams{
		CoinX: "X", CoinY: "Y", Liquidity: "7", AmountXMin: "1", AmountYMin: "2",
	})
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if remove.Function != scripts+"::remove_liquidity_entry" || !reflect.DeepEqual(remove.TypeArguments, []string{"X", "Y"}) {
		t.Fatalf("unexpected remove payload %+v", remove)
	}
	if _, err := AddLiquidityPayload(scripts, AddLiquidityParams{CoinX: "X", CoinY: "X"}); err == nil {
		t.Fatalf("expected error for identical coins")
	}
}
