package types

import (
	"encoding/json"
	"testing"
)

func TestUintDecodesQuotedAndBareValues(t *testing.T) {
	var record struct {
		Shares Uint `json:"shares"`
		Period Uint `json:"period"`
	}
	payload := `{"shares":"340282366920938463463374607431768211455","period":259200}`
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := record.Shares.String(); got != "340282366920938463463374607431768211455" {
		t.Fatalf("unexpected u128 value: %s", got)
	}
	if got := record.Shares.Decimal().String(); got != "340282366920938463463374607431768211455" {
		t.Fatalf("unexpected decimal value: %s", got)
	}
	if v, overflow := record.Period.Uint64(); overflow || v != 259200 {
		t.Fatalf("unexpected period: %d overflow=%t", v, overflow)
	}
}

func TestUintRejectsNegativeAndFractional(t *testing.T) {
	for _, raw := range []string{`"-1"`, `"1.5"`, `"abc"`, `null`} {
		var u Uint
		if err := json.Unmarshal([]byte(raw), &u); err == nil {
			t.Fatalf("expected error decoding %s", raw)
		}
	}
}

func TestUintMarshalsAsString(t *testing.T) {
	encoded, err := json.Marshal(NewUint(42))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(encoded) != `"42"` {
		t.Fatalf("unexpected encoding: %s", encoded)
	}
}
