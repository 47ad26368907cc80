package airdrop

import (
	"testing"

	"financer/core/types"
)

func TestClaimPayload(t *testing.T) {
	payload := ClaimPayload("0xf713")
	if payload.Type != types.EntryFunctionPayloadType {
		t.Fatalf("unexpected payload type %q", payload.Type)
	}
	if payload.Function != "0xf713::Airdrop::claim_airdrop" {
		t.Fatalf("unexpected function %q", payload.Function)
	}
	if len(payload.TypeArguments) != 0 || len(payload.Arguments) != 0 {
		t.Fatalf("claim takes no arguments: %+v", payload)
	}
}
