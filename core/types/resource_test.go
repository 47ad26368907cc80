package types

import (
	"encoding/json"
	"testing"
)

func TestCoinStoreResourceDecode(t *testing.T) {
	body := `{"type":"0x1::coin::CoinStore<0x1::aptos_coin::AptosCoin>","data":{"coin":{"value":"12345"},"frozen":false,"deposit_events":{}}}`
	var res Resource[CoinStore]
	if err := json.Unmarshal([]byte(body), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.Type != "0x1::coin::CoinStore<0x1::aptos_coin::AptosCoin>" {
		t.Fatalf("unexpected type: %s", res.Type)
	}
	if res.Data.Coin.Value.String() != "12345" {
		t.Fatalf("unexpected balance: %s", res.Data.Coin.Value)
	}
}

func TestTypeInfoResourceType(t *testing.T) {
	info := TypeInfo{
		AccountAddress: "0x5835",
		ModuleName:     "0x4c50436f696e5631", // LPCoinV1
		StructName:     "0x4c50436f696e",     // LPCoin
	}
	got, err := info.ResourceType()
	if err != nil {
		t.Fatalf("resource type: %v", err)
	}
	if got != "0x5835::LPCoinV1::LPCoin" {
		t.Fatalf("unexpected type: %s", got)
	}

	plain := TypeInfo{AccountAddress: "0x1", ModuleName: "aptos_coin", StructName: "AptosCoin"}
	if got, err := plain.ResourceType(); err != nil || got != "0x1::aptos_coin::AptosCoin" {
		t.Fatalf("unexpected plain type: %s (%v)", got, err)
	}

	broken := TypeInfo{AccountAddress: "0x1", ModuleName: "0xzz", StructName: "0x41"}
	if _, err := broken.ResourceType(); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestEntryFunctionPayloadCopiesArguments(t *testing.T) {
	typeArgs := []string{"0x1::aptos_coin::AptosCoin"}
	payload := NewEntryFunctionPayload("0x1::coin::transfer", typeArgs, "0x2", "100")
	typeArgs[0] = "mutated"
	if payload.TypeArguments[0] != "0x1::aptos_coin::AptosCoin" {
		t.Fatalf("payload aliases caller slice")
	}
	encoded, err := json.Marshal(NewEntryFunctionPayload("0x1::m::f", nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"type":"entry_function_payload","function":"0x1::m::f","type_arguments":[],"arguments":[]}`
	if string(encoded) != want {
		t.Fatalf("unexpected encoding: %s", encoded)
	}
}
