package types

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Resource is the envelope the fullnode returns for a single account
// resource.
type Resource[T any] struct {
	Type string `json:"type"`
	Data T      `json:"data"`
}

// CoinStore mirrors 0x1::coin::CoinStore<T>. Only the balance is decoded.
type CoinStore struct {
	Coin struct {
		Value Uint `json:"value"`
	} `json:"coin"`
	Frozen bool `json:"frozen"`
}

// TypeInfo mirrors 0x1::type_info::TypeInfo. Module and struct names are
// hex-encoded UTF-8 bytes on chain.
type TypeInfo struct {
	AccountAddress string `json:"account_address"`
	ModuleName     string `json:"module_name"`
	StructName     string `json:"struct_name"`
}

// ResourceType decodes the hex-encoded names and joins them into the
// address::module::struct form.
func (t TypeInfo) ResourceType() (string, error) {
	module, err := decodeName(t.ModuleName)
	if err != nil {
		return "", fmt.Errorf("types: decode module name: %w", err)
	}
	name, err := decodeName(t.StructName)
	if err != nil {
		return "", fmt.Errorf("types: decode struct name: %w", err)
	}
	return strings.TrimSpace(t.AccountAddress) + "::" + module + "::" + name, nil
}

func decodeName(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "0x") {
		// Some indexers return the names already decoded.
		return trimmed, nil
	}
	decoded, err := hexutil.Decode(trimmed)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
