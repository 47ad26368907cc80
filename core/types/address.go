package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// AddressLength is the size in bytes of an account address.
const AddressLength = 32

// ErrInvalidAddress is returned when an account address cannot be parsed.
var ErrInvalidAddress = errors.New("types: invalid address")

// Address is a 32-byte account identifier. The chain accepts both the fully
// padded form and the zero-trimmed short form, so the two renderings are
// exposed separately.
type Address [AddressLength]byte

// ParseAddress decodes a hex account address with or without the 0x prefix.
// Short forms such as 0x1 are left-padded to the full width.
func ParseAddress(raw string) (Address, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	trimmed = strings.TrimPrefix(trimmed, "0x")
	if trimmed == "" || len(trimmed) > AddressLength*2 {
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, raw)
	}
	if len(trimmed)%2 == 1 {
		trimmed = "0" + trimmed
	}
	decoded, err := hexutil.Decode("0x" + trimmed)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %q: %v", ErrInvalidAddress, raw, err)
	}
	var addr Address
	copy(addr[:], common.LeftPadBytes(decoded, AddressLength))
	return addr, nil
}

// MustParseAddress is like ParseAddress but panics on malformed input. It is
// intended for package-level constants.
func MustParseAddress(raw string) Address {
	addr, err := ParseAddress(raw)
	if err != nil {
		panic(err)
	}
	return addr
}

// Long renders the address as 0x followed by 64 hex characters.
func (a Address) Long() string {
	return hexutil.Encode(a[:])
}

// Short renders the address with leading zero nibbles removed.
func (a Address) Short() string {
	trimmed := strings.TrimLeft(common.Bytes2Hex(a[:]), "0")
	if trimmed == "" {
		trimmed = "0"
	}
	return "0x" + trimmed
}

// String implements fmt.Stringer using the long form.
func (a Address) String() string {
	return a.Long()
}

// IsZero reports whether every byte of the address is zero.
func (a Address) IsZero() bool {
	return a == Address{}
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Long()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
