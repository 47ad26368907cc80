package types

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Uint holds an unsigned Move integer (u8 through u256). The fullnode encodes
// u64 and wider values as JSON strings; plain JSON numbers are accepted too.
type Uint struct {
	v uint256.Int
}

// NewUint wraps a native unsigned integer.
func NewUint(v uint64) Uint {
	var u Uint
	u.v.SetUint64(v)
	return u
}

// ParseUint decodes a base-10 unsigned integer string.
func ParseUint(raw string) (Uint, error) {
	trimmed := strings.TrimSpace(raw)
	parsed, err := uint256.FromDecimal(trimmed)
	if err != nil {
		return Uint{}, fmt.Errorf("types: decode unsigned integer %q: %w", raw, err)
	}
	return Uint{v: *parsed}, nil
}

// MustParseUint is like ParseUint but panics on malformed input.
func MustParseUint(raw string) Uint {
	u, err := ParseUint(raw)
	if err != nil {
		panic(err)
	}
	return u
}

// Decimal converts the value into an arbitrary-precision decimal.
func (u Uint) Decimal() decimal.Decimal {
	return decimal.NewFromBigInt(u.v.ToBig(), 0)
}

// Uint64 returns the value truncated to 64 bits along with an overflow flag.
func (u Uint) Uint64() (uint64, bool) {
	return u.v.Uint64WithOverflow()
}

// IsZero reports whether the value is zero.
func (u Uint) IsZero() bool {
	return u.v.IsZero()
}

// String returns the base-10 representation.
func (u Uint) String() string {
	return u.v.Dec()
}

// MarshalJSON encodes the value as a JSON string, matching the fullnode.
func (u Uint) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.v.Dec())
}

// UnmarshalJSON accepts both quoted and bare integers.
func (u *Uint) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return fmt.Errorf("types: unsigned integer must not be null")
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("types: decode unsigned integer: %w", err)
		}
		raw = s
	}
	parsed, err := ParseUint(raw)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
