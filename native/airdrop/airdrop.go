// Package airdrop resolves claimable allocations from the on-chain airdrop
// table.
package airdrop

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"financer/core/types"
)

var leadingZeros = regexp.MustCompile(`^0x0+`)

// NormalizeAddress strips the run of zero nibbles following the 0x prefix so
// that padded and short forms of an address compare equal.
func NormalizeAddress(address string) string {
	return leadingZeros.ReplaceAllString(strings.ToLower(strings.TrimSpace(address)), "0x")
}

// Entry is a single allocation keyed by recipient address.
type Entry struct {
	Key   string     `json:"key"`
	Value types.Uint `json:"value"`
}

// Resource mirrors the Airdrop resource published by the airdrop deployer.
type Resource struct {
	Map struct {
		Data []Entry `json:"data"`
	} `json:"map"`
	Treasury struct {
		Value types.Uint `json:"value"`
	} `json:"treasury"`
}

// Table returns the allocation table held by the resource.
func (r Resource) Table() Table {
	return Table(r.Map.Data)
}

// Table is the ordered list of airdrop allocations.
type Table []Entry

// Lookup returns the allocation for address. A result with Valid unset means
// the address has no allocation; a valid zero means it has been claimed.
func (t Table) Lookup(address string) decimal.NullDecimal {
	target := NormalizeAddress(address)
	for _, entry := range t {
		if NormalizeAddress(entry.Key) == target {
			return decimal.NewNullDecimal(entry.Value.Decimal())
		}
	}
	return decimal.NullDecimal{}
}

// Total sums all allocations, claimed entries included.
func (t Table) Total() decimal.Decimal {
	total := decimal.Zero
	for _, entry := range t {
		total = total.Add(entry.Value.Decimal())
	}
	return total
}
