// Package composer builds the canonical address::module::name identifiers used
// to address Move resources, structs and entry functions.
package composer

import "strings"

const separator = "::"

// ComposeType joins an address, module and item into address::module::item and
// appends <g1,g2,...> when generic arguments are supplied. Generic arguments
// keep their order and are joined without whitespace. No normalization of the
// address is performed.
func ComposeType(address, module, item string, generics ...string) string {
	return ComposeScript(address+separator+module, item, generics...)
}

// ComposeScript appends an item to an already qualified address::module
// prefix, such as the script identifiers stored in the network tables.
func ComposeScript(scripts, item string, generics ...string) string {
	var b strings.Builder
	b.Grow(len(scripts) + len(separator) + len(item))
	b.WriteString(scripts)
	b.WriteString(separator)
	b.WriteString(item)
	writeGenerics(&b, generics)
	return b.String()
}

// WithGenerics parameterizes an existing type with generic arguments.
func WithGenerics(base string, generics ...string) string {
	if len(generics) == 0 {
		return base
	}
	var b strings.Builder
	b.WriteString(base)
	writeGenerics(&b, generics)
	return b.String()
}

func writeGenerics(b *strings.Builder, generics []string) {
	if len(generics) == 0 {
		return
	}
	b.WriteByte('<')
	b.WriteString(strings.Join(generics, ","))
	b.WriteByte('>')
}

// ExtractAddress returns the address segment of a composed type, i.e. the text
// before the first separator. Inputs without a separator are returned as is.
func ExtractAddress(resourceType string) string {
	if idx := strings.Index(resourceType, separator); idx >= 0 {
		return resourceType[:idx]
	}
	return resourceType
}
