// Package builder: deterministic variable-naming schemes.
//
// Grounded on lvlath/builder's IDFn (vertex-ID generator): the generator
// itself — "zero-based index -> deterministic string" — has no graph-
// specific content, so it carries over unchanged, now naming Variables
// instead of Vertices.
package builder

import (
	"fmt"
	"strconv"
)

// IDFn generates a variable name from its zero-based index. It must be
// pure and deterministic: the same idx always yields the same string.
type IDFn func(idx int) string

// DefaultIDFn returns "X" followed by the decimal index, e.g. 0->"X0".
func DefaultIDFn(idx int) string {
	return "X" + strconv.Itoa(idx)
}

// SymbolIDFn returns the uppercase Latin letter for idx in [0,25], e.g. 0->"A".
// Panics if idx is out of range.
func SymbolIDFn(idx int) string {
	if idx < 0 || idx > 25 {
		panic(fmt.Sprintf("SymbolIDFn: idx must be in [0,25], got %d", idx))
	}
	return string('A' + rune(idx))
}

// SymbolNumberIDFn returns prefix + decimal index, e.g. SymbolNumberIDFn("V")
// yields "V0","V1",...
func SymbolNumberIDFn(prefix string) IDFn {
	return func(idx int) string {
		if idx < 0 {
			panic(fmt.Sprintf("SymbolNumberIDFn: idx must be >= 0, got %d", idx))
		}
		return prefix + strconv.Itoa(idx)
	}
}

// WithSymbNumb sets the naming scheme to SymbolNumberIDFn(prefix).
func WithSymbNumb(prefix string) BuilderOption {
	return WithNameFn(SymbolNumberIDFn(prefix))
}

// WithSymbolNames sets the naming scheme to SymbolIDFn.
func WithSymbolNames() BuilderOption {
	return WithNameFn(SymbolIDFn)
}
