package domain

import "fmt"

// Variable is a (name, domain-or-continuous-tag, canonical-index) triple.
// Canonical indices are monotonically increasing and totally order
// variables; they are the sort key for every factor operation.
type Variable struct {
	name       string
	dom        *Domain // nil for continuous variables
	continuous bool
	canonical  int64
}

// NewEnumerable creates a Variable over an enumerable Domain.
func NewEnumerable(name string, dom *Domain) *Variable {
	return &Variable{name: name, dom: dom, canonical: nextCanonicalIndex()}
}

// NewContinuous creates a Variable with no enumerable domain; it only ever
// appears as a JDF key inside a factor, never as a key variable.
func NewContinuous(name string) *Variable {
	return &Variable{name: name, continuous: true, canonical: nextCanonicalIndex()}
}

// Name returns the variable's declared name.
func (v *Variable) Name() string { return v.name }

// Continuous reports whether this variable is non-enumerable.
func (v *Variable) Continuous() bool { return v.continuous }

// Domain returns the variable's Domain, or nil if Continuous().
func (v *Variable) Domain() *Domain { return v.dom }

// CanonicalIndex returns the globally-unique, creation-order index used to
// sort variables deterministically across factor operations.
func (v *Variable) CanonicalIndex() int64 { return v.canonical }

// String renders a debug-friendly identity ("name#canonical").
func (v *Variable) String() string { return fmt.Sprintf("%s#%d", v.name, v.canonical) }

// Less orders two variables by canonical index, the total order every
// factor combinator (product, sumOut, maxOut) relies on for E.
func Less(a, b *Variable) bool { return a.canonical < b.canonical }

// SortByCanonical returns a new slice of vs sorted by canonical index.
func SortByCanonical(vs []*Variable) []*Variable {
	out := make([]*Variable, len(vs))
	copy(out, vs)
	// insertion sort: variable counts in a factor's key set are small (few
	// dozen at most), and this keeps the routine allocation-free and stable.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && Less(out[j], out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
