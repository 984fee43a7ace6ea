// Package domain defines enumerable domains and typed variables carrying a
// globally-unique canonical index, the sort key every factor operation in
// package factor relies on.
//
// Grounded on lvlath/core's Vertex.ID convention (a stable, comparable
// identity attached to a small value type) generalized from strings to a
// monotonically increasing integer, since factor algebra needs a total order
// rather than just identity.
package domain

import (
	"fmt"
	"sync/atomic"

	"github.com/arborbayes/bnkit/bnerr"
)

// Domain is an ordered finite set of named values. Equality between values
// is by name; ordering is by declaration order (index).
type Domain struct {
	name   string
	values []string
	index  map[string]int
}

// NewDomain builds a Domain from an ordered, non-empty list of distinct value
// names. Duplicate names are rejected.
func NewDomain(name string, values ...string) (*Domain, error) {
	const op = "domain.NewDomain"
	if len(values) == 0 {
		return nil, bnerr.New(bnerr.InvalidDomain, op, "domain must have at least one value")
	}
	idx := make(map[string]int, len(values))
	cp := make([]string, len(values))
	for i, v := range values {
		if _, dup := idx[v]; dup {
			return nil, bnerr.New(bnerr.InvalidDomain, op, fmt.Sprintf("duplicate value %q", v))
		}
		idx[v] = i
		cp[i] = v
	}
	return &Domain{name: name, values: cp, index: idx}, nil
}

// Name returns the domain's declared name.
func (d *Domain) Name() string { return d.name }

// Size returns |D|.
func (d *Domain) Size() int { return len(d.values) }

// Value returns the value at position i in [0,Size()).
func (d *Domain) Value(i int) (string, error) {
	if i < 0 || i >= len(d.values) {
		return "", bnerr.New(bnerr.InvalidDomain, "domain.Value", fmt.Sprintf("index %d out of range [0,%d)", i, len(d.values)))
	}
	return d.values[i], nil
}

// Index returns the position of v in [0, Size()), or InvalidDomain if v is
// not a member.
func (d *Domain) Index(v string) (int, error) {
	i, ok := d.index[v]
	if !ok {
		return -1, bnerr.New(bnerr.InvalidDomain, "domain.Index", fmt.Sprintf("value %q not in domain %q", v, d.name))
	}
	return i, nil
}

// Has reports whether v is a member of the domain.
func (d *Domain) Has(v string) bool {
	_, ok := d.index[v]
	return ok
}

// Values returns the ordered value list. Callers must not mutate it.
func (d *Domain) Values() []string { return d.values }

// canonicalCounter is the process-local atomic source of canonical variable
// indices (spec.md §9: "its sole role is to produce a deterministic sort
// across factors; it is not a handle").
var canonicalCounter int64

func nextCanonicalIndex() int64 {
	return atomic.AddInt64(&canonicalCounter, 1)
}

// ResetCanonicalCounterForTest resets the global canonical-index counter.
// It exists solely so package tests can assert on specific index values
// without interference from index allocation in other packages' tests; it
// must not be called from production code.
func ResetCanonicalCounterForTest() {
	atomic.StoreInt64(&canonicalCounter, 0)
}
