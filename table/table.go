// Package table provides a dense, rectangular map from a tuple of enumerable
// parent values to a payload of arbitrary type T, used for conditional
// tables, count tables, and factor cells.
//
// Grounded on lvlath/matrix's dense, row-major, stride-indexed storage
// (matrix/impl_dense.go: index = i*cols+j generalized here to an N-way
// stride walk), generalized from a fixed float64 payload to a generic T via
// Go generics, since table cells carry arbitrary CPT/count/factor-cell
// payloads rather than a single scalar.
package table

import (
	"fmt"

	"github.com/arborbayes/bnkit/bnerr"
	"github.com/arborbayes/bnkit/domain"
)

// Table is a dense map from a tuple of enumerable Variable values to a
// payload of type T, indexed by stride: index = Σ k_i · stride_i.
type Table[T any] struct {
	vars    []*domain.Variable
	strides []int
	size    int
	cells   []T
	present []bool
}

// New allocates a Table over the given ordered parent variables. All of vars
// must be enumerable (non-continuous). size = Π|Dom(vi)|, or 1 if len(vars)==0.
func New[T any](vars ...*domain.Variable) (*Table[T], error) {
	const op = "table.New"
	for _, v := range vars {
		if v.Continuous() {
			return nil, bnerr.New(bnerr.InvalidDomain, op, fmt.Sprintf("variable %q is continuous, not enumerable", v.Name()))
		}
	}
	strides := make([]int, len(vars))
	size := 1
	// row-major: last variable varies fastest, matching lvlath Dense's
	// i*cols+j convention generalized to N dimensions.
	for i := len(vars) - 1; i >= 0; i-- {
		strides[i] = size
		size *= vars[i].Domain().Size()
	}
	return &Table[T]{
		vars:    append([]*domain.Variable(nil), vars...),
		strides: strides,
		size:    size,
		cells:   make([]T, size),
		present: make([]bool, size),
	}, nil
}

// Vars returns the ordered parent variables.
func (t *Table[T]) Vars() []*domain.Variable { return t.vars }

// Size returns the total number of cells.
func (t *Table[T]) Size() int { return t.size }

// Index linearises a full key tuple (one value name per variable, in Vars() order).
func (t *Table[T]) Index(key []string) (int, error) {
	const op = "table.Index"
	if len(key) != len(t.vars) {
		return 0, bnerr.New(bnerr.InvalidDomain, op, "invalid key: wrong arity")
	}
	idx := 0
	for i, v := range t.vars {
		k, err := v.Domain().Index(key[i])
		if err != nil {
			return 0, bnerr.Wrap(bnerr.InvalidDomain, op, "not in domain", err)
		}
		idx += k * t.strides[i]
	}
	return idx, nil
}

// Key reverses Index: given a linearised index, returns the value tuple.
func (t *Table[T]) Key(index int) ([]string, error) {
	const op = "table.Key"
	if index < 0 || index >= t.size {
		return nil, bnerr.New(bnerr.InvalidDomain, op, "invalid key: index out of range")
	}
	key := make([]string, len(t.vars))
	rem := index
	for i, v := range t.vars {
		k := rem / t.strides[i]
		rem %= t.strides[i]
		val, err := v.Domain().Value(k)
		if err != nil {
			return nil, err
		}
		key[i] = val
	}
	return key, nil
}

// GetValue returns the payload stored at index and whether it is present.
func (t *Table[T]) GetValue(index int) (T, bool) {
	var zero T
	if index < 0 || index >= t.size {
		return zero, false
	}
	return t.cells[index], t.present[index]
}

// SetValue stores v at index, marking the cell present.
func (t *Table[T]) SetValue(index int, v T) error {
	const op = "table.SetValue"
	if index < 0 || index >= t.size {
		return bnerr.New(bnerr.InvalidDomain, op, "invalid key: index out of range")
	}
	t.cells[index] = v
	t.present[index] = true
	return nil
}

// GetByKey is the key-tuple form of GetValue.
func (t *Table[T]) GetByKey(key []string) (T, bool, error) {
	idx, err := t.Index(key)
	if err != nil {
		var zero T
		return zero, false, err
	}
	v, ok := t.GetValue(idx)
	return v, ok, nil
}

// SetByKey is the key-tuple form of SetValue.
func (t *Table[T]) SetByKey(key []string, v T) error {
	idx, err := t.Index(key)
	if err != nil {
		return err
	}
	return t.SetValue(idx, v)
}

// IndicesMatching returns every linearised index whose non-wildcard
// positions in partialKey match. partialKey carries "" (empty string) as a
// wildcard for positions not being constrained; a nil pointer convention is
// not representable for string tuples, so the zero value of string is the
// wildcard marker, matching the widely-used Go idiom of a sentinel zero
// value standing in for "no constraint" in dense table walks.
//
// Complexity is O(|unfixed|·Π|Dom(unfixed)|) via a stride walk: fixed
// positions narrow the walk to a single stride offset, unfixed positions are
// enumerated.
func (t *Table[T]) IndicesMatching(partialKey []string) ([]int, error) {
	const op = "table.IndicesMatching"
	if len(partialKey) != len(t.vars) {
		return nil, bnerr.New(bnerr.InvalidDomain, op, "invalid key: wrong arity")
	}
	base := 0
	var free []int // positions left as wildcard
	for i, v := range t.vars {
		if partialKey[i] == "" {
			free = append(free, i)
			continue
		}
		k, err := v.Domain().Index(partialKey[i])
		if err != nil {
			return nil, bnerr.Wrap(bnerr.InvalidDomain, op, "not in domain", err)
		}
		base += k * t.strides[i]
	}
	if len(free) == 0 {
		return []int{base}, nil
	}
	out := []int{base}
	for _, pos := range free {
		dsize := t.vars[pos].Domain().Size()
		stride := t.strides[pos]
		next := make([]int, 0, len(out)*dsize)
		for _, b := range out {
			for k := 0; k < dsize; k++ {
				next = append(next, b+k*stride)
			}
		}
		out = next
	}
	return out, nil
}

// AllIndices returns every linearised index in [0,size).
func (t *Table[T]) AllIndices() []int {
	out := make([]int, t.size)
	for i := range out {
		out[i] = i
	}
	return out
}
