// Package factor implements the central algebraic object of the inference
// engine: a table over enumerable "key variables" whose cells carry a
// non-negative weight, an optional joint density fragment (JDF) over
// non-enumerable variables, and an optional assignment trace used by
// max-marginalisation.
//
// Grounded on lvlath/table's dense, generic, stride-indexed storage (reused
// directly here as the cell array: a Factor is a table.Table[*Cell] plus the
// bookkeeping spec.md §3/§4.4 requires around it) and on lvlath/matrix's
// convention of explicit error returns over panics.
package factor

import (
	"fmt"
	"sort"

	"github.com/arborbayes/bnkit/bnerr"
	"github.com/arborbayes/bnkit/dist"
	"github.com/arborbayes/bnkit/domain"
	"github.com/arborbayes/bnkit/table"
)

// Assignment is one (variable, value) binding recorded in a cell's trace.
type Assignment struct {
	Var   *domain.Variable
	Value string
}

// Cell is the payload stored at each linearised index of a Factor's table:
// a non-negative weight, an optional JDF (nil when the factor carries no
// non-enumerable variables or when the key has none assigned), and an
// optional ordered assignment trace.
type Cell struct {
	Weight float64
	JDF    map[*domain.Variable]dist.Distribution
	Trace  []Assignment
}

func (c *Cell) clone() *Cell {
	if c == nil {
		return nil
	}
	nc := &Cell{Weight: c.Weight}
	if c.JDF != nil {
		nc.JDF = make(map[*domain.Variable]dist.Distribution, len(c.JDF))
		for k, v := range c.JDF {
			nc.JDF[k] = v
		}
	}
	if c.Trace != nil {
		nc.Trace = append([]Assignment(nil), c.Trace...)
	}
	return nc
}

// Factor is a function assigning a non-negative real (and optionally a
// density over extra variables) to every tuple of enumerable-variable
// values.
type Factor struct {
	e   []*domain.Variable // sorted key variables
	n   []*domain.Variable // non-enumerable variables appearing in the JDF
	tbl *table.Table[*Cell]

	evidenced bool
	traced    bool
}

// New allocates a Factor over key variables e (sorted by canonical index at
// construction) and non-enumerable variables n. All cells start absent with
// weight 0.
func New(e []*domain.Variable, n []*domain.Variable, traced bool) (*Factor, error) {
	sortedE := domain.SortByCanonical(e)
	tbl, err := table.New[*Cell](sortedE...)
	if err != nil {
		return nil, fmt.Errorf("factor.New: %w", err)
	}
	return &Factor{
		e:      sortedE,
		n:      append([]*domain.Variable(nil), n...),
		tbl:    tbl,
		traced: traced,
	}, nil
}

// NewScalar allocates an atomic (nE=0, empty N) factor whose single weight
// is w.
func NewScalar(w float64) *Factor {
	f, _ := New(nil, nil, false)
	_ = f.tbl.SetValue(0, &Cell{Weight: w})
	return f
}

// E returns the sorted key variables.
func (f *Factor) E() []*domain.Variable { return f.e }

// N returns the non-enumerable variables carried in JDFs.
func (f *Factor) N() []*domain.Variable { return f.n }

// NE returns |E|.
func (f *Factor) NE() int { return len(f.e) }

// Size returns Π|Dom(Ei)|, or 1 if NE()==0.
func (f *Factor) Size() int { return f.tbl.Size() }

// Scalar reports whether this factor has no key variables and no JDF
// variables (spec.md §3: "A factor with nE = 0 and empty N is a scalar").
func (f *Factor) Scalar() bool { return len(f.e) == 0 && len(f.n) == 0 }

// Evidenced reports whether construction reflected an observed key or value.
func (f *Factor) Evidenced() bool { return f.evidenced }

// SetEvidenced marks the factor as reflecting observed evidence.
func (f *Factor) SetEvidenced(v bool) { f.evidenced = v }

// Traced reports whether cell traces are maintained.
func (f *Factor) Traced() bool { return f.traced }

// Value returns the weight at the given key-variable value tuple (in E()
// order). Absent cells read as weight 0.
func (f *Factor) Value(key []string) (float64, error) {
	idx, err := f.tbl.Index(key)
	if err != nil {
		return 0, err
	}
	return f.ValueAt(idx), nil
}

// ValueAt returns the weight at a linearised index; absent cells read 0.
func (f *Factor) ValueAt(idx int) float64 {
	c, ok := f.tbl.GetValue(idx)
	if !ok || c == nil {
		return 0
	}
	return c.Weight
}

// SetValue sets the weight at key, preserving any existing JDF/trace.
func (f *Factor) SetValue(key []string, w float64) error {
	idx, err := f.tbl.Index(key)
	if err != nil {
		return err
	}
	return f.SetValueAt(idx, w)
}

// SetValueAt sets the weight at a linearised index, preserving any existing
// JDF/trace.
func (f *Factor) SetValueAt(idx int, w float64) error {
	c, ok := f.tbl.GetValue(idx)
	if !ok || c == nil {
		c = &Cell{}
	}
	c.Weight = w
	return f.tbl.SetValue(idx, c)
}

// JDF returns the JDF map at key, or nil if none is set.
func (f *Factor) JDF(key []string) (map[*domain.Variable]dist.Distribution, error) {
	idx, err := f.tbl.Index(key)
	if err != nil {
		return nil, err
	}
	c, ok := f.tbl.GetValue(idx)
	if !ok || c == nil {
		return nil, nil
	}
	return c.JDF, nil
}

// SetDistrib attaches distribution d for non-enumerable variable v at key.
func (f *Factor) SetDistrib(key []string, v *domain.Variable, d dist.Distribution) error {
	idx, err := f.tbl.Index(key)
	if err != nil {
		return err
	}
	c, ok := f.tbl.GetValue(idx)
	if !ok || c == nil {
		c = &Cell{}
	}
	if c.JDF == nil {
		c.JDF = make(map[*domain.Variable]dist.Distribution)
	}
	c.JDF[v] = d
	return f.tbl.SetValue(idx, c)
}

// Assign returns the trace at key.
func (f *Factor) Assign(key []string) ([]Assignment, error) {
	idx, err := f.tbl.Index(key)
	if err != nil {
		return nil, err
	}
	c, ok := f.tbl.GetValue(idx)
	if !ok || c == nil {
		return nil, nil
	}
	return c.Trace, nil
}

// AddAssign appends entry to the trace at key.
func (f *Factor) AddAssign(key []string, entry Assignment) error {
	idx, err := f.tbl.Index(key)
	if err != nil {
		return err
	}
	c, ok := f.tbl.GetValue(idx)
	if !ok || c == nil {
		c = &Cell{}
	}
	c.Trace = append(c.Trace, entry)
	return f.tbl.SetValue(idx, c)
}

// cellAt returns the raw cell (nil if absent) at a linearised index.
func (f *Factor) cellAt(idx int) *Cell {
	c, ok := f.tbl.GetValue(idx)
	if !ok {
		return nil
	}
	return c
}

// setCellAt stores cell c at idx verbatim.
func (f *Factor) setCellAt(idx int, c *Cell) error {
	return f.tbl.SetValue(idx, c)
}

// keyAt returns the value tuple at a linearised index.
func (f *Factor) keyAt(idx int) ([]string, error) {
	return f.tbl.Key(idx)
}

// indexOf linearises a value tuple.
func (f *Factor) indexOf(key []string) (int, error) {
	return f.tbl.Index(key)
}

// SumWeights returns the sum of all cell weights; used by Normalise and by
// tests asserting the "Σ cells weight ≥ 0 and finite" invariant.
func (f *Factor) SumWeights() float64 {
	sum := 0.0
	for i := 0; i < f.tbl.Size(); i++ {
		sum += f.ValueAt(i)
	}
	return sum
}

// Normalise divides all weights by their sum. If the sum is 0, it returns an
// EvidenceImpossible error ("underflow / impossible evidence") rather than
// mutating the factor.
func (f *Factor) Normalise() error {
	const op = "Factor.Normalise"
	sum := f.SumWeights()
	if sum <= 0 {
		return bnerr.New(bnerr.EvidenceImpossible, op, "total weight is zero: underflow or impossible evidence")
	}
	for i := 0; i < f.tbl.Size(); i++ {
		c := f.cellAt(i)
		if c == nil {
			continue
		}
		c.Weight /= sum
		_ = f.setCellAt(i, c)
	}
	return nil
}

// VarNames renders the names of E(), sorted alphabetically, as a debug
// string, e.g. "[Alarm Burglary]".
func (f *Factor) VarNames() string {
	names := make([]string, len(f.e))
	for i, v := range f.e {
		names[i] = v.Name()
	}
	sort.Strings(names)
	return fmt.Sprintf("%v", names)
}

// indexOfVar returns the position of v in f.e, or -1.
func indexOfVar(vs []*domain.Variable, v *domain.Variable) int {
	for i, x := range vs {
		if x == v {
			return i
		}
	}
	return -1
}

// containsVar reports whether v appears in vs.
func containsVar(vs []*domain.Variable, v *domain.Variable) bool {
	return indexOfVar(vs, v) >= 0
}

// unionVars returns the canonical-sorted union of a and b (by identity).
func unionVars(a, b []*domain.Variable) []*domain.Variable {
	seen := make(map[*domain.Variable]bool, len(a)+len(b))
	out := make([]*domain.Variable, 0, len(a)+len(b))
	for _, v := range a {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for _, v := range b {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return domain.SortByCanonical(out)
}

// removeVars returns a with every variable in remove dropped, order preserved.
func removeVars(a []*domain.Variable, remove []*domain.Variable) []*domain.Variable {
	rm := make(map[*domain.Variable]bool, len(remove))
	for _, v := range remove {
		rm[v] = true
	}
	out := make([]*domain.Variable, 0, len(a))
	for _, v := range a {
		if !rm[v] {
			out = append(out, v)
		}
	}
	return out
}
