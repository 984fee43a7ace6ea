package factor

import "github.com/arborbayes/bnkit/domain"

// Fix projects f onto the slice where v=value, dropping v from E. Unlike
// SumOut (which mixes every source cell projecting to a destination), Fix
// has exactly one source cell per destination cell — the one matching
// v=value — so the destination cell is copied verbatim (weight, JDF, and
// trace untouched). This is the evidence-projection operation spec.md §4.5
// names for both an evidenced self-variable ("reduce to factor over parents
// alone by fixing self's dimension") and an evidenced parent ("project to
// its fixed value"). If v does not appear in E(f), f is returned unchanged.
func Fix(f *Factor, v *domain.Variable, value string) (*Factor, error) {
	vi := indexOfVar(f.e, v)
	if vi < 0 {
		return f, nil
	}
	resultE := removeVars(f.e, []*domain.Variable{v})
	out, err := New(resultE, f.n, f.traced)
	if err != nil {
		return nil, err
	}
	out.evidenced = true

	for i := 0; i < f.tbl.Size(); i++ {
		key, err := f.keyAt(i)
		if err != nil {
			return nil, err
		}
		if key[vi] != value {
			continue
		}
		c := f.cellAt(i)
		if c == nil {
			continue
		}
		destKey, err := projectKey(f.e, key, resultE)
		if err != nil {
			return nil, err
		}
		di, err := out.indexOf(destKey)
		if err != nil {
			return nil, err
		}
		if err := out.setCellAt(di, c.clone()); err != nil {
			return nil, err
		}
	}
	return out, nil
}
