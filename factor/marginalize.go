package factor

import (
	"github.com/arborbayes/bnkit/dist"
	"github.com/arborbayes/bnkit/domain"
)

// SumOut removes the named enumerable variables from F, summing source
// weights into each destination cell and replacing the destination JDF with
// the weight-normalised mixture of source JDFs (zero-weight sources
// excluded). Trace is dropped: a sum mixes several assignments together, so
// no single trace remains meaningful.
func SumOut(f *Factor, vars ...*domain.Variable) (*Factor, error) {
	resultE := removeVars(f.e, vars)
	out, err := New(resultE, f.n, false)
	if err != nil {
		return nil, err
	}
	out.evidenced = f.evidenced

	// accumulate destination sums first.
	destSum := make(map[int]float64)
	destCells := make(map[int][]*Cell)
	for i := 0; i < f.tbl.Size(); i++ {
		c := f.cellAt(i)
		if c == nil || c.Weight == 0 {
			continue
		}
		key, err := f.keyAt(i)
		if err != nil {
			return nil, err
		}
		destKey, err := projectKey(f.e, key, resultE)
		if err != nil {
			return nil, err
		}
		di, err := out.indexOf(destKey)
		if err != nil {
			return nil, err
		}
		destSum[di] += c.Weight
		destCells[di] = append(destCells[di], c)
	}

	for di, w := range destSum {
		nc := &Cell{Weight: w}
		if len(f.n) > 0 && w > 0 {
			nc.JDF = mixJDFs(destCells[di], w, f.n)
		}
		if err := out.setCellAt(di, nc); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// mixJDFs builds, for each non-enumerable variable, a dist.Mixture of its
// per-source distribution weighted by source-weight/total (spec.md §3's
// JDF-mixing invariant).
func mixJDFs(cells []*Cell, total float64, vars []*domain.Variable) map[*domain.Variable]dist.Distribution {
	out := make(map[*domain.Variable]dist.Distribution, len(vars))
	for _, v := range vars {
		mix := dist.NewMixture()
		any := false
		for _, c := range cells {
			if c == nil || c.Weight == 0 || c.JDF == nil {
				continue
			}
			d, ok := c.JDF[v]
			if !ok {
				continue
			}
			mix.Add(d, c.Weight/total)
			any = true
		}
		if any {
			out[v] = mix
		}
	}
	return out
}

// projectKey drops the positions of srcE not present in dstE, returning the
// value tuple restricted to dstE (in dstE order).
func projectKey(srcE []*domain.Variable, key []string, dstE []*domain.Variable) ([]string, error) {
	out := make([]string, len(dstE))
	for i, v := range dstE {
		idx := indexOfVar(srcE, v)
		out[i] = key[idx]
	}
	return out, nil
}

// MaxOut removes the named enumerable variables from F by max-marginalisation:
// for each destination cell, the source cell with maximum weight is kept (its
// JDF copied verbatim), its trace is extended with (V_i=value_i) bindings for
// every removed variable read off the winning source key, and any existing
// trace is carried forward. Ties are broken deterministically by the lowest
// linearised source index.
func MaxOut(f *Factor, vars ...*domain.Variable) (*Factor, error) {
	resultE := removeVars(f.e, vars)
	out, err := New(resultE, f.n, true)
	if err != nil {
		return nil, err
	}
	out.evidenced = f.evidenced

	bestIdx := make(map[int]int)     // destIdx -> winning source linear index
	bestWeight := make(map[int]float64)

	for i := 0; i < f.tbl.Size(); i++ {
		c := f.cellAt(i)
		w := 0.0
		if c != nil {
			w = c.Weight
		}
		key, err := f.keyAt(i)
		if err != nil {
			return nil, err
		}
		destKey, err := projectKey(f.e, key, resultE)
		if err != nil {
			return nil, err
		}
		di, err := out.indexOf(destKey)
		if err != nil {
			return nil, err
		}
		cur, seen := bestWeight[di]
		if !seen || w > cur {
			bestWeight[di] = w
			bestIdx[di] = i
		}
		// ties keep the first (lowest source index) seen, since i increases
		// monotonically and we only overwrite on strictly greater weight.
	}

	for di, srcIdx := range bestIdx {
		srcCell := f.cellAt(srcIdx)
		srcKey, err := f.keyAt(srcIdx)
		if err != nil {
			return nil, err
		}
		nc := &Cell{Weight: bestWeight[di]}
		if srcCell != nil {
			if srcCell.JDF != nil {
				nc.JDF = make(map[*domain.Variable]dist.Distribution, len(srcCell.JDF))
				for k, v := range srcCell.JDF {
					nc.JDF[k] = v
				}
			}
			nc.Trace = append(nc.Trace, srcCell.Trace...)
		}
		for _, v := range vars {
			vi := indexOfVar(f.e, v)
			if vi < 0 {
				continue
			}
			nc.Trace = append(nc.Trace, Assignment{Var: v, Value: srcKey[vi]})
		}
		if err := out.setCellAt(di, nc); err != nil {
			return nil, err
		}
	}
	return out, nil
}
