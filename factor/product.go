package factor

import (
	"time"

	"github.com/arborbayes/bnkit/dist"
	"github.com/arborbayes/bnkit/domain"
)

// JoinedComplexity returns Π|Dom(v)| over v ∈ E(x)∪E(y), each shared
// variable counted once (the "joined" estimate spec.md §4.4 uses to order
// products). UnjoinedComplexity is the same product but counting shared
// variables twice (once per operand), tracked alongside per spec.md's
// "both tracked" instruction even though only the joined figure drives
// ordering decisions.
func JoinedComplexity(x, y *Factor) int {
	u := unionVars(x.e, y.e)
	size := 1
	for _, v := range u {
		size *= v.Domain().Size()
	}
	return size
}

// UnjoinedComplexity returns Π|Dom(v)| over the concatenation of E(x) and
// E(y), counting any shared variable twice.
func UnjoinedComplexity(x, y *Factor) int {
	size := 1
	for _, v := range x.e {
		size *= v.Domain().Size()
	}
	for _, v := range y.e {
		size *= v.Domain().Size()
	}
	return size
}

// Product combines two factors into F = X·Y: enumerable variables
// E(X)∪E(Y) (sorted), non-enumerable variables N(X)∪N(Y). See spec.md §4.4
// for the full case analysis; this implementation uses one general
// algorithm for all shapes (disjoint/contained/full-overlap all fall out of
// the shared-variable walk), with explicit fast paths for the scalar cases
// named in the design.
func Product(x, y *Factor) (*Factor, error) {
	// Trivial cases: either side scalar broadcasts across the other,
	// including the doubly-trivial scalar·scalar case.
	if x.Scalar() {
		return broadcastScalar(x, y)
	}
	if y.Scalar() {
		return broadcastScalar(y, x)
	}
	return generalProduct(x, y)
}

// broadcastScalar multiplies scalar s across every cell of f.
func broadcastScalar(s, f *Factor) (*Factor, error) {
	n := unionVars(s.n, f.n)
	out, err := New(f.e, n, s.traced || f.traced)
	if err != nil {
		return nil, err
	}
	out.evidenced = s.evidenced || f.evidenced
	sCell := s.cellAt(0)
	sw := 0.0
	if sCell != nil {
		sw = sCell.Weight
	}
	for i := 0; i < f.tbl.Size(); i++ {
		fc := f.cellAt(i)
		if fc == nil || fc.Weight == 0 || sw == 0 {
			continue
		}
		nc := combineCells(sCell, fc, s.traced || f.traced)
		if err := out.setCellAt(i, nc); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// combineCells multiplies weights, unions JDFs (independent product of
// marginals: disjoint variable sets in practice, so union suffices), and
// concatenates traces when traced is requested.
func combineCells(a, b *Cell, traced bool) *Cell {
	out := &Cell{}
	aw, bw := 1.0, 1.0
	if a != nil {
		aw = a.Weight
	}
	if b != nil {
		bw = b.Weight
	}
	out.Weight = aw * bw
	if a != nil && a.JDF != nil || b != nil && b.JDF != nil {
		out.JDF = make(map[*domain.Variable]dist.Distribution)
		if a != nil {
			for k, v := range a.JDF {
				out.JDF[k] = v
			}
		}
		if b != nil {
			for k, v := range b.JDF {
				out.JDF[k] = v
			}
		}
	}
	if traced {
		if a != nil {
			out.Trace = append(out.Trace, a.Trace...)
		}
		if b != nil {
			out.Trace = append(out.Trace, b.Trace...)
		}
	}
	return out
}

// generalProduct implements the shared-variable walk: for each non-zero
// X-cell, build a partial key over Y's variables (fixed at shared
// positions, wildcard elsewhere) and enumerate matching Y-cells, combining
// each match into the destination cell computed from the union key.
//
// Per spec.md §4.4, the engine measures two candidate strategies for
// locating Y's matching cells — a stride walk via Y's IndicesMatching, and
// a full scan of Y with a key-match predicate — on the first two outer (X)
// iterations, then sticks with whichever was faster for the remainder of
// this product.
func generalProduct(x, y *Factor) (*Factor, error) {
	resultE := unionVars(x.e, y.e)
	resultN := unionVars(x.n, y.n)
	traced := x.traced || y.traced
	out, err := New(resultE, resultN, traced)
	if err != nil {
		return nil, err
	}
	out.evidenced = x.evidenced || y.evidenced

	// sharedInY[k] = position in y.e of x.e[k], or -1 if x.e[k] not shared.
	sharedInY := make([]int, len(x.e))
	for i, v := range x.e {
		sharedInY[i] = indexOfVar(y.e, v)
	}

	yAll := y.tbl.AllIndices()
	strategy := strategyUndecided
	outerCount := 0

	for ix := 0; ix < x.tbl.Size(); ix++ {
		xc := x.cellAt(ix)
		if xc == nil || xc.Weight == 0 {
			continue
		}
		xKey, err := x.keyAt(ix)
		if err != nil {
			return nil, err
		}

		var strideIdx []int
		var scanIdx []int
		var strideDur, scanDur time.Duration
		partialY := make([]string, len(y.e))
		for i := range partialY {
			partialY[i] = ""
		}
		for i, yi := range sharedInY {
			if yi >= 0 {
				partialY[yi] = xKey[i]
			}
		}

		needStride := strategy != strategyScan
		needScan := strategy != strategyStride

		if needStride {
			t0 := time.Now()
			idxs, serr := y.tbl.IndicesMatching(partialY)
			strideDur = time.Since(t0)
			if serr != nil {
				return nil, serr
			}
			strideIdx = idxs
		}
		if needScan {
			t0 := time.Now()
			idxs := scanMatching(y, yAll, sharedInY, xKey)
			scanDur = time.Since(t0)
			scanIdx = idxs
		}

		if outerCount < 2 && strategy == strategyUndecided {
			outerCount++
			if outerCount == 2 {
				if strideDur <= scanDur {
					strategy = strategyStride
				} else {
					strategy = strategyScan
				}
			}
		}

		matches := strideIdx
		if matches == nil {
			matches = scanIdx
		}

		for _, iy := range matches {
			yc := y.cellAt(iy)
			if yc == nil || yc.Weight == 0 {
				continue
			}
			yKey, err := y.keyAt(iy)
			if err != nil {
				return nil, err
			}
			destKey, err := buildDestKey(resultE, x.e, xKey, y.e, yKey)
			if err != nil {
				return nil, err
			}
			destIdx, err := out.indexOf(destKey)
			if err != nil {
				return nil, err
			}
			combined := combineCells(xc, yc, traced)
			existing := out.cellAt(destIdx)
			if existing != nil && existing.Weight != 0 {
				// Cartesian/disjoint case can only ever hit a destination
				// once per (ix,iy) pair by construction; a pre-existing
				// cell here means an earlier (ix',iy') pair already wrote
				// it, which cannot happen because destKey is a function of
				// (xKey,yKey) uniquely within this loop's domain. Retained
				// as a defensive overwrite rather than a panic.
				_ = existing
			}
			if err := out.setCellAt(destIdx, combined); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

type productStrategy int

const (
	strategyUndecided productStrategy = iota
	strategyStride
	strategyScan
)

// scanMatching performs a full scan of y's cells, testing each against
// xKey's shared-variable values via a key-match predicate.
func scanMatching(y *Factor, yAll []int, sharedInY []int, xKey []string) []int {
	out := make([]int, 0, len(yAll))
	for _, iy := range yAll {
		yKey, err := y.keyAt(iy)
		if err != nil {
			continue
		}
		match := true
		for i, yi := range sharedInY {
			if yi < 0 {
				continue
			}
			if yKey[yi] != xKey[i] {
				match = false
				break
			}
		}
		if match {
			out = append(out, iy)
		}
	}
	return out
}

// buildDestKey assembles the value tuple over resultE from xKey (over xe)
// and yKey (over ye); a variable present in both is read from xKey (the two
// must agree since it was a matched shared position).
func buildDestKey(resultE, xe []*domain.Variable, xKey []string, ye []*domain.Variable, yKey []string) ([]string, error) {
	out := make([]string, len(resultE))
	for i, v := range resultE {
		if xi := indexOfVar(xe, v); xi >= 0 {
			out[i] = xKey[xi]
			continue
		}
		if yi := indexOfVar(ye, v); yi >= 0 {
			out[i] = yKey[yi]
			continue
		}
	}
	return out, nil
}

// ProductMany builds a binary product tree over fs greedily: at each step,
// among pooled nodes, it picks the pair minimizing JoinedComplexity, and
// replaces them by their product, repeating until one node remains.
// Evaluation is post-order (each product node is computed as soon as it is
// chosen).
func ProductMany(fs []*Factor) (*Factor, error) {
	if len(fs) == 0 {
		return NewScalar(1), nil
	}
	pool := append([]*Factor(nil), fs...)
	for len(pool) > 1 {
		bi, bj, best := -1, -1, -1
		for i := 0; i < len(pool); i++ {
			for j := i + 1; j < len(pool); j++ {
				c := JoinedComplexity(pool[i], pool[j])
				if best == -1 || c < best {
					best, bi, bj = c, i, j
				}
			}
		}
		p, err := Product(pool[bi], pool[bj])
		if err != nil {
			return nil, err
		}
		// remove bj then bi (bj>bi) and append the product.
		pool = append(pool[:bj], pool[bj+1:]...)
		pool = append(pool[:bi], pool[bi+1:]...)
		pool = append(pool, p)
	}
	return pool[0], nil
}
