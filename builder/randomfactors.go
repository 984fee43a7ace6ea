// SPDX-License-Identifier: MIT
//
// randomfactors.go — standalone factor-fixture generator, no Network
// involved. Grounded on the same RNG-driven fixture idiom as fixtures.go's
// RandomDAG, repurposed for package factor's own algebraic property tests
// (e.g. "N random factors over M variables" for product-tree equivalence).
package builder

import (
	"github.com/arborbayes/bnkit/domain"
	"github.com/arborbayes/bnkit/factor"
)

// RandomFactors builds m random factors over a random subset of vars: each
// factor gets between 1 and min(3, len(vars)) key variables chosen without
// replacement, with non-negative, finite, independently-drawn weights. The
// resulting factors carry no JDF and no trace; they exist purely to exercise
// Product/ProductMany/SumOut/MaxOut against each other.
func RandomFactors(vars []*domain.Variable, m int, opts ...BuilderOption) ([]*factor.Factor, error) {
	const op = "builder.RandomFactors"
	if err := validateMin(op, m, 1); err != nil {
		return nil, err
	}
	if err := validateMin(op, len(vars), 1); err != nil {
		return nil, err
	}
	cfg := newBuilderConfig(opts...)
	maxArity := 3
	if maxArity > len(vars) {
		maxArity = len(vars)
	}
	out := make([]*factor.Factor, m)
	for i := 0; i < m; i++ {
		arity := 1 + cfg.rng.Intn(maxArity)
		pool := append([]*domain.Variable(nil), vars...)
		cfg.rng.Shuffle(len(pool), func(a, b int) { pool[a], pool[b] = pool[b], pool[a] })
		keys := domain.SortByCanonical(pool[:arity])
		f, err := factor.New(keys, nil, false)
		if err != nil {
			return nil, err
		}
		for _, idx := range allFactorIndices(f) {
			if err := f.SetValueAt(idx, cfg.rng.Float64()+1e-9); err != nil {
				return nil, err
			}
		}
		out[i] = f
	}
	return out, nil
}

// allFactorIndices enumerates every linearised cell index of f via its own
// Size, independent of table's internals.
func allFactorIndices(f *factor.Factor) []int {
	n := f.Size()
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
