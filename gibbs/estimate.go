package gibbs

import (
	"math"

	"github.com/arborbayes/bnkit/bnerr"
)

// EstimateMarginal burns in, then runs cfg's stopping rule, collecting
// empirical counts of query's sampled value after every sweep past burn-in.
// It returns the normalised empirical distribution, in domain order.
func (s *Sampler) EstimateMarginal(query string, cfg ConvergenceConfig) ([]float64, error) {
	const op = "gibbs.Sampler.EstimateMarginal"
	v, ok := s.net.Variable(query)
	if !ok {
		return nil, bnerr.New(bnerr.IncompleteNetwork, op, "unknown variable "+query)
	}
	if v.Continuous() {
		return nil, bnerr.New(bnerr.InvalidDomain, op, "cannot estimate a marginal for a continuous variable")
	}
	if err := s.Run(cfg.BurnIn); err != nil {
		return nil, err
	}

	counts := make([]float64, v.Domain().Size())
	record := func() error {
		idx, err := v.Domain().Index(s.state[query])
		if err != nil {
			return err
		}
		counts[idx]++
		return nil
	}

	switch cfg.Mode {
	case PerQueryCount:
		n := cfg.SampleCount
		if n <= 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			if err := s.Step(); err != nil {
				return nil, err
			}
			if err := record(); err != nil {
				return nil, err
			}
		}
	case PerNodeFactor:
		if cfg.CheckpointSweeps <= 0 {
			cfg.CheckpointSweeps = 1
		}
		maxSweeps := cfg.MaxSweeps
		if maxSweeps <= 0 {
			maxSweeps = 10000
		}
		prev := make([]float64, len(counts))
		total := 0.0
		swept := 0
		for swept < maxSweeps {
			for i := 0; i < cfg.CheckpointSweeps; i++ {
				if err := s.Step(); err != nil {
					return nil, err
				}
				if err := record(); err != nil {
					return nil, err
				}
				total++
				swept++
			}
			cur := normalised(counts, total)
			if maxAbsDiff(cur, prev) < cfg.Tolerance {
				return cur, nil
			}
			prev = cur
		}
		return normalised(counts, total), nil
	}
	return normalised(counts, sumFloat(counts)), nil
}

func sumFloat(xs []float64) float64 {
	s := 0.0
	for _, x := range xs {
		s += x
	}
	return s
}

func normalised(counts []float64, total float64) []float64 {
	out := make([]float64, len(counts))
	if total <= 0 {
		return out
	}
	for i, c := range counts {
		out[i] = c / total
	}
	return out
}

func maxAbsDiff(a, b []float64) float64 {
	m := 0.0
	for i := range a {
		d := math.Abs(a[i] - b[i])
		if d > m {
			m = d
		}
	}
	return m
}
