// SPDX-License-Identifier: MIT
//
// config.go — internal configuration and deterministic defaults.
//
// Design:
//   - builderConfig is the single source of truth for all builder knobs.
//   - Defaults are deterministic and documented; no globals.
//   - newBuilderConfig applies options in-order (later overrides earlier).
package builder

import "math/rand"

// builderConfig aggregates all knobs used by Constructors. It is passed by
// value (immutable to callers).
type builderConfig struct {
	// nameFn generates a variable name from its zero-based index within one
	// constructor call, e.g. "X0","X1",... by default.
	nameFn func(int) string
	// rng drives every random draw (CPT sampling, random DAG wiring); when
	// no option sets it, newBuilderConfig installs a fresh source seeded
	// from 0, so plain BuildNetwork calls stay reproducible even without an
	// explicit WithSeed.
	rng *rand.Rand
	// domainSize is recorded by WithDomainSize; none of this package's
	// Constructors reads it, since each takes its domain size explicitly.
	domainSize int
	// maxParents bounds RandomDAG's per-node parent count.
	maxParents int
}

const (
	defaultDomainSize = 2
	defaultMaxParents = 2
)

func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{
		nameFn:     DefaultIDFn,
		rng:        nil,
		domainSize: defaultDomainSize,
		maxParents: defaultMaxParents,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewSource(0))
	}
	return cfg
}
