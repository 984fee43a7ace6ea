// SPDX-License-Identifier: MIT
//
// api.go — thin public entry-points for the builder package.
//
// Design contract (strict, carried from the teacher package):
//   - One orchestrator: BuildNetwork(bopts, cons...). Creates net, resolves
//     cfg, runs cons in order.
//   - All public factories are declared here, implemented in fixtures.go.
//   - Determinism: same inputs/options/seed and constructor order => identical
//     network.
//   - Safety: constructors never panic; they return errors from bnerr.
package builder

import (
	"fmt"

	"github.com/arborbayes/bnkit/network"
)

// Constructor registers one or more nodes against net using the resolved
// builderConfig. Constructors MUST:
//   - Validate parameters early and return bnerr-tagged errors (no panics).
//   - Add nodes in a stable, documented order.
//   - Preserve determinism for the same config and call order.
type Constructor func(net *network.Network, cfg builderConfig) error

// BuildNetwork creates a new network.Network, resolves the builder
// configuration from bopts, and applies every constructor in order. Any
// constructor error is wrapped with "BuildNetwork: %w" and returned
// immediately; no partial cleanup is attempted by design. Callers still
// need to call net.Compile() themselves once they're done adding evidence-
// independent structure, matching network.Network's own lifecycle.
func BuildNetwork(bopts []BuilderOption, cons ...Constructor) (*network.Network, error) {
	net := network.New()
	cfg := newBuilderConfig(bopts...)
	for i, fn := range cons {
		if fn == nil {
			return nil, fmt.Errorf("BuildNetwork: nil constructor at index %d", i)
		}
		if err := fn(net, cfg); err != nil {
			return nil, fmt.Errorf("BuildNetwork: %w", err)
		}
	}
	return net, nil
}
