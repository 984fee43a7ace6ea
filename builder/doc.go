// Package builder is a declarative, functional-options facade for
// constructing Bayesian networks and standalone factor fixtures.
//
// Grounded on lvlath/builder's Constructor-composition pattern
// (BuildGraph(gopts, bopts, cons...)): here the substrate is a
// *network.Network rather than a *core.Graph, and constructors add nodes
// with conditional-distribution recipes instead of edges. The functional-
// options config (builderConfig), the deterministic ID-scheme helpers
// (IDFn), and the panic-on-invalid-option/error-return-on-invalid-runtime-
// input split are carried over unchanged from the teacher package.
//
// The package offers:
//
//   - BuildNetwork: the single orchestrator, applying Constructors in order
//     to a freshly-allocated Network.
//   - Topology/recipe factories (Chain, NaiveBayes, Tree, RandomDAG,
//     BurglaryNetwork): deterministic node-recipe constructors standing in
//     for the teacher's graph-shape constructors (Cycle, Star, Grid, ...).
//   - RandomFactors: a standalone factor-fixture generator (no Network
//     involved) for the factor package's own algebraic property tests
//     (spec.md §8 scenario 5: "8 random factors over 10 variables").
//   - Variable naming schemes (IDFn), reused verbatim from the teacher since
//     "index -> deterministic string" is domain-agnostic.
package builder
