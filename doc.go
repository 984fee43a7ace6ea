// Package bnkit is a toolkit for discrete-and-hybrid Bayesian networks over
// enumerable and continuous random variables, with exact inference by
// variable elimination, approximate inference by Gibbs sampling, and
// ancestral sequence reconstruction on phylogenetic trees via continuous-time
// Markov substitution models.
//
// The engine is organized leaves-first:
//
//	domain/      — enumerable domains and canonically-indexed variables
//	dist/        — leaf probability objects (categorical, Gaussian, Gamma,
//	               Dirichlet, mixture), behind one shared capability set
//	table/       — dense, generic, stride-indexed storage keyed by a tuple
//	               of enumerable values
//	factor/      — the central algebraic object: weight + optional joint
//	               density fragment + optional assignment trace, plus the
//	               product/sum-out/max-out combinators
//	matrix/      — dense linear algebra (element-wise ops, transpose,
//	               symmetric eigen-decomposition)
//	ratematrix/  — turns a stationary frequency vector and an exchange
//	               matrix into time-parametrised transition probabilities
//	core/        — thread-safe DAG substrate underneath network and
//	               substitution
//	bfs/ dfs/    — traversal, cycle detection, and topological sort over
//	               core.Graph
//	builder/     — declarative, functional-options node-recipe facade
//	network/     — Bayesian-network builder/compiler and per-node factor
//	               recipes
//	inference/   — the variable-elimination driver: marginal, MPE, and
//	               log-likelihood queries
//	gibbs/       — approximate inference sharing the factor/network surface
//	substitution/— ancestral sequence reconstruction on phylogenetic trees
//	bnerr/       — the shared error taxonomy every package wraps
//	internal/telemetry/ — structured logging shared by the above
//	cmd/bnctl/   — an optional CLI/RPC façade over the core, as an external
//	               client of the library, never imported by it
//
// None of the above (Non-goal, preserved from the original scope) attempts
// structure learning, training continuous distributions from data, parallel
// cluster execution, or persistence-format fidelity with any legacy XML
// schema; file I/O and any GUI remain the caller's responsibility.
package bnkit
