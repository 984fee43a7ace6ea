// Package network implements the Bayesian-network builder and compiler:
// addNode/setEvidence/clearEvidence/compile plus the node-type-specific
// factor recipes (makeFactor) the inference driver consumes.
//
// Grounded on lvlath/core's thread-safe Graph as the DAG substrate (vertex ID
// = variable name, directed edge parent→child) and on lvlath/dfs's
// TopologicalSort for compile-time cycle detection and canonical ordering.
package network

import (
	"github.com/arborbayes/bnkit/dist"
	"github.com/arborbayes/bnkit/domain"
	"github.com/arborbayes/bnkit/ratematrix"
	"github.com/arborbayes/bnkit/table"
)

// Kind tags a node's conditional-distribution recipe (spec.md §4.5).
type Kind int

const (
	// CategoricalCPT: self and all parents enumerable; cell = P(self|parents).
	CategoricalCPT Kind = iota
	// GaussianTable: self continuous, parents enumerable; cell JDF = Gaussian over self.
	GaussianTable
	// DirichletTable: self continuous, parents enumerable; cell JDF = Dirichlet over self.
	DirichletTable
	// Substitution: a phylogenetic-edge categorical CPT derived from a rate-matrix kernel.
	Substitution
)

// Node is one Bayesian-network node: a variable, its enumerable parents, and
// a conditional-distribution recipe.
type Node struct {
	Var     *domain.Variable
	Parents []*domain.Variable
	Kind    Kind

	// CategoricalCPT / Substitution: table over Parents -> Categorical(Var.Domain()).
	CPT *table.Table[*dist.Categorical]
	// GaussianTable: table over Parents -> *dist.Gaussian.
	Gaussian *table.Table[*dist.Gaussian]
	// DirichletTable: table over Parents -> *dist.Dirichlet.
	Dirichlet *table.Table[*dist.Dirichlet]

	// Substitution-only metadata, retained for diagnostics.
	BranchLength float64
	Model        *ratematrix.Model
}
