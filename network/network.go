package network

import (
	"fmt"

	"github.com/arborbayes/bnkit/bnerr"
	"github.com/arborbayes/bnkit/core"
	"github.com/arborbayes/bnkit/dfs"
	"github.com/arborbayes/bnkit/dist"
	"github.com/arborbayes/bnkit/domain"
	"github.com/arborbayes/bnkit/ratematrix"
	"github.com/arborbayes/bnkit/table"
)

// Network is a Bayesian-network builder and compiler: a DAG of variables,
// each carrying a conditional-distribution recipe, plus an evidence
// assignment.
type Network struct {
	graph *core.Graph
	nodes map[string]*Node
	vars  map[string]*domain.Variable

	evidenceDiscrete   map[string]string
	evidenceContinuous map[string]float64
	evidenceVector     map[string][]float64 // Dirichlet-valued evidence

	compiled bool
	order    []string // topological order, parents before children
}

// New allocates an empty Network.
func New() *Network {
	return &Network{
		graph:              core.NewGraph(core.WithDirected(true), core.WithWeighted()),
		nodes:              make(map[string]*Node),
		vars:               make(map[string]*domain.Variable),
		evidenceDiscrete:   make(map[string]string),
		evidenceContinuous: make(map[string]float64),
		evidenceVector:     make(map[string][]float64),
	}
}

func (n *Network) addVertex(v *domain.Variable, parents []*domain.Variable) error {
	const op = "network.addVertex"
	if _, exists := n.nodes[v.Name()]; exists {
		return bnerr.New(bnerr.IncompleteNetwork, op, fmt.Sprintf("node %q already added", v.Name()))
	}
	if err := n.graph.AddVertex(v.Name()); err != nil {
		return bnerr.Wrap(bnerr.IncompleteNetwork, op, "add vertex", err)
	}
	for _, p := range parents {
		if _, ok := n.nodes[p.Name()]; !ok {
			return bnerr.New(bnerr.IncompleteNetwork, op, fmt.Sprintf("parent %q must be added before child %q", p.Name(), v.Name()))
		}
		if _, err := n.graph.AddEdge(p.Name(), v.Name(), 0); err != nil {
			return bnerr.Wrap(bnerr.IncompleteNetwork, op, "add edge", err)
		}
	}
	n.vars[v.Name()] = v
	n.compiled = false
	return nil
}

// AddCategoricalNode registers a categorical CPT node: self and all parents
// enumerable, cpt[parentKey] = Categorical over self's domain.
func (n *Network) AddCategoricalNode(v *domain.Variable, parents []*domain.Variable, cpt *table.Table[*dist.Categorical]) error {
	if err := n.addVertex(v, parents); err != nil {
		return err
	}
	n.nodes[v.Name()] = &Node{Var: v, Parents: append([]*domain.Variable(nil), parents...), Kind: CategoricalCPT, CPT: cpt}
	return nil
}

// AddGaussianNode registers a Gaussian-density-table node: self continuous,
// parents enumerable. Per spec.md §4.5, a Gaussian node with no enumerable
// parents cannot be factorised by the current algorithm if it is ever met
// non-evidenced in a query; that check happens at query time (Unfactorisable),
// not here, since a node with no parents can still be queried with evidence.
func (n *Network) AddGaussianNode(v *domain.Variable, parents []*domain.Variable, jdf *table.Table[*dist.Gaussian]) error {
	if err := n.addVertex(v, parents); err != nil {
		return err
	}
	n.nodes[v.Name()] = &Node{Var: v, Parents: append([]*domain.Variable(nil), parents...), Kind: GaussianTable, Gaussian: jdf}
	return nil
}

// AddDirichletNode registers a Dirichlet-density-table node, analogous to
// AddGaussianNode.
func (n *Network) AddDirichletNode(v *domain.Variable, parents []*domain.Variable, jdf *table.Table[*dist.Dirichlet]) error {
	if err := n.addVertex(v, parents); err != nil {
		return err
	}
	n.nodes[v.Name()] = &Node{Var: v, Parents: append([]*domain.Variable(nil), parents...), Kind: DirichletTable, Dirichlet: jdf}
	return nil
}

// AddSubstitutionNode registers a phylogenetic-edge node: a single-parent
// categorical CPT built from model.Probs(branchLength), both self and
// parent sharing model.Alphabet as their enumerable domain.
func (n *Network) AddSubstitutionNode(v *domain.Variable, parent *domain.Variable, model *ratematrix.Model, branchLength float64) error {
	const op = "network.AddSubstitutionNode"
	if err := n.addVertex(v, []*domain.Variable{parent}); err != nil {
		return err
	}
	probs, err := model.Probs(branchLength)
	if err != nil {
		return bnerr.Wrap(bnerr.InvalidModel, op, "compute transition probabilities", err)
	}
	cpt, err := table.New[*dist.Categorical](parent)
	if err != nil {
		return err
	}
	for i, sym := range model.Alphabet {
		cat, err := dist.NewCategorical(v.Domain(), probs[i])
		if err != nil {
			return err
		}
		if err := cpt.SetByKey([]string{sym}, cat); err != nil {
			return err
		}
	}
	n.nodes[v.Name()] = &Node{
		Var: v, Parents: []*domain.Variable{parent}, Kind: Substitution,
		CPT: cpt, BranchLength: branchLength, Model: model,
	}
	return nil
}

// SetEvidence fixes an enumerable variable to an observed value.
func (n *Network) SetEvidence(varName, value string) error {
	const op = "network.SetEvidence"
	v, ok := n.vars[varName]
	if !ok {
		return bnerr.New(bnerr.IncompleteNetwork, op, fmt.Sprintf("unknown variable %q", varName))
	}
	if v.Continuous() {
		return bnerr.New(bnerr.InvalidDomain, op, fmt.Sprintf("variable %q is continuous; use SetEvidenceContinuous", varName))
	}
	if !v.Domain().Has(value) {
		return bnerr.New(bnerr.InvalidDomain, op, fmt.Sprintf("value %q not in domain of %q", value, varName))
	}
	n.evidenceDiscrete[varName] = value
	return nil
}

// SetEvidenceContinuous fixes a continuous variable to an observed point.
func (n *Network) SetEvidenceContinuous(varName string, value float64) error {
	const op = "network.SetEvidenceContinuous"
	v, ok := n.vars[varName]
	if !ok {
		return bnerr.New(bnerr.IncompleteNetwork, op, fmt.Sprintf("unknown variable %q", varName))
	}
	if !v.Continuous() {
		return bnerr.New(bnerr.InvalidDomain, op, fmt.Sprintf("variable %q is enumerable; use SetEvidence", varName))
	}
	n.evidenceContinuous[varName] = value
	return nil
}

// SetEvidenceVector fixes a Dirichlet-valued continuous variable to an
// observed probability vector (a point on the simplex over that variable's
// Dirichlet JDF domain). This supplements SetEvidenceContinuous, which only
// carries a scalar and cannot represent evidence for a Dirichlet node.
func (n *Network) SetEvidenceVector(varName string, value []float64) error {
	const op = "network.SetEvidenceVector"
	v, ok := n.vars[varName]
	if !ok {
		return bnerr.New(bnerr.IncompleteNetwork, op, fmt.Sprintf("unknown variable %q", varName))
	}
	if !v.Continuous() {
		return bnerr.New(bnerr.InvalidDomain, op, fmt.Sprintf("variable %q is enumerable; use SetEvidence", varName))
	}
	n.evidenceVector[varName] = append([]float64(nil), value...)
	return nil
}

// ClearEvidence removes every evidence assignment.
func (n *Network) ClearEvidence() {
	n.evidenceDiscrete = make(map[string]string)
	n.evidenceContinuous = make(map[string]float64)
	n.evidenceVector = make(map[string][]float64)
}

// EvidenceDiscrete returns the current enumerable evidence map (read-only).
func (n *Network) EvidenceDiscrete() map[string]string { return n.evidenceDiscrete }

// EvidenceContinuous returns the current continuous evidence map (read-only).
func (n *Network) EvidenceContinuous() map[string]float64 { return n.evidenceContinuous }

// EvidenceVector returns the current Dirichlet-valued evidence map (read-only).
func (n *Network) EvidenceVector() map[string][]float64 { return n.evidenceVector }

// Compile validates the DAG (acyclicity via dfs.TopologicalSort) and
// computes the canonical parents-before-children ordering used by the
// inference driver to process nodes deterministically.
func (n *Network) Compile() error {
	const op = "network.Compile"
	order, err := dfs.TopologicalSort(n.graph)
	if err != nil {
		return bnerr.Wrap(bnerr.IncompleteNetwork, op, "network graph is not acyclic", err)
	}
	n.order = order
	n.compiled = true
	return nil
}

// Compiled reports whether Compile has succeeded since the last structural change.
func (n *Network) Compiled() bool { return n.compiled }

// Order returns the compiled topological order (parents before children).
func (n *Network) Order() []string { return n.order }

// Node returns the node registered for varName.
func (n *Network) Node(varName string) (*Node, bool) {
	nd, ok := n.nodes[varName]
	return nd, ok
}

// Variable returns the Variable registered under varName.
func (n *Network) Variable(varName string) (*domain.Variable, bool) {
	v, ok := n.vars[varName]
	return v, ok
}

// Variables returns every registered variable, sorted by name.
func (n *Network) Variables() []*domain.Variable {
	out := make([]*domain.Variable, 0, len(n.vars))
	for _, id := range n.graph.Vertices() {
		if v, ok := n.vars[id]; ok {
			out = append(out, v)
		}
	}
	return out
}

// Graph exposes the underlying DAG substrate for traversal helpers
// (package inference's relevant-variable search and elimination-order
// neighbour scan).
func (n *Network) Graph() *core.Graph { return n.graph }

// Parents returns the registered parents of varName.
func (n *Network) Parents(varName string) []*domain.Variable {
	nd, ok := n.nodes[varName]
	if !ok {
		return nil
	}
	return nd.Parents
}

// RelevantSet returns the ancestors of query∪evidence in the network's DAG,
// including query and evidence themselves — the set R spec.md §4.5 names as
// "relevant to Q given E". A variable outside R marginalizes to 1 in any
// product it would join (it has no evidenced descendant and is not itself
// queried), so ancestor closure is a sound, if not always minimal,
// approximation of full d-separation pruning; see DESIGN.md for why this
// project accepts that approximation.
func (n *Network) RelevantSet(query, evidence []string) map[string]bool {
	relevant := make(map[string]bool, len(n.nodes))
	var visit func(name string)
	visit = func(name string) {
		if relevant[name] {
			return
		}
		if _, ok := n.nodes[name]; !ok {
			return
		}
		relevant[name] = true
		for _, p := range n.Parents(name) {
			visit(p.Name())
		}
	}
	for _, q := range query {
		visit(q)
	}
	for _, e := range evidence {
		visit(e)
	}
	return relevant
}
