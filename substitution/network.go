package substitution

import (
	"github.com/arborbayes/bnkit/bnerr"
	"github.com/arborbayes/bnkit/dist"
	"github.com/arborbayes/bnkit/domain"
	"github.com/arborbayes/bnkit/network"
	"github.com/arborbayes/bnkit/ratematrix"
	"github.com/arborbayes/bnkit/table"
)

// buildTreeNetwork builds one network.Network over tree's nodes, all sharing
// dom as their enumerable domain: the root gets a categorical prior = π,
// every other node gets a substitution-edge CPT derived from model at its
// own branch length. It does not set any evidence; callers instantiate
// leaves afterwards.
func buildTreeNetwork(tree *PhyloTree, model *ratematrix.Model, dom *domain.Domain) (*network.Network, error) {
	const op = "substitution.buildTreeNetwork"
	if err := tree.Validate(); err != nil {
		return nil, err
	}
	net := network.New()
	vars := make(map[string]*domain.Variable, len(tree.Preorder()))
	for _, n := range tree.Preorder() {
		vars[n.Name] = domain.NewEnumerable(n.Name, dom)
	}
	root := tree.Root
	priorCPT, err := table.New[*dist.Categorical]()
	if err != nil {
		return nil, err
	}
	prior, err := dist.NewCategorical(dom, model.Pi)
	if err != nil {
		return nil, err
	}
	if err := priorCPT.SetValue(0, prior); err != nil {
		return nil, err
	}
	if err := net.AddCategoricalNode(vars[root.Name], nil, priorCPT); err != nil {
		return nil, bnerr.Wrap(bnerr.IncompleteNetwork, op, "add root", err)
	}
	var addSubtree func(n *PhyloNode) error
	addSubtree = func(n *PhyloNode) error {
		for _, c := range n.Children {
			if err := net.AddSubstitutionNode(vars[c.Name], vars[n.Name], model, c.BranchLength); err != nil {
				return bnerr.Wrap(bnerr.IncompleteNetwork, op, "add node "+c.Name, err)
			}
			if err := addSubtree(c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := addSubtree(root); err != nil {
		return nil, err
	}
	return net, nil
}
