// SPDX-License-Identifier: MIT
//
// Package substitution layers ancestral sequence reconstruction on top of
// packages network/inference/ratematrix: for each alignment column
// independently, it builds a tree-shaped network whose edges carry
// substitution-model CPTs, instantiates leaves to observed symbols, and
// queries the inference driver for the most probable ancestor assignment
// (or, in marginal mode, a single node's posterior).
//
// Grounded on the original bn.alg reconstruction driver (original_source/
// bnkit's Java ancestor-inference classes) for the per-column, per-node
// walk; the tree/alignment vocabulary (taxon, branch length, column) is
// shared with other_examples/js-arias-phygeo and
// other_examples/tomopfuku-cophycollapse__char_alignment.go.
package substitution

import (
	"fmt"

	"github.com/arborbayes/bnkit/bnerr"
)

// PhyloNode is one node of a rooted phylogenetic tree: leaves carry no
// Children, internal nodes (including the root) carry one or more.
// BranchLength is the distance to this node's parent; it is ignored at the
// root.
type PhyloNode struct {
	Name         string
	BranchLength float64
	Children     []*PhyloNode
}

// PhyloTree is a rooted phylogenetic tree.
type PhyloTree struct {
	Root *PhyloNode
}

// IsLeaf reports whether n has no children.
func (n *PhyloNode) IsLeaf() bool { return len(n.Children) == 0 }

// Preorder visits every node root-first, parent before any child — the
// order a column network must be built in, since AddSubstitutionNode
// requires the parent variable to already be registered.
func (t *PhyloTree) Preorder() []*PhyloNode {
	var out []*PhyloNode
	var visit func(n *PhyloNode)
	visit = func(n *PhyloNode) {
		out = append(out, n)
		for _, c := range n.Children {
			visit(c)
		}
	}
	if t.Root != nil {
		visit(t.Root)
	}
	return out
}

// Leaves returns every leaf node in preorder.
func (t *PhyloTree) Leaves() []*PhyloNode {
	var out []*PhyloNode
	for _, n := range t.Preorder() {
		if n.IsLeaf() {
			out = append(out, n)
		}
	}
	return out
}

// Internal returns every non-leaf node (including the root) in preorder —
// exactly the set of variables a reconstruction run resolves values for.
func (t *PhyloTree) Internal() []*PhyloNode {
	var out []*PhyloNode
	for _, n := range t.Preorder() {
		if !n.IsLeaf() {
			out = append(out, n)
		}
	}
	return out
}

// parentOf returns the parent of target, or nil if target is the root or
// not found.
func (t *PhyloTree) parentOf(target *PhyloNode) *PhyloNode {
	for _, n := range t.Preorder() {
		for _, c := range n.Children {
			if c == target {
				return n
			}
		}
	}
	return nil
}

// Validate checks structural well-formedness: a non-nil root, unique names,
// and non-negative branch lengths on every non-root node.
func (t *PhyloTree) Validate() error {
	const op = "substitution.PhyloTree.Validate"
	if t.Root == nil {
		return bnerr.New(bnerr.IncompleteNetwork, op, "tree has no root")
	}
	seen := make(map[string]bool)
	for _, n := range t.Preorder() {
		if seen[n.Name] {
			return bnerr.New(bnerr.IncompleteNetwork, op, fmt.Sprintf("duplicate node name %q", n.Name))
		}
		seen[n.Name] = true
		if n != t.Root && n.BranchLength < 0 {
			return bnerr.New(bnerr.IncompleteNetwork, op, fmt.Sprintf("node %q has negative branch length", n.Name))
		}
	}
	return nil
}
