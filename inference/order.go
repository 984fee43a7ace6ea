// Package inference implements the variable-elimination driver: it compiles
// a network.Network into a sequence of factors, orders eliminations by the
// min-fill/min-weight heuristic, and executes eliminate-sum (marginal,
// log-likelihood) or eliminate-max (MPE) to produce the answer.
//
// Grounded on lvlath/bfs's visitor-hook breadth-first search for enumerating
// a candidate variable's current neighbourhood in the running elimination
// (interaction) graph, and on lvlath/core's thread-safe Graph as that
// interaction graph's substrate.
package inference

import (
	"sort"

	"github.com/arborbayes/bnkit/bfs"
	"github.com/arborbayes/bnkit/core"
	"github.com/arborbayes/bnkit/domain"
	"github.com/arborbayes/bnkit/factor"
	"github.com/arborbayes/bnkit/internal/telemetry"
	"go.uber.org/zap"
)

// interactionGraph tracks, for the running elimination, which variables
// currently co-occur in some live bucket factor. Vertex IDs are variable
// names; edges are undirected and unweighted.
type interactionGraph struct {
	g    *core.Graph
	byID map[string]*domain.Variable
}

func newInteractionGraph(factors []*factor.Factor) *interactionGraph {
	g := core.NewGraph(core.WithDirected(false))
	ig := &interactionGraph{g: g, byID: make(map[string]*domain.Variable)}
	for _, f := range factors {
		for _, v := range f.E() {
			ig.addVar(v)
		}
		vs := f.E()
		for i := 0; i < len(vs); i++ {
			for j := i + 1; j < len(vs); j++ {
				ig.connect(vs[i], vs[j])
			}
		}
	}
	return ig
}

func (ig *interactionGraph) addVar(v *domain.Variable) {
	if _, ok := ig.byID[v.Name()]; ok {
		return
	}
	ig.byID[v.Name()] = v
	_ = ig.g.AddVertex(v.Name())
}

func (ig *interactionGraph) connect(a, b *domain.Variable) {
	if a.Name() == b.Name() {
		return
	}
	ig.addVar(a)
	ig.addVar(b)
	if ig.g.HasEdge(a.Name(), b.Name()) {
		return
	}
	_, _ = ig.g.AddEdge(a.Name(), b.Name(), 0)
}

// neighbors returns v's current neighbours via a depth-1 BFS, the visitor
// substrate spec.md §4.5's elimination-order heuristic reuses rather than a
// hand-rolled adjacency scan.
func (ig *interactionGraph) neighbors(v *domain.Variable) []*domain.Variable {
	if !ig.g.HasVertex(v.Name()) {
		return nil
	}
	res, err := bfs.BFS(ig.g, v.Name(), bfs.WithMaxDepth(1))
	if err != nil {
		return nil
	}
	out := make([]*domain.Variable, 0, len(res.Order))
	for _, id := range res.Order {
		if id == v.Name() {
			continue
		}
		out = append(out, ig.byID[id])
	}
	return out
}

// eliminate removes v from the graph, connecting every pair of its
// remaining neighbours (moralization-style fill-in).
func (ig *interactionGraph) eliminate(v *domain.Variable) {
	nbrs := ig.neighbors(v)
	for i := 0; i < len(nbrs); i++ {
		for j := i + 1; j < len(nbrs); j++ {
			ig.connect(nbrs[i], nbrs[j])
		}
	}
	_ = ig.g.RemoveVertex(v.Name())
	delete(ig.byID, v.Name())
}

// fillCount returns how many new edges eliminating v would add right now.
func (ig *interactionGraph) fillCount(v *domain.Variable) int {
	nbrs := ig.neighbors(v)
	count := 0
	for i := 0; i < len(nbrs); i++ {
		for j := i + 1; j < len(nbrs); j++ {
			if !ig.g.HasEdge(nbrs[i].Name(), nbrs[j].Name()) {
				count++
			}
		}
	}
	return count
}

// weight returns Π|Dom(neighbour)| over v's current neighbours, the
// min-weight tie-break spec.md §4.5 names alongside min-fill.
func (ig *interactionGraph) weight(v *domain.Variable) int {
	w := 1
	for _, n := range ig.neighbors(v) {
		w *= n.Domain().Size()
	}
	return w
}

// EliminationOrder computes the order in which vars should be eliminated
// from factors, using the greedy min-fill heuristic with min-weight and
// lowest-canonical-index tie-breaks spec.md §4.5 names.
func EliminationOrder(vars []*domain.Variable, factors []*factor.Factor) []*domain.Variable {
	if len(vars) == 0 {
		return nil
	}
	ig := newInteractionGraph(factors)
	remaining := append([]*domain.Variable(nil), vars...)
	order := make([]*domain.Variable, 0, len(remaining))

	for len(remaining) > 0 {
		sort.Slice(remaining, func(i, j int) bool {
			return domain.Less(remaining[i], remaining[j])
		})
		bestIdx := 0
		bestFill := ig.fillCount(remaining[0])
		bestWeight := ig.weight(remaining[0])
		for i := 1; i < len(remaining); i++ {
			f := ig.fillCount(remaining[i])
			w := ig.weight(remaining[i])
			if f < bestFill || (f == bestFill && w < bestWeight) {
				bestIdx, bestFill, bestWeight = i, f, w
			}
		}
		chosen := remaining[bestIdx]
		telemetry.L().Debug("inference: elimination order pick",
			zap.String("variable", chosen.Name()),
			zap.Int("fill", bestFill),
			zap.Int("weight", bestWeight),
		)
		order = append(order, chosen)
		ig.eliminate(chosen)
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return order
}
