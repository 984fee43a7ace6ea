// Package bfs provides breadth-first search over a core.Graph,
// returning unweighted visit order up to an optional depth limit.
//
// BFS explores vertices in increasing distance from a start vertex.
package bfs

import (
	"errors"
	"fmt"

	"github.com/arborbayes/bnkit/core"
)

// ErrWeightedGraph is returned when BFS is run on a weighted graph.
var ErrWeightedGraph = errors.New("bfs: weighted graphs not supported")

// ErrNeighbors is returned when fetching neighbors from the graph fails.
var ErrNeighbors = errors.New("bfs: neighbor iteration error")

// queueItem pairs a vertex ID with its BFS depth.
type queueItem struct {
	id    string
	depth int
}

// walker encapsulates mutable BFS state.
type walker struct {
	graph   *core.Graph
	opts    BFSOptions
	queue   []queueItem
	visited map[string]bool
	res     *BFSResult
}

// BFS runs breadth-first search on g starting from startID,
// applying any number of functional Options.
// Returns ErrGraphNil or ErrStartVertexNotFound for invalid input,
// ErrWeightedGraph for weighted graphs, ErrOptionViolation for bad options,
// or ErrNeighbors for graph failures.
func BFS(g *core.Graph, startID string, opts ...Option) (*BFSResult, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	// Build options and catch any invalid ones immediately
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	// Validate start vertex
	if !g.HasVertex(startID) {
		return nil, ErrStartVertexNotFound
	}
	// Disallow weighted graphs
	if g.Weighted() {
		return nil, ErrWeightedGraph
	}

	// Prepare walker
	vertices := g.Vertices()
	n := len(vertices)
	w := &walker{
		graph:   g,
		opts:    o,
		queue:   make([]queueItem, 0, n),
		visited: make(map[string]bool, n),
		res:     &BFSResult{Order: make([]string, 0, n)},
	}

	// Seed queue with start vertex
	w.enqueue(startID, 0)
	// Main loop
	return w.res, w.loop()
}

// enqueue marks id visited at depth d and adds it to the queue.
func (w *walker) enqueue(id string, d int) {
	w.visited[id] = true
	w.queue = append(w.queue, queueItem{id: id, depth: d})
}

// loop processes the queue until empty or error.
func (w *walker) loop() error {
	for len(w.queue) > 0 {
		item := w.dequeue()
		w.visit(item)
		if err := w.enqueueNeighbors(item); err != nil {
			return err
		}
	}
	return nil
}

// dequeue pops and returns the first item.
func (w *walker) dequeue() queueItem {
	item := w.queue[0]
	w.queue = w.queue[1:]
	return item
}

// visit records the vertex in Order.
func (w *walker) visit(item queueItem) {
	w.res.Order = append(w.res.Order, item.id)
}

// enqueueNeighbors retrieves neighbors and applies MaxDepth, enqueuing each
// unseen neighbor. Returns ErrNeighbors on lookup failure.
func (w *walker) enqueueNeighbors(item queueItem) error {
	neighbors, err := w.graph.NeighborIDs(item.id)
	if err != nil {
		return fmt.Errorf("%w: failed to get neighbors of %q: %v", ErrNeighbors, item.id, err)
	}
	for _, nbr := range neighbors {
		nextDepth := item.depth + 1
		if w.opts.MaxDepth > 0 && nextDepth > w.opts.MaxDepth {
			continue
		}
		if !w.visited[nbr] {
			w.enqueue(nbr, nextDepth)
		}
	}
	return nil
}
