// Package bfs provides a breadth-first search over a core.Graph, returning
// unweighted visit order up to an optional depth limit.
//
// What
//
//   - Explore vertices in non-decreasing distance (edge count) from a start vertex.
//   - Returns a BFSResult containing Order: the visit sequence.
//   - Honors MaxDepth limit (d>0) or explicit "no limit" (d==0).
//   - Respects directed, undirected, and mixed-direction graphs.
//
// Why
//
//   - inference's elimination-order heuristic uses a depth-1 BFS to read off
//     a variable's current neighbourhood in the running interaction graph.
//
// Determinism
//
//	Because core.NeighborIDs returns neighbor IDs sorted lexicographically, and
//	BFS enqueues neighbors in that order, the visit sequence is fully reproducible.
//
// Complexity (V = |Vertices|, E = |Edges|)
//
//   - Time:   O(V + E)   (each vertex and edge seen at most once)
//   - Memory: O(V)       (for queue and visited set)
//
// Usage
//
//	result, err := bfs.BFS(g, "start", bfs.WithMaxDepth(1))
//	if err != nil {
//	    // ErrGraphNil, ErrStartVertexNotFound, ErrWeightedGraph, ErrOptionViolation, ErrNeighbors
//	}
//
// Options
//
//   - DefaultOptions(): no depth limit.
//   - WithMaxDepth(d):  stop exploring beyond depth d (>0).
//
// Errors
//
//   - ErrGraphNil             if the graph pointer is nil.
//   - ErrStartVertexNotFound  if the start vertex does not exist.
//   - ErrWeightedGraph        if run on a weighted graph.
//   - ErrOptionViolation      if invalid Option (e.g. negative MaxDepth).
//   - ErrNeighbors            if core.Neighbors fails for any vertex.
package bfs
