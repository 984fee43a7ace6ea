// Package dfs implements topological sort on a core.Graph.
//
// What:
//   - TopologicalSort: computes a linear ordering of vertices in a directed
//     acyclic graph (DAG), returning ErrCycleDetected if cycles exist.
//
// Why:
//   - network.Compile uses it to validate acyclicity and to produce a
//     parent-before-child iteration order for factor construction.
//
// Key Types & Constants:
//
//   - VertexState: White, Gray, Black (visitation markers)
//
// Complexity:
//
//   - TopologicalSort: Time O(V+E), Memory O(V)
//
// Errors:
//
//   - ErrGraphNil      graph pointer is nil
//   - ErrCycleDetected cycle discovered during the sort
//
// Functions:
//
//   - TopologicalSort(g \*core.Graph, opts ...TopoOption) (\[]string, error)
//     return topological order or ErrCycleDetected
//   - WithCancelContext(ctx) sets a cancellation context on the traversal
package dfs
