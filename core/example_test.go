package core_test

import (
	"fmt"

	"github.com/arborbayes/bnkit/core"
)

// ExampleGraph demonstrates basic creation, mutation, and queries.
func ExampleGraph() {
	// 1) Create an undirected, unweighted graph:
	g := core.NewGraph()

	// 2) Add edges (auto-adds vertices A, B, C):
	g.AddEdge("A", "B", 0)
	g.AddEdge("B", "C", 0)
	g.AddEdge("C", "A", 0)

	// 3) Inspect vertices and edges:
	fmt.Println("Vertices:", g.Vertices())
	fmt.Println("Edge B→A exists?", g.HasEdge("B", "A"))

	// 4) Remove a vertex and its edges:
	g.RemoveVertex("B")
	fmt.Println("After removing B, vertices:", g.Vertices())
	fmt.Println("Edge A→B exists?", g.HasEdge("A", "B"))

	// Output:
	// Vertices: [A B C]
	// Edge B→A exists? true
	// After removing B, vertices: [A C]
	// Edge A→B exists? false
}

// ExampleGraph_basic shows how to add and remove vertices.
func ExampleGraph_basic() {
	// Create an undirected, weighted graph
	g := core.NewGraph(core.WithWeighted())

	// Add an edge with weight 5 (auto-adds vertices)
	g.AddEdge("A", "B", 5)
	// We now have 2 vertices and the mirror edge exists in undirected mode
	fmt.Println(len(g.Vertices()), g.HasEdge("B", "A"))

	// Remove vertex A and all its edges
	g.RemoveVertex("A")
	fmt.Println(len(g.Vertices()), g.HasVertex("A"))

	// Output:
	// 2 true
	// 1 false
}

// ExampleGraph_loops demonstrates self-loops.
func ExampleGraph_loops() {
	// Undirected, unweighted graph with self-loops and multi-edges allowed.
	g := core.NewGraph(core.WithLoops(), core.WithMultiEdges())

	// Add two self-loops.
	g.AddEdge("X", "X", 0)
	g.AddEdge("X", "X", 0)

	edges, _ := g.Neighbors("X")
	fmt.Println(len(edges))

	// Output:
	// 2
}
