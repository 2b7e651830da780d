package dag_test

import (
	"fmt"

	"github.com/matzehuels/beamsplit/pkg/dag"
)

func ExampleDAG_basic() {
	// A source fires into a splitter, which feeds one collector.
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "S", Row: 0, Kind: dag.NodeKindSource})
	_ = g.AddNode(dag.Node{ID: "A", Row: 2})
	_ = g.AddNode(dag.Node{ID: "exit", Row: 5, Kind: dag.NodeKindCollector})
	_ = g.AddEdge(dag.Edge{From: "S", To: "A"})
	_ = g.AddEdge(dag.Edge{From: "A", To: "exit"})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Rows:", g.RowIDs())
	fmt.Println("Valid:", g.Validate() == nil)
	// Output:
	// Nodes: 3
	// Edges: 2
	// Rows: [0 2 5]
	// Valid: true
}

func ExampleDAG_traversal() {
	// A splitter feeding two lower splitters.
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "top", Row: 0})
	_ = g.AddNode(dag.Node{ID: "left", Row: 2})
	_ = g.AddNode(dag.Node{ID: "right", Row: 2})
	_ = g.AddEdge(dag.Edge{From: "top", To: "left"})
	_ = g.AddEdge(dag.Edge{From: "top", To: "right"})

	fmt.Println("Parents of left:", g.Parents("left"))
	fmt.Println("Sinks:", dag.NodeIDs(g.Sinks()))
	// Output:
	// Parents of left: [top]
	// Sinks: [left right]
}

func ExampleCountPaths() {
	// Diamond: two routes from S reach the bottom collector.
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "S", Row: 0, Kind: dag.NodeKindSource})
	_ = g.AddNode(dag.Node{ID: "L", Row: 2})
	_ = g.AddNode(dag.Node{ID: "R", Row: 2})
	_ = g.AddNode(dag.Node{ID: "out", Row: 4, Kind: dag.NodeKindCollector})
	_ = g.AddEdge(dag.Edge{From: "S", To: "L"})
	_ = g.AddEdge(dag.Edge{From: "S", To: "R"})
	_ = g.AddEdge(dag.Edge{From: "L", To: "out"})
	_ = g.AddEdge(dag.Edge{From: "R", To: "out"})

	counts := dag.CountPaths(g, "S")
	fmt.Println("Paths to out:", counts["out"])
	// Output:
	// Paths to out: 2
}
