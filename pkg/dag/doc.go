// Package dag provides a directed acyclic graph whose nodes are organized
// into rows, used to hold the dependency graph a beam traversal produces.
//
// # Overview
//
// While a beam travels down a grid, every cell it reaches remembers which
// cells fired into it. Those "parent" relationships form a graph whose edges
// always point from a row to a strictly lower row, so the graph is acyclic
// and sorting nodes by row gives a topological order.
//
// # Basic Usage
//
// Create a graph with [New], add nodes with [DAG.AddNode] and edges with
// [DAG.AddEdge]:
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "0,7", Row: 0, Kind: dag.NodeKindSource})
//	g.AddNode(dag.Node{ID: "2,7", Row: 2, Kind: dag.NodeKindSplitter})
//	g.AddEdge(dag.Edge{From: "0,7", To: "2,7"})
//
// Query the structure with [DAG.Parents], [DAG.Sinks] and
// [DAG.NodesInRow]. [DAG.Validate] checks that every edge points downward,
// which also rules out cycles.
//
// # Path Counting
//
// [CountPaths] computes, for every node, the number of distinct paths from a
// root by summing parent counts in row order. It works on any valid DAG and
// is independent of the beam engine, which makes it a useful cross-check for
// the engine's own resolution pass.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Callers must synchronize
// access if multiple goroutines read or modify the same graph.
package dag
