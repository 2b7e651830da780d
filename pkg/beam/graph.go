package beam

import (
	"fmt"

	"github.com/matzehuels/beamsplit/pkg/dag"
	"github.com/matzehuels/beamsplit/pkg/errors"
	"github.com/matzehuels/beamsplit/pkg/grid"
)

// Graph metadata keys.
const (
	MetaPaths = "paths"
	MetaState = "state"
	MetaRows  = "rows"
	MetaCols  = "cols"
	MetaTotal = "total_paths"
)

// NodeID returns the graph node ID of the cell at c.
func NodeID(c grid.Coord) string { return c.String() }

// CollectorID returns the graph node ID of column col's collector.
func CollectorID(col int) string { return fmt.Sprintf("exit:%d", col) }

// Graph exports the parent edges recorded by the traversal as a DAG.
//
// Nodes are the source, every reached splitter, and one collector per exit
// column placed on the boundary row (row == grid rows). Edges run from the
// firing cell to the cell it reached, in firing order. When the engine is
// resolved, every node carries its path count under [MetaPaths] and the
// graph carries the total under [MetaTotal].
//
// Graph returns NOT_TRAVERSED when called before Run.
func (e *Engine) Graph() (*dag.DAG, error) {
	if !e.Traversed() {
		return nil, errors.New(errors.ErrCodeNotTraversed, "graph requested before traversal")
	}

	g := dag.New(dag.Metadata{
		MetaRows: uint64(e.grid.Rows()),
		MetaCols: uint64(e.grid.Cols()),
	})
	if e.Resolved() {
		g.Meta()[MetaTotal] = e.total
	}

	src := e.sourceIndex()
	for idx := range e.state {
		if idx != src && len(e.parents[idx]) == 0 {
			continue
		}
		c := e.grid.Coord(idx)
		kind := dag.NodeKindSplitter
		if idx == src {
			kind = dag.NodeKindSource
		}
		node := dag.Node{
			ID:   NodeID(c),
			Row:  c.Row,
			Col:  c.Col,
			Kind: kind,
			Meta: dag.Metadata{MetaState: e.state[idx].String()},
		}
		if e.Resolved() {
			node.Meta[MetaPaths] = e.paths[idx]
		}
		if err := g.AddNode(node); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "add node %s", node.ID)
		}
	}

	for col, out := range e.exits {
		if !out {
			continue
		}
		node := dag.Node{
			ID:   CollectorID(col),
			Row:  e.grid.Rows(),
			Col:  col,
			Kind: dag.NodeKindCollector,
			Meta: dag.Metadata{},
		}
		if e.Resolved() {
			node.Meta[MetaPaths] = e.collectorPaths(col)
		}
		if err := g.AddNode(node); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "add node %s", node.ID)
		}
	}

	for idx, parents := range e.parents {
		to := NodeID(e.grid.Coord(idx))
		for _, p := range parents {
			if err := g.AddEdge(dag.Edge{From: NodeID(e.grid.Coord(p)), To: to}); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "add edge to %s", to)
			}
		}
	}
	for col, parents := range e.collectors {
		to := CollectorID(col)
		for _, p := range parents {
			if err := g.AddEdge(dag.Edge{From: NodeID(e.grid.Coord(p)), To: to}); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "add edge to %s", to)
			}
		}
	}

	return g, nil
}
