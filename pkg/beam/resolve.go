package beam

import (
	"github.com/matzehuels/beamsplit/pkg/errors"
	"github.com/matzehuels/beamsplit/pkg/grid"
)

// Resolve computes the path count of every modeled cell and returns the
// number of distinct source-to-bottom paths.
//
// Resolve requires a completed Run and returns NOT_TRAVERSED otherwise.
// Each count is written exactly once; later calls return the same total
// without recomputing.
func (e *Engine) Resolve() (uint64, error) {
	switch e.phase {
	case phaseFresh:
		return 0, errors.New(errors.ErrCodeNotTraversed, "resolve called before traversal")
	case phaseResolved:
		return e.total, nil
	}

	// Row-major order is increasing row order, and every parent sits in a
	// strictly smaller row.
	src := e.sourceIndex()
	for idx, parents := range e.parents {
		if idx == src || len(parents) == 0 {
			continue
		}
		var sum uint64
		for _, p := range parents {
			sum += e.paths[p]
		}
		e.paths[idx] = sum
	}

	var total uint64
	for col := range e.collectors {
		total += e.collectorPaths(col)
	}

	e.total = total
	e.phase = phaseResolved
	return total, nil
}

func (e *Engine) collectorPaths(col int) uint64 {
	var sum uint64
	for _, p := range e.collectors[col] {
		sum += e.paths[p]
	}
	return sum
}

// Resolved reports whether Resolve has completed.
func (e *Engine) Resolved() bool { return e.phase == phaseResolved }

// PathsTo returns the number of distinct paths from the source to c.
// It is zero for empty cells, unreached splitters and before Resolve
// (except for the source, which is seeded with one).
func (e *Engine) PathsTo(c grid.Coord) uint64 {
	if !e.grid.InBounds(c.Row, c.Col) {
		return 0
	}
	return e.paths[e.grid.Index(c.Row, c.Col)]
}

// CollectorPaths returns the number of paths leaving through column col.
// It is zero before Resolve.
func (e *Engine) CollectorPaths(col int) uint64 {
	if e.phase != phaseResolved || col < 0 || col >= len(e.collectors) {
		return 0
	}
	return e.collectorPaths(col)
}

// Total returns the resolved path total, or zero before Resolve.
func (e *Engine) Total() uint64 { return e.total }
