package beam

import (
	"github.com/matzehuels/beamsplit/pkg/grid"
)

// Result summarizes one traversal.
type Result struct {
	Splits      uint64 `json:"splits"`       // split events
	Paths       uint64 `json:"paths"`        // distinct source-to-bottom paths
	ExitColumns int    `json:"exit_columns"` // distinct columns a signal left through
	SideExits   uint64 `json:"side_exits"`   // signals fired past a side wall
}

// Result returns the summary of a resolved engine. Paths is zero until
// Resolve has run.
func (e *Engine) Result() Result {
	return Result{
		Splits:      e.splits,
		Paths:       e.total,
		ExitColumns: e.ExitColumns(),
		SideExits:   e.sideExits,
	}
}

// Simulate parses text, runs the traversal and resolves path counts,
// returning the finished engine for inspection.
func Simulate(text string, opts ...Option) (*Engine, error) {
	g, err := grid.Parse(text)
	if err != nil {
		return nil, err
	}
	return SimulateGrid(g, opts...)
}

// SimulateGrid runs the traversal and path resolution on an already
// loaded grid.
func SimulateGrid(g *grid.Grid, opts ...Option) (*Engine, error) {
	e := New(g, opts...)
	if err := e.Run(); err != nil {
		return nil, err
	}
	if _, err := e.Resolve(); err != nil {
		return nil, err
	}
	return e, nil
}

// ComputeSplits returns the number of split events for the grid text.
func ComputeSplits(text string) (uint64, error) {
	g, err := grid.Parse(text)
	if err != nil {
		return 0, err
	}
	e := New(g)
	if err := e.Run(); err != nil {
		return 0, err
	}
	return e.Splits(), nil
}

// ComputeTotalPaths returns the number of distinct source-to-bottom paths
// for the grid text.
func ComputeTotalPaths(text string) (uint64, error) {
	e, err := Simulate(text)
	if err != nil {
		return 0, err
	}
	return e.Total(), nil
}

// ComputeBoth returns split count, path total and exit column count from a
// single traversal.
func ComputeBoth(text string) (Result, error) {
	e, err := Simulate(text)
	if err != nil {
		return Result{}, err
	}
	return e.Result(), nil
}
