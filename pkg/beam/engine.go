package beam

import (
	"github.com/matzehuels/beamsplit/pkg/errors"
	"github.com/matzehuels/beamsplit/pkg/grid"
)

type phase uint8

const (
	phaseFresh phase = iota
	phaseTraversed
	phaseResolved
)

// TransitionFunc observes state transitions of modeled cells.
type TransitionFunc func(c grid.Coord, from, to State)

// Option configures an Engine.
type Option func(*Engine)

// WithTransitionHook registers fn to be called on every state transition.
func WithTransitionHook(fn TransitionFunc) Option {
	return func(e *Engine) { e.onTransition = fn }
}

// Engine owns one grid and the per-cell side tables of a single simulation.
//
// All per-cell data lives in slices indexed by [grid.Grid.Index]; parent
// edges are stored as indices, never as references into the grid.
type Engine struct {
	grid *grid.Grid

	state   []State
	parents [][]int
	paths   []uint64

	// Boundary row below the grid, one entry per column.
	exits      []bool
	collectors [][]int

	queue, next []int

	splits    uint64
	sideExits uint64
	total     uint64
	phase     phase

	onTransition TransitionFunc
}

// New creates an engine for g. The source starts Energized with a path
// count of one; every other cell starts Ready.
func New(g *grid.Grid, opts ...Option) *Engine {
	e := &Engine{
		grid:       g,
		state:      make([]State, g.Size()),
		parents:    make([][]int, g.Size()),
		paths:      make([]uint64, g.Size()),
		exits:      make([]bool, g.Cols()),
		collectors: make([][]int, g.Cols()),
	}
	for _, opt := range opts {
		opt(e)
	}

	src := e.sourceIndex()
	e.state[src] = Energized
	e.paths[src] = 1
	return e
}

// Grid returns the grid the engine simulates.
func (e *Engine) Grid() *grid.Grid { return e.grid }

func (e *Engine) sourceIndex() int {
	s := e.grid.Source()
	return e.grid.Index(s.Row, s.Col)
}

// Run traverses the grid to completion: the source emits down its column,
// then queued splitters are split breadth-wise until no new cell is
// energized. Run may only be called once per engine.
func (e *Engine) Run() error {
	if e.phase != phaseFresh {
		return errors.New(errors.ErrCodeAlreadyTraversed, "traversal already ran")
	}

	src := e.sourceIndex()
	e.transition(src, Spent)
	s := e.grid.Source()
	e.fire(src, s.Row, s.Col)

	for len(e.next) > 0 {
		e.queue, e.next = e.next, e.queue[:0]
		for _, idx := range e.queue {
			e.split(idx)
		}
	}

	e.queue, e.next = nil, nil
	e.phase = phaseTraversed
	return nil
}

// fire sends a signal from cell `from` down column col, starting below row.
func (e *Engine) fire(from, row, col int) {
	if col < 0 || col >= e.grid.Cols() {
		e.sideExits++
		return
	}

	for r := row + 1; r < e.grid.Rows(); r++ {
		idx := e.grid.Index(r, col)
		if !e.grid.KindAt(idx).Modeled() {
			continue
		}
		e.parents[idx] = append(e.parents[idx], from)
		if e.energize(idx) {
			e.next = append(e.next, idx)
		}
		return
	}

	e.exits[col] = true
	e.collectors[col] = append(e.collectors[col], from)
}

func (e *Engine) energize(idx int) bool {
	if e.state[idx] != Ready {
		return false
	}
	e.transition(idx, Energized)
	return true
}

func (e *Engine) split(idx int) {
	if e.state[idx] != Energized {
		return
	}
	e.transition(idx, Spent)
	e.splits++

	c := e.grid.Coord(idx)
	e.fire(idx, c.Row, c.Col-1)
	e.fire(idx, c.Row, c.Col+1)
}

func (e *Engine) transition(idx int, to State) {
	from := e.state[idx]
	e.state[idx] = to
	if e.onTransition != nil {
		e.onTransition(e.grid.Coord(idx), from, to)
	}
}

// Traversed reports whether Run has completed.
func (e *Engine) Traversed() bool { return e.phase >= phaseTraversed }

// Splits returns the number of split events so far.
func (e *Engine) Splits() uint64 { return e.splits }

// SideExits returns the number of signals fired past the left or right wall.
func (e *Engine) SideExits() uint64 { return e.sideExits }

// ExitColumns returns the number of distinct columns a signal left through.
func (e *Engine) ExitColumns() int {
	n := 0
	for _, out := range e.exits {
		if out {
			n++
		}
	}
	return n
}

// ExitMask returns a copy of the per-column exit flags.
func (e *Engine) ExitMask() []bool {
	return append([]bool(nil), e.exits...)
}

// State returns the state of the cell at c. Empty and out-of-bounds cells
// report Ready.
func (e *Engine) State(c grid.Coord) State {
	if !e.grid.InBounds(c.Row, c.Col) {
		return Ready
	}
	return e.state[e.grid.Index(c.Row, c.Col)]
}

// Parents returns the cells whose signals reached c, in firing order. A
// cell appears twice if it reached c twice.
func (e *Engine) Parents(c grid.Coord) []grid.Coord {
	if !e.grid.InBounds(c.Row, c.Col) {
		return nil
	}
	return e.coords(e.parents[e.grid.Index(c.Row, c.Col)])
}

// CollectorParents returns the cells whose signals left through column col.
func (e *Engine) CollectorParents(col int) []grid.Coord {
	if col < 0 || col >= len(e.collectors) {
		return nil
	}
	return e.coords(e.collectors[col])
}

func (e *Engine) coords(idxs []int) []grid.Coord {
	out := make([]grid.Coord, len(idxs))
	for i, idx := range idxs {
		out[i] = e.grid.Coord(idx)
	}
	return out
}

// Unreachable returns the splitters no signal reached, in row-major order.
// Before Run every splitter is unreachable.
func (e *Engine) Unreachable() []grid.Coord {
	var out []grid.Coord
	for idx := range e.state {
		if e.grid.KindAt(idx) == grid.Splitter && e.state[idx] == Ready {
			out = append(out, e.grid.Coord(idx))
		}
	}
	return out
}
