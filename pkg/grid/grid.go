package grid

import (
	"fmt"
	"strings"

	"github.com/matzehuels/beamsplit/pkg/errors"
)

// Input markers.
const (
	SourceMark   = 'S'
	SplitterMark = '^'
	EmptyMark    = '.'
)

// Kind classifies a grid cell.
type Kind uint8

const (
	// Empty cells are not modeled; signals pass straight through.
	Empty Kind = iota
	// Splitter cells forward a signal left and right exactly once.
	Splitter
	// Source is the single origin cell.
	Source
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case Splitter:
		return "splitter"
	case Source:
		return "source"
	default:
		return "empty"
	}
}

// Modeled reports whether cells of this kind take part in the simulation.
func (k Kind) Modeled() bool { return k != Empty }

// Coord addresses a cell. Row grows downward, Col grows rightward.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// String formats the coordinate as "row,col".
func (c Coord) String() string { return fmt.Sprintf("%d,%d", c.Row, c.Col) }

// Grid is an immutable rows x cols matrix of cell kinds.
// The zero value is not usable; create grids with Parse or New.
type Grid struct {
	rows, cols int
	cells      []Kind
	source     Coord
	splitters  int
}

// Parse reads grid text. Lines may end in "\n" or "\r\n" and a single
// trailing newline is ignored.
//
// Parse returns EMPTY_GRID for blank input, RAGGED_ROWS when a row's width
// differs from the first row, MISSING_SOURCE when no 'S' is present and
// MULTIPLE_SOURCES when more than one is.
func Parse(text string) (*Grid, error) {
	lines := splitLines(text)
	if len(lines) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyGrid, "grid has no rows")
	}
	if len(lines[0]) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyGrid, "first row is empty")
	}

	cols := len(lines[0])
	g := &Grid{
		rows:  len(lines),
		cols:  cols,
		cells: make([]Kind, len(lines)*cols),
	}

	found := false
	for r, line := range lines {
		if len(line) != cols {
			return nil, errors.New(errors.ErrCodeRaggedRows,
				"row %d has width %d, want %d", r, len(line), cols)
		}
		for c := 0; c < cols; c++ {
			switch line[c] {
			case SourceMark:
				if found {
					return nil, errors.New(errors.ErrCodeMultipleSources,
						"second source at %d,%d (first at %s)", r, c, g.source)
				}
				found = true
				g.source = Coord{Row: r, Col: c}
				g.cells[r*cols+c] = Source
			case SplitterMark:
				g.cells[r*cols+c] = Splitter
				g.splitters++
			}
		}
	}

	if !found {
		return nil, errors.New(errors.ErrCodeMissingSource,
			"no %q marker in %d rows", SourceMark, g.rows)
	}
	return g, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level fixtures.
func MustParse(text string) *Grid {
	g, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return g
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Size returns rows*cols, the length of per-cell side tables.
func (g *Grid) Size() int { return len(g.cells) }

// Source returns the source coordinate.
func (g *Grid) Source() Coord { return g.source }

// SplitterCount returns the number of splitter cells.
func (g *Grid) SplitterCount() int { return g.splitters }

// InBounds reports whether (row, col) lies inside the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// Index returns the flat index of (row, col). The caller must ensure the
// coordinate is in bounds.
func (g *Grid) Index(row, col int) int { return row*g.cols + col }

// Coord converts a flat index back to a coordinate.
func (g *Grid) Coord(idx int) Coord { return Coord{Row: idx / g.cols, Col: idx % g.cols} }

// At returns the kind at (row, col), or Empty when out of bounds.
func (g *Grid) At(row, col int) Kind {
	if !g.InBounds(row, col) {
		return Empty
	}
	return g.cells[g.Index(row, col)]
}

// KindAt returns the kind at a flat index.
func (g *Grid) KindAt(idx int) Kind { return g.cells[idx] }

// Splitters returns the coordinates of all splitters in row-major order.
func (g *Grid) Splitters() []Coord {
	out := make([]Coord, 0, g.splitters)
	for i, k := range g.cells {
		if k == Splitter {
			out = append(out, g.Coord(i))
		}
	}
	return out
}

// String renders the grid back to text using '.' for every empty cell.
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow(g.rows * (g.cols + 1))
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			switch g.cells[g.Index(r, c)] {
			case Source:
				b.WriteByte(SourceMark)
			case Splitter:
				b.WriteByte(SplitterMark)
			default:
				b.WriteByte(EmptyMark)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
