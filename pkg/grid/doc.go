// Package grid loads the text form of a beam grid into a fixed-size,
// row-major cell matrix.
//
// A grid is a rectangle of characters, one row per line:
//
//	.......S.......
//	...............
//	.......^.......
//
// 'S' marks the single source, '^' marks a splitter, and every other
// character is empty space that a signal passes through. Only the source and
// splitters are modeled cells; empty cells carry no state.
//
// Cells are stored in a flat slice addressed by [Grid.Index], so other
// packages can keep per-cell side tables (state, parents, path counts) in
// plain slices of the same length instead of holding pointers into the grid.
//
// [Parse] validates the whole input before returning: empty input, rows of
// different widths, a missing source and a second source are all rejected
// with coded errors from the errors package. The grid's shape never changes
// after Parse returns.
package grid
