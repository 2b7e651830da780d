// Package beam simulates a signal travelling down the columns of a grid and
// splitting at marked cells, and counts the distinct paths it can take.
//
// # Model
//
// The source emits a signal straight down its column. A signal travels
// downward until it meets the first modeled cell below it:
//
//   - A splitter reached for the first time becomes Energized and is queued.
//     When it is split it becomes Spent and fires two new signals, one in
//     the column to its left and one in the column to its right, both
//     starting just below its own row.
//   - A splitter that is already Energized or Spent absorbs the signal
//     without being queued again, but still records the firing cell as a
//     parent.
//   - A signal that meets nothing leaves through the bottom edge. Its column
//     is flagged as an exit column and the firing cell becomes a parent of
//     that column's virtual collector.
//   - A signal fired past the left or right wall has no column to travel in
//     and is dropped. It is counted as a side exit and contributes no path.
//
// Every cell moves through [Ready] -> [Energized] -> [Spent] exactly once, so
// a traversal performs at most one split per splitter.
//
// # Path counts
//
// Each parent edge points from a smaller row to a strictly larger one, so
// resolving cells in row-major order visits every parent before its
// children. The source counts as one path; every other cell's count is the
// sum of its parents' counts, and the total is the sum over all collectors.
// Counts are uint64: real inputs exceed 2^44 paths.
//
// # Usage
//
// For one-shot answers use [ComputeSplits], [ComputeTotalPaths] or
// [ComputeBoth]. To inspect the traversal, drive an [Engine] directly:
//
//	g, err := grid.Parse(text)
//	if err != nil {
//	    return err
//	}
//	e := beam.New(g)
//	if err := e.Run(); err != nil {
//	    return err
//	}
//	total, err := e.Resolve()
//
// An Engine is not safe for concurrent use, but engines share no state, so
// separate grids can be simulated in parallel.
package beam
