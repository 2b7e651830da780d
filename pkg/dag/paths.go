package dag

// CountPaths returns the number of distinct paths from root to every node
// reachable from it. The root counts as one path to itself; nodes not
// reachable from root are absent from the result.
//
// Nodes are visited row by row, which is a topological order for any graph
// that passes [DAG.Validate]. Counts are uint64; wrapping on overflow is the
// caller's concern (grids large enough to overflow do not fit in memory).
func CountPaths(g *DAG, root string) map[string]uint64 {
	counts := make(map[string]uint64)
	if _, ok := g.nodes[root]; !ok {
		return counts
	}
	counts[root] = 1

	for _, row := range g.RowIDs() {
		for _, n := range g.rows[row] {
			if n.ID == root {
				continue
			}
			var sum uint64
			reached := false
			for _, p := range g.incoming[n.ID] {
				if c, ok := counts[p]; ok {
					sum += c
					reached = true
				}
			}
			if reached {
				counts[n.ID] = sum
			}
		}
	}
	return counts
}

// TotalPaths sums CountPaths over the given sink nodes.
func TotalPaths(g *DAG, root string, sinks []*Node) uint64 {
	counts := CountPaths(g, root)
	var total uint64
	for _, s := range sinks {
		total += counts[s.ID]
	}
	return total
}
