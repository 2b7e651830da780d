// Package io provides JSON import and export for beam dependency graphs.
//
// # JSON Format
//
// The format has a graph-level meta object and two arrays:
//
//	{
//	  "meta": {"rows": 5, "cols": 7, "total_paths": 4},
//	  "nodes": [
//	    {"id": "1,3", "row": 1, "col": 3, "kind": "source", "meta": {"paths": 1}},
//	    {"id": "2,3", "row": 2, "col": 3, "kind": "splitter", "meta": {"paths": 1}},
//	    {"id": "exit:1", "row": 5, "col": 1, "kind": "collector", "meta": {"paths": 1}}
//	  ],
//	  "edges": [
//	    {"from": "1,3", "to": "2,3"}
//	  ]
//	}
//
// Nodes are written in the graph's insertion order and edges in firing
// order, so exporting the same traversal twice yields identical bytes.
//
// # Numbers
//
// Path counts exceed the 2^53 range of float64 on large grids. [ReadJSON]
// decodes integral numbers in metadata as uint64 (or int64 when negative)
// so counts survive a round trip exactly.
package io
