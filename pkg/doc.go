// Package pkg provides the core libraries for beamsplit.
//
// # Overview
//
// Beamsplit simulates a signal entering a character grid at the source S
// and travelling downward. Every splitter ^ it meets emits two new signals
// into the neighbouring columns. The simulation reports how many splits
// happen, how many distinct paths reach the bottom edge and through which
// columns they leave.
//
// The pkg directory is organized as:
//
//  1. [grid] - Parsing and validating the grid text
//  2. [beam] - The traversal engine, path counting and graph export
//  3. [dag] - The directed acyclic graph the traversal records
//  4. [io] - JSON import and export of graphs
//  5. [pipeline] - Orchestration (parse, solve, cache) for CLI and server
//  6. [cache] - File, Redis and MongoDB result caches
//  7. [config] - TOML, dotenv and environment configuration
//  8. [errors] - Coded errors shared by all layers
//  9. [observability] - Hooks for logging and metrics
//
// # Architecture
//
// The typical data flow through beamsplit:
//
//	grid text
//	    ↓
//	[grid] package (parse + validate)
//	    ↓
//	[beam] package (traverse, then resolve path counts)
//	    ↓
//	[dag] package (recorded parent edges)
//	    ↓
//	splits, paths, exit columns, JSON graph
//
// # Quick Start
//
//	res, err := beam.ComputeBoth(text)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Splits, res.Paths)
//
// [grid]: github.com/matzehuels/beamsplit/pkg/grid
// [beam]: github.com/matzehuels/beamsplit/pkg/beam
// [dag]: github.com/matzehuels/beamsplit/pkg/dag
// [io]: github.com/matzehuels/beamsplit/pkg/io
// [pipeline]: github.com/matzehuels/beamsplit/pkg/pipeline
// [cache]: github.com/matzehuels/beamsplit/pkg/cache
// [config]: github.com/matzehuels/beamsplit/pkg/config
// [errors]: github.com/matzehuels/beamsplit/pkg/errors
// [observability]: github.com/matzehuels/beamsplit/pkg/observability
package pkg
