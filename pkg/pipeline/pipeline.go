// Package pipeline runs grid solves for the CLI and the HTTP API.
//
// A solve parses the grid, runs the traversal, resolves path counts and
// applies the unreachable-splitter policy. Results are cached by the
// SHA-256 of the normalized grid text, so the same grid sent with CRLF line
// endings or different filler characters hits the same entry.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Solve(ctx, pipeline.Options{Grid: text})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Splits, res.Paths)
//
// Independent grids can be solved concurrently with [Runner.SolveBatch].
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/beamsplit/pkg/beam"
	"github.com/matzehuels/beamsplit/pkg/cache"
	"github.com/matzehuels/beamsplit/pkg/errors"
	"github.com/matzehuels/beamsplit/pkg/grid"
)

// Options configures one solve.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Grid is the raw grid text.
	Grid string `json:"grid"`

	// Name labels the grid in logs and batch output, usually the file path.
	Name string `json:"name,omitempty"`

	// Unreachable is the unreachable-splitter policy: ignore, warn or error.
	Unreachable string `json:"unreachable,omitempty"`

	// Refresh skips the cache lookup; the fresh result is still stored.
	Refresh bool `json:"refresh,omitempty"`

	// Logger overrides the runner's logger for this solve.
	Logger *log.Logger `json:"-"`

	policy    beam.UnreachablePolicy
	validated bool
}

// ValidateAndSetDefaults checks the grid body and the policy name.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errors.ValidateGridBody(o.Grid); err != nil {
		return err
	}
	p, err := beam.ParseUnreachablePolicy(o.Unreachable)
	if err != nil {
		return err
	}
	o.policy = p
	o.Unreachable = string(p)
	o.validated = true
	return nil
}

// Policy returns the parsed unreachable policy. Call ValidateAndSetDefaults first.
func (o *Options) Policy() beam.UnreachablePolicy { return o.policy }

// ResultKeyOpts returns cache key options for this solve.
func (o *Options) ResultKeyOpts() cache.ResultKeyOpts {
	return cache.ResultKeyOpts{Unreachable: o.Unreachable}
}

// Result contains the outputs of a solve.
type Result struct {
	// RunID identifies this solve; cached results get a fresh ID.
	RunID string `json:"run_id"`
	Name  string `json:"name,omitempty"`

	// GridHash is the SHA-256 of the normalized grid text.
	GridHash string `json:"grid_hash"`

	Rows      int `json:"rows"`
	Cols      int `json:"cols"`
	Splitters int `json:"splitters"`

	beam.Result

	// Unreachable lists splitters no signal reached.
	Unreachable []grid.Coord `json:"unreachable,omitempty"`

	CacheHit bool  `json:"cache_hit"`
	Stats    Stats `json:"stats"`
}

// Stats contains solve timings.
type Stats struct {
	TraverseTime time.Duration `json:"traverse_ns"`
	ResolveTime  time.Duration `json:"resolve_ns"`
}

// BatchItem is the outcome of one grid in a batch.
type BatchItem struct {
	Name   string
	Result *Result
	Err    error
}
