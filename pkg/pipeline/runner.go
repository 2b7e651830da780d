package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/beamsplit/pkg/beam"
	"github.com/matzehuels/beamsplit/pkg/cache"
	"github.com/matzehuels/beamsplit/pkg/dag"
	"github.com/matzehuels/beamsplit/pkg/errors"
	"github.com/matzehuels/beamsplit/pkg/grid"
	dagio "github.com/matzehuels/beamsplit/pkg/io"
	"github.com/matzehuels/beamsplit/pkg/observability"
)

// Runner encapsulates solving with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL applies to stored results; zero means cache.TTLResult.
	TTL time.Duration

	// OnBatchItem, when set, is called from SolveBatch workers as each
	// grid finishes. It must be safe for concurrent use.
	OnBatchItem func(BatchItem)
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If logger is nil, log output is discarded.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Solve computes split count, path total and exit columns for opts.Grid.
//
// A cached result is returned with CacheHit set unless opts.Refresh is set.
// Malformed grids fail before any simulation. With the error policy a grid
// holding unreachable splitters fails with UNREACHABLE_SPLITTER and nothing
// is cached.
func (r *Runner) Solve(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := r.logger(opts)

	g, err := grid.Parse(opts.Grid)
	if err != nil {
		return nil, err
	}
	gridHash := cache.Hash([]byte(g.String()))
	key := r.Keyer.ResultKey(gridHash, opts.ResultKeyOpts())

	if !opts.Refresh {
		if res, ok := r.cachedResult(ctx, key); ok {
			res.RunID = uuid.NewString()
			res.Name = opts.Name
			res.CacheHit = true
			logger.Debug("cache hit", "grid", opts.Name, "key", key)
			r.reportUnreachable(ctx, gridHash, opts, res.Unreachable)
			return res, nil
		}
	}

	res, err := r.simulate(ctx, g, gridHash, opts)
	if err != nil {
		return nil, err
	}

	logger.Info("solved grid",
		"grid", opts.Name,
		"splits", res.Splits,
		"paths", res.Paths,
		"exit_columns", res.ExitColumns,
		"duration", res.Stats.TraverseTime+res.Stats.ResolveTime)

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
			logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "result", len(data))
		}
	}
	return res, nil
}

func (r *Runner) simulate(ctx context.Context, g *grid.Grid, gridHash string, opts Options) (*Result, error) {
	hooks := observability.Pipeline()
	hooks.OnSolveStart(ctx, gridHash, g.Rows(), g.Cols())

	start := time.Now()
	e := beam.New(g)
	if err := e.Run(); err != nil {
		hooks.OnSolveComplete(ctx, gridHash, 0, 0, time.Since(start), err)
		return nil, err
	}
	traversed := time.Now()
	if _, err := e.Resolve(); err != nil {
		hooks.OnSolveComplete(ctx, gridHash, e.Splits(), 0, time.Since(start), err)
		return nil, err
	}
	resolved := time.Now()

	unreachable := e.Unreachable()
	r.reportUnreachable(ctx, gridHash, opts, unreachable)
	if err := opts.Policy().Check(unreachable); err != nil {
		hooks.OnSolveComplete(ctx, gridHash, e.Splits(), e.Total(), resolved.Sub(start), err)
		return nil, err
	}

	res := &Result{
		RunID:     uuid.NewString(),
		Name:      opts.Name,
		GridHash:  gridHash,
		Rows:      g.Rows(),
		Cols:      g.Cols(),
		Splitters: g.SplitterCount(),
		Result:    e.Result(),
		Stats: Stats{
			TraverseTime: traversed.Sub(start),
			ResolveTime:  resolved.Sub(traversed),
		},
	}
	if opts.Policy() != beam.UnreachableIgnore {
		res.Unreachable = unreachable
	}
	hooks.OnSolveComplete(ctx, gridHash, res.Splits, res.Paths, resolved.Sub(start), nil)
	return res, nil
}

// reportUnreachable emits the unreachable hook and, under the warn policy,
// a log warning. Cached results carry their list, so hits report it too.
func (r *Runner) reportUnreachable(ctx context.Context, gridHash string, opts Options, unreachable []grid.Coord) {
	if len(unreachable) == 0 {
		return
	}
	observability.Pipeline().OnUnreachable(ctx, gridHash, len(unreachable))
	if opts.Policy() == beam.UnreachableWarn {
		r.logger(opts).Warn("unreachable splitters",
			"grid", opts.Name,
			"count", len(unreachable),
			"first", unreachable[0].String())
	}
}

func (r *Runner) cachedResult(ctx context.Context, key string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "result")
		return nil, false
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		observability.Cache().OnCacheMiss(ctx, "result")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "result")
	return &res, true
}

// GraphWithCacheInfo builds the dependency DAG of opts.Grid with resolved
// path counts and reports whether it came from the cache. The unreachable
// policy applies as in Solve; graphs are cached per policy, so a stored
// graph has already passed it.
func (r *Runner) GraphWithCacheInfo(ctx context.Context, opts Options) (*dag.DAG, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	g, err := grid.Parse(opts.Grid)
	if err != nil {
		return nil, false, err
	}
	gridHash := cache.Hash([]byte(g.String()))
	key := r.Keyer.GraphKey(gridHash, opts.ResultKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if d, err := dagio.ReadJSON(bytes.NewReader(data)); err == nil {
				observability.Cache().OnCacheHit(ctx, "graph")
				return d, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "graph")
	}

	e, err := beam.SimulateGrid(g)
	if err != nil {
		return nil, false, err
	}
	unreachable := e.Unreachable()
	r.reportUnreachable(ctx, gridHash, opts, unreachable)
	if err := opts.Policy().Check(unreachable); err != nil {
		return nil, false, err
	}
	d, err := e.Graph()
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "export graph")
	}

	if data, err := dagio.MarshalJSON(d); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLGraph); err == nil {
			observability.Cache().OnCacheSet(ctx, "graph", len(data))
		}
	}
	r.logger(opts).Debug("built graph", "grid", opts.Name, "nodes", d.NodeCount(), "edges", d.EdgeCount())
	return d, false, nil
}

// Graph is a convenience wrapper that calls GraphWithCacheInfo and discards the cache hit info.
func (r *Runner) Graph(ctx context.Context, opts Options) (*dag.DAG, error) {
	d, _, err := r.GraphWithCacheInfo(ctx, opts)
	return d, err
}

// SolveBatch solves every grid with at most limit solves in flight and
// returns one item per input, in input order. A failing grid does not stop
// the others; only context cancellation aborts the batch.
func (r *Runner) SolveBatch(ctx context.Context, inputs []Options, limit int) ([]BatchItem, error) {
	items := make([]BatchItem, len(inputs))
	eg, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}

	for i, opts := range inputs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := r.Solve(ctx, opts)
			items[i] = BatchItem{Name: opts.Name, Result: res, Err: err}
			if r.OnBatchItem != nil {
				r.OnBatchItem(items[i])
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.TTLResult
}

// logger prefers the per-call logger over the runner's.
func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}
