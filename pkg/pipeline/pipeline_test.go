package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/beamsplit/pkg/beam"
	"github.com/matzehuels/beamsplit/pkg/cache"
	"github.com/matzehuels/beamsplit/pkg/dag"
	"github.com/matzehuels/beamsplit/pkg/errors"
	"github.com/matzehuels/beamsplit/pkg/observability"
)

const smallGrid = ".......\n...S...\n...^...\n..^.^..\n.......\n"

// unreachableGrid has a splitter at 2,0 that nothing reaches.
const unreachableGrid = "..S..\n.....\n^.^..\n.....\n.^.^.\n.....\n..^..\n"

// memCache is an in-memory cache.Cache that counts calls.
type memCache struct {
	mu         sync.Mutex
	data       map[string][]byte
	gets, sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "beam", "testdata", name))
	require.NoError(t, err)
	return string(data)
}

func TestSolve(t *testing.T) {
	r := NewRunner(nil, nil, nil)

	res, err := r.Solve(context.Background(), Options{Grid: smallGrid, Name: "small"})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), res.Splits)
	assert.Equal(t, uint64(4), res.Paths)
	assert.Equal(t, 3, res.ExitColumns)
	assert.Equal(t, 5, res.Rows)
	assert.Equal(t, 7, res.Cols)
	assert.Equal(t, 3, res.Splitters)
	assert.Equal(t, "small", res.Name)
	assert.Len(t, res.GridHash, 64)
	assert.NotEmpty(t, res.RunID)
	assert.False(t, res.CacheHit)
}

func TestSolveGolden(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	tests := []struct {
		file          string
		splits, paths uint64
	}{
		{"example.txt", 21, 40},
		{"sparse.txt", 102, 3967},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			res, err := r.Solve(context.Background(), Options{Grid: readFixture(t, tt.file)})
			require.NoError(t, err)
			assert.Equal(t, tt.splits, res.Splits)
			assert.Equal(t, tt.paths, res.Paths)
		})
	}
}

func TestSolveCaching(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, nil)

	first, err := r.Solve(ctx, Options{Grid: smallGrid})
	require.NoError(t, err)
	assert.False(t, first.CacheHit)
	assert.Equal(t, 1, c.sets)

	// CRLF line endings normalize to the same grid.
	crlf := bytes.ReplaceAll([]byte(smallGrid), []byte("\n"), []byte("\r\n"))
	second, err := r.Solve(ctx, Options{Grid: string(crlf)})
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.GridHash, second.GridHash)
	assert.Equal(t, first.Result, second.Result)
	assert.NotEqual(t, first.RunID, second.RunID)

	third, err := r.Solve(ctx, Options{Grid: smallGrid, Refresh: true})
	require.NoError(t, err)
	assert.False(t, third.CacheHit)
	assert.Equal(t, 2, c.sets)

	// A different policy is a different key.
	fourth, err := r.Solve(ctx, Options{Grid: smallGrid, Unreachable: "warn"})
	require.NoError(t, err)
	assert.False(t, fourth.CacheHit)
}

func TestSolveUnreachablePolicy(t *testing.T) {
	ctx := context.Background()

	var buf bytes.Buffer
	logger := log.New(&buf)
	r := NewRunner(nil, nil, logger)

	res, err := r.Solve(ctx, Options{Grid: unreachableGrid})
	require.NoError(t, err)
	assert.Equal(t, uint64(4), res.Splits)
	assert.Equal(t, uint64(6), res.Paths)
	assert.Empty(t, res.Unreachable)
	assert.NotContains(t, buf.String(), "unreachable")

	res, err = r.Solve(ctx, Options{Grid: unreachableGrid, Unreachable: "warn"})
	require.NoError(t, err)
	assert.Len(t, res.Unreachable, 1)
	assert.Equal(t, 2, res.Unreachable[0].Row)
	assert.Equal(t, 0, res.Unreachable[0].Col)
	assert.Contains(t, buf.String(), "unreachable splitters")

	c := newMemCache()
	r = NewRunner(c, nil, nil)
	_, err = r.Solve(ctx, Options{Grid: unreachableGrid, Unreachable: "error"})
	assert.True(t, errors.Is(err, errors.ErrCodeUnreachableSplitter))
	assert.Zero(t, c.sets, "failed solves must not be cached")

	_, err = r.Solve(ctx, Options{Grid: unreachableGrid, Unreachable: "loud"})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

// unreachableCounter records OnUnreachable calls.
type unreachableCounter struct {
	observability.NoopPipelineHooks
	calls int
}

func (h *unreachableCounter) OnUnreachable(context.Context, string, int) { h.calls++ }

func TestSolveCacheHitReportsUnreachable(t *testing.T) {
	hooks := &unreachableCounter{}
	observability.SetPipelineHooks(hooks)
	t.Cleanup(observability.Reset)

	ctx := context.Background()
	var buf bytes.Buffer
	r := NewRunner(newMemCache(), nil, log.New(&buf))

	first, err := r.Solve(ctx, Options{Grid: unreachableGrid, Unreachable: "warn"})
	require.NoError(t, err)
	require.False(t, first.CacheHit)

	second, err := r.Solve(ctx, Options{Grid: unreachableGrid, Unreachable: "warn"})
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	assert.Len(t, second.Unreachable, 1)

	assert.Equal(t, 2, hooks.calls)
	assert.Equal(t, 2, strings.Count(buf.String(), "unreachable splitters"))
}

func TestGraphUnreachablePolicy(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	var buf bytes.Buffer
	r := NewRunner(c, nil, log.New(&buf))

	// A graph cached under the default policy must not satisfy a stricter one.
	_, _, err := r.GraphWithCacheInfo(ctx, Options{Grid: unreachableGrid})
	require.NoError(t, err)
	sets := c.sets

	d, _, err := r.GraphWithCacheInfo(ctx, Options{Grid: unreachableGrid, Unreachable: "error"})
	assert.Nil(t, d)
	assert.True(t, errors.Is(err, errors.ErrCodeUnreachableSplitter), "err = %v", err)
	assert.Equal(t, sets, c.sets, "rejected graphs must not be cached")

	_, err = r.Graph(ctx, Options{Grid: unreachableGrid, Unreachable: "error", Refresh: true})
	assert.True(t, errors.Is(err, errors.ErrCodeUnreachableSplitter))

	_, _, err = r.GraphWithCacheInfo(ctx, Options{Grid: unreachableGrid, Unreachable: "warn"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "unreachable splitters")

	// Grids without unreachable splitters pass and are cached under the policy.
	_, hit, err := r.GraphWithCacheInfo(ctx, Options{Grid: smallGrid, Unreachable: "error"})
	require.NoError(t, err)
	assert.False(t, hit)
	_, hit, err = r.GraphWithCacheInfo(ctx, Options{Grid: smallGrid, Unreachable: "error"})
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestSolveInvalidInput(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	tests := []struct {
		name string
		grid string
		code errors.Code
	}{
		{"empty", "", errors.ErrCodeEmptyGrid},
		{"blank", "\n\n", errors.ErrCodeEmptyGrid},
		{"ragged", "S..\n..\n", errors.ErrCodeRaggedRows},
		{"no source", "...\n.^.\n", errors.ErrCodeMissingSource},
		{"two sources", "S.S\n...\n", errors.ErrCodeMultipleSources},
		{"null byte", "S\x00.\n", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Solve(context.Background(), Options{Grid: tt.grid})
			assert.Nil(t, res)
			assert.Equal(t, tt.code, errors.GetCode(err), "err = %v", err)
		})
	}
}

func TestSolveCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(nil, nil, nil).Solve(ctx, Options{Grid: smallGrid})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGraph(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, nil)

	d, hit, err := r.GraphWithCacheInfo(ctx, Options{Grid: smallGrid})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, uint64(4), d.Meta()[beam.MetaTotal])
	assert.Equal(t, uint64(4), dag.TotalPaths(d, "1,3", d.Sinks()))

	cached, hit, err := r.GraphWithCacheInfo(ctx, Options{Grid: smallGrid})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, d.NodeCount(), cached.NodeCount())
	assert.Equal(t, d.EdgeCount(), cached.EdgeCount())
	assert.Equal(t, uint64(4), cached.Meta()[beam.MetaTotal])

	// Decoded metadata must keep the types the engine produced.
	assert.Equal(t, d.Meta(), cached.Meta())
	for _, n := range d.Nodes() {
		got, ok := cached.Node(n.ID)
		require.True(t, ok, n.ID)
		assert.Equal(t, n.Meta, got.Meta, n.ID)
	}
}

func TestSolveBatch(t *testing.T) {
	r := NewRunner(cache.NewNullCache(), nil, nil)
	var (
		mu   sync.Mutex
		seen []string
	)
	r.OnBatchItem = func(it BatchItem) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, it.Name)
	}
	inputs := []Options{
		{Name: "small", Grid: smallGrid},
		{Name: "broken", Grid: "...\n"},
		{Name: "example", Grid: readFixture(t, "example.txt")},
	}

	items, err := r.SolveBatch(context.Background(), inputs, 2)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.ElementsMatch(t, []string{"small", "broken", "example"}, seen)

	assert.Equal(t, "small", items[0].Name)
	require.NoError(t, items[0].Err)
	assert.Equal(t, uint64(4), items[0].Result.Paths)

	assert.True(t, errors.Is(items[1].Err, errors.ErrCodeMissingSource))
	assert.Nil(t, items[1].Result)

	require.NoError(t, items[2].Err)
	assert.Equal(t, uint64(40), items[2].Result.Paths)
}

func TestSolveBatchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(nil, nil, nil).SolveBatch(ctx, []Options{{Grid: smallGrid}}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileOptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grid.txt")
	require.NoError(t, os.WriteFile(path, []byte(smallGrid), 0o644))

	opts, err := FileOptions([]string{path}, Options{Unreachable: "warn"})
	require.NoError(t, err)
	require.Len(t, opts, 1)
	assert.Equal(t, smallGrid, opts[0].Grid)
	assert.Equal(t, path, opts[0].Name)
	assert.Equal(t, "warn", opts[0].Unreachable)

	_, err = FileOptions([]string{filepath.Join(dir, "missing.txt")}, Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))

	_, err = ReadGridFile("")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidPath))
}
