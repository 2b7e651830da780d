package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/beamsplit/pkg/errors"
)

func TestCachePathCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("cache", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.dir, "cache", appName), strings.TrimSpace(out))
}

func TestCachePathFromConfig(t *testing.T) {
	env := newTestEnv(t)
	custom := filepath.Join(env.dir, "elsewhere")
	cfg := env.writeFile("config.toml", "[cache]\ndir = \""+filepath.ToSlash(custom)+"\"\n")

	out, err := env.run("--config", cfg, "cache", "path")
	require.NoError(t, err)
	assert.Equal(t, custom, strings.TrimSpace(out))
}

func TestCacheClearCommand(t *testing.T) {
	env := newTestEnv(t)
	grid := env.writeFile("grid.txt", smallGrid)

	out, err := env.run("cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cache is empty")

	_, err = env.run("solve", grid)
	require.NoError(t, err)

	out, err = env.run("cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared 1 cached entries")

	entries, err := os.ReadDir(filepath.Join(env.dir, "cache", appName))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCacheClearUnsupportedBackend(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("BEAMSPLIT_CACHE_BACKEND", "none")

	_, err := env.run("cache", "clear")
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupported))
}

func TestCachePrefixScopesEntries(t *testing.T) {
	env := newTestEnv(t)
	grid := env.writeFile("grid.txt", smallGrid)

	out, err := env.run("solve", grid)
	require.NoError(t, err)
	assert.Contains(t, out, "fresh")

	t.Setenv("BEAMSPLIT_CACHE_PREFIX", "other:")
	out, err = env.run("solve", grid)
	require.NoError(t, err)
	assert.Contains(t, out, "fresh")

	out, err = env.run("solve", grid)
	require.NoError(t, err)
	assert.Contains(t, out, "cached")
}
