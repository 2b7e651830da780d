package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/beamsplit/pkg/beam"
	"github.com/matzehuels/beamsplit/pkg/cache"
	"github.com/matzehuels/beamsplit/pkg/errors"
)

// isolate points every lookup at an empty temp tree.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	return dir
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(LoadOptions{EnvFile: filepath.Join(dir, "none.env")})
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, cache.BackendFile, cfg.Cache.Backend)
	assert.Equal(t, cache.TTLResult, cfg.Cache.TTL.Duration)
	assert.Equal(t, beam.UnreachableIgnore, cfg.UnreachablePolicy())
	assert.GreaterOrEqual(t, cfg.Batch.Concurrency, 1)

	opts, err := cfg.CacheOptions()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cache", "beamsplit"), opts.Dir)
}

func TestLoadFile(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, filepath.Join(dir, "config", "beamsplit", "config.toml"), `
[log]
level = "debug"

[cache]
backend = "redis"
ttl = "1h30m"

[redis]
addr = "cache:6379"
db = 2

[engine]
unreachable = "warn"

[batch]
concurrency = 3
`)

	for _, opts := range []LoadOptions{{}, {Path: path}} {
		cfg, err := Load(opts)
		require.NoError(t, err)
		assert.Equal(t, log.DebugLevel, cfg.LogLevel())
		assert.Equal(t, cache.BackendRedis, cfg.Cache.Backend)
		assert.Equal(t, 90*time.Minute, cfg.Cache.TTL.Duration)
		assert.Equal(t, "cache:6379", cfg.Redis.Addr)
		assert.Equal(t, 2, cfg.Redis.DB)
		assert.Equal(t, beam.UnreachableWarn, cfg.UnreachablePolicy())
		assert.Equal(t, 3, cfg.Batch.Concurrency)
		// untouched sections keep defaults
		assert.Equal(t, "beamsplit", cfg.Mongo.Database)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, filepath.Join(dir, "c.toml"), "[server]\naddr = \":9000\"\n")

	t.Setenv("BEAMSPLIT_SERVER_ADDR", ":9100")
	t.Setenv("BEAMSPLIT_CACHE_BACKEND", "none")
	t.Setenv("BEAMSPLIT_CACHE_TTL", "5m")
	t.Setenv("BEAMSPLIT_BATCH_CONCURRENCY", "7")
	t.Setenv("BEAMSPLIT_CACHE_PREFIX", "staging:")

	cfg, err := Load(LoadOptions{Path: path})
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.Server.Addr)
	assert.Equal(t, cache.BackendNone, cfg.Cache.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL.Duration)
	assert.Equal(t, 7, cfg.Batch.Concurrency)
	assert.Equal(t, "staging:", cfg.Cache.Prefix)
}

func TestLoadDotenv(t *testing.T) {
	dir := isolate(t)
	envFile := writeFile(t, filepath.Join(dir, ".env"), "BEAMSPLIT_MONGO_URI=mongodb://db:27017\nBEAMSPLIT_REDIS_ADDR=from-dotenv:6379\n")

	// The real environment wins over the dotenv file.
	t.Setenv("BEAMSPLIT_REDIS_ADDR", "from-env:6379")
	// Setenv registers cleanup so the dotenv value is unset afterwards.
	t.Setenv("BEAMSPLIT_MONGO_URI", "")
	os.Unsetenv("BEAMSPLIT_MONGO_URI")

	cfg, err := Load(LoadOptions{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "mongodb://db:27017", cfg.Mongo.URI)
	assert.Equal(t, "from-env:6379", cfg.Redis.Addr)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
		code errors.Code
	}{
		{name: "bad toml", file: "[log\n", code: errors.ErrCodeInvalidConfig},
		{name: "unknown key", file: "[cache]\nbackend = \"file\"\nsize = 3\n", code: errors.ErrCodeInvalidConfig},
		{name: "bad backend", file: "[cache]\nbackend = \"memcached\"\n", code: errors.ErrCodeInvalidConfig},
		{name: "bad level", file: "[log]\nlevel = \"loud\"\n", code: errors.ErrCodeInvalidConfig},
		{name: "bad ttl", file: "[cache]\nttl = \"soon\"\n", code: errors.ErrCodeInvalidConfig},
		{name: "bad policy", file: "[engine]\nunreachable = \"panic\"\n", code: errors.ErrCodeInvalidConfig},
		{name: "zero concurrency", file: "[batch]\nconcurrency = 0\n", code: errors.ErrCodeInvalidConfig},
		{name: "bad env int", env: map[string]string{"BEAMSPLIT_REDIS_DB": "two"}, code: errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := writeFile(t, filepath.Join(dir, "c.toml"), tt.file)

			_, err := Load(LoadOptions{Path: path})
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err), err.Error())
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	_, err := Load(LoadOptions{Path: filepath.Join(dir, "nope.toml")})
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x"), expandHome("~/x"))
	assert.Equal(t, "/abs", expandHome("/abs"))
}
