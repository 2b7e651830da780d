// Package config loads beamsplit settings.
//
// Settings are layered, later layers winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file, by default $XDG_CONFIG_HOME/beamsplit/config.toml
//  3. variables from a .env file, which never override the real environment
//  4. BEAMSPLIT_* environment variables
//
// A complete file:
//
//	[log]
//	level = "info"
//
//	[cache]
//	backend = "file"        # none, file, redis or mongo
//	dir = "~/.cache/beamsplit"
//	ttl = "720h"
//
//	[redis]
//	addr = "localhost:6379"
//	password = ""
//	db = 0
//
//	[mongo]
//	uri = "mongodb://localhost:27017"
//	database = "beamsplit"
//	collection = "results"
//
//	[engine]
//	unreachable = "ignore"  # ignore, warn or error
//
//	[server]
//	addr = ":8080"
//
//	[batch]
//	concurrency = 8
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/beamsplit/pkg/beam"
	"github.com/matzehuels/beamsplit/pkg/cache"
	"github.com/matzehuels/beamsplit/pkg/errors"
)

const appName = "beamsplit"

// Config is the full set of settings.
type Config struct {
	Log    LogConfig    `toml:"log"`
	Cache  CacheConfig  `toml:"cache"`
	Redis  RedisConfig  `toml:"redis"`
	Mongo  MongoConfig  `toml:"mongo"`
	Engine EngineConfig `toml:"engine"`
	Server ServerConfig `toml:"server"`
	Batch  BatchConfig  `toml:"batch"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level string `toml:"level"`
}

// CacheConfig selects and configures the result cache backend.
type CacheConfig struct {
	Backend string   `toml:"backend"`
	Dir     string   `toml:"dir"`
	TTL     Duration `toml:"ttl"`

	// Prefix scopes keys so deployments can share a Redis or Mongo backend.
	Prefix string `toml:"prefix"`
}

// RedisConfig holds connection settings for the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig holds connection settings for the mongo backend.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// EngineConfig holds simulation settings. Unreachable is parsed by
// [Config.UnreachablePolicy].
type EngineConfig struct {
	Unreachable string `toml:"unreachable"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// BatchConfig bounds concurrent work in batch solves.
type BatchConfig struct {
	Concurrency int `toml:"concurrency"`
}

// Duration is a time.Duration written as a Go duration string ("720h").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Log:    LogConfig{Level: "info"},
		Cache:  CacheConfig{Backend: cache.BackendFile, TTL: Duration{cache.TTLResult}},
		Redis:  RedisConfig{Addr: "localhost:6379"},
		Mongo:  MongoConfig{URI: "mongodb://localhost:27017", Database: appName, Collection: "results"},
		Engine: EngineConfig{Unreachable: string(beam.UnreachableIgnore)},
		Server: ServerConfig{Addr: ":8080"},
		Batch:  BatchConfig{Concurrency: runtime.GOMAXPROCS(0)},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/beamsplit/config.toml, falling back
// to ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// DefaultCacheDir returns $XDG_CACHE_HOME/beamsplit, falling back to
// ~/.cache/beamsplit.
func DefaultCacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// LoadOptions controls where [Load] looks.
type LoadOptions struct {
	// Path is the TOML file. Empty means DefaultPath, and a missing
	// default file is not an error.
	Path string

	// EnvFile is the dotenv file. Empty means ".env"; a missing file is
	// ignored either way.
	EnvFile string
}

// Load builds a Config from defaults, the TOML file, the dotenv file and
// the environment, then validates it.
func Load(opts LoadOptions) (Config, error) {
	cfg := Default()

	if err := loadFile(&cfg, opts.Path); err != nil {
		return Config{}, err
	}
	if err := loadDotenv(opts.EnvFile); err != nil {
		return Config{}, err
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil
		}
		path = p
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks every setting and returns an INVALID_CONFIG error for
// the first bad one.
func (c Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "log.level")
	}
	switch c.Cache.Backend {
	case cache.BackendNone, cache.BackendFile, cache.BackendRedis, cache.BackendMongo:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend %q (want none, file, redis or mongo)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if c.Redis.DB < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "redis.db must not be negative")
	}
	if _, err := beam.ParseUnreachablePolicy(c.Engine.Unreachable); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "engine.unreachable")
	}
	if c.Batch.Concurrency < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "batch.concurrency must be at least 1")
	}
	return nil
}

// LogLevel returns the parsed log level. Validate guarantees it parses.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// UnreachablePolicy returns the parsed engine policy.
func (c Config) UnreachablePolicy() beam.UnreachablePolicy {
	p, err := beam.ParseUnreachablePolicy(c.Engine.Unreachable)
	if err != nil {
		return beam.UnreachableIgnore
	}
	return p
}

// CacheOptions converts the cache settings for [cache.Open]. An empty
// cache.dir resolves to DefaultCacheDir.
func (c Config) CacheOptions() (cache.Options, error) {
	dir := c.Cache.Dir
	if dir == "" && c.Cache.Backend == cache.BackendFile {
		d, err := DefaultCacheDir()
		if err != nil {
			return cache.Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache.dir")
		}
		dir = d
	}
	return cache.Options{
		Backend: c.Cache.Backend,
		Dir:     expandHome(dir),
		Redis: cache.RedisOptions{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
		},
		Mongo: cache.MongoOptions{
			URI:        c.Mongo.URI,
			Database:   c.Mongo.Database,
			Collection: c.Mongo.Collection,
		},
	}, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
