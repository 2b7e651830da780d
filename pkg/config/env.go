package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/matzehuels/beamsplit/pkg/errors"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BEAMSPLIT_"

func loadDotenv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", path)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"LOG_LEVEL":        &cfg.Log.Level,
		"CACHE_BACKEND":    &cfg.Cache.Backend,
		"CACHE_DIR":        &cfg.Cache.Dir,
		"CACHE_PREFIX":     &cfg.Cache.Prefix,
		"REDIS_ADDR":       &cfg.Redis.Addr,
		"REDIS_PASSWORD":   &cfg.Redis.Password,
		"MONGO_URI":        &cfg.Mongo.URI,
		"MONGO_DATABASE":   &cfg.Mongo.Database,
		"MONGO_COLLECTION": &cfg.Mongo.Collection,
		"UNREACHABLE":      &cfg.Engine.Unreachable,
		"SERVER_ADDR":      &cfg.Server.Addr,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"REDIS_DB":          &cfg.Redis.DB,
		"BATCH_CONCURRENCY": &cfg.Batch.Concurrency,
	}
	for name, dst := range ints {
		v, ok := os.LookupEnv(EnvPrefix + name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s%s must be an integer", EnvPrefix, name)
		}
		*dst = n
	}

	if v, ok := os.LookupEnv(EnvPrefix + "CACHE_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%sCACHE_TTL", EnvPrefix)
		}
		cfg.Cache.TTL = Duration{d}
	}
	return nil
}
