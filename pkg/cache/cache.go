// Package cache stores solved results so repeated grids skip the simulation.
//
// All backends implement [Cache], a byte-oriented key/value store with
// per-entry TTLs. Keys come from a [Keyer], which derives them from the
// SHA-256 of the grid text plus the options that change the result.
//
// Backends:
//
//   - [NullCache]: stores nothing; used with --no-cache
//   - [FileCache]: one JSON file per entry under a local directory
//   - [RedisCache]: a shared Redis server
//   - [MongoCache]: a MongoDB collection with a TTL index
//
// Network backends wrap transient failures with [Retryable] and retry them
// through [RetryWithBackoff].
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store for serialized results.
type Cache interface {
	// Get returns the stored value and true, or nil and false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default TTLs per entry type.
const (
	TTLResult = 30 * 24 * time.Hour
	TTLGraph  = 7 * 24 * time.Hour
)

// NullCache stores nothing; every Get is a miss.
type NullCache struct{}

// NewNullCache returns a cache that disables caching.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error { return nil }
func (NullCache) Close() error { return nil }
