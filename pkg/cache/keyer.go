package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer derives cache keys for solver outputs.
type Keyer interface {
	// ResultKey is the key for a solve result of the grid with gridHash.
	ResultKey(gridHash string, opts ResultKeyOpts) string

	// GraphKey is the key for the exported dependency DAG of a grid. The
	// options take part so a graph stored under a lenient policy is never
	// served to a stricter one.
	GraphKey(gridHash string, opts ResultKeyOpts) string
}

// ResultKeyOpts holds the options that change a solve result.
type ResultKeyOpts struct {
	Unreachable string `json:"unreachable,omitempty"`
}

// Hash returns the hex SHA-256 of data. Grid hashes passed to a Keyer are
// computed with it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DefaultKeyer produces versioned keys: "result:v1:<sha>" and
// "graph:v1:<gridHash>", with a ":<policy>" suffix on graph keys when an
// unreachable policy is set.
type DefaultKeyer struct {
	version int
}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{version: 1}
}

// ResultKey hashes the grid hash together with the options, so every
// policy gets its own entry.
func (k *DefaultKeyer) ResultKey(gridHash string, opts ResultKeyOpts) string {
	data, _ := json.Marshal([]any{gridHash, opts})
	return fmt.Sprintf("result:v%d:%s", k.version, Hash(data))
}

// GraphKey returns "graph:v1:<gridHash>" or "graph:v1:<gridHash>:<policy>".
func (k *DefaultKeyer) GraphKey(gridHash string, opts ResultKeyOpts) string {
	key := fmt.Sprintf("graph:v%d:%s", k.version, gridHash)
	if opts.Unreachable != "" {
		key += ":" + opts.Unreachable
	}
	return key
}

// ScopedKeyer prefixes every key of an inner Keyer, so several deployments
// can share one Redis or Mongo backend:
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) ResultKey(gridHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(gridHash, opts)
}

func (k *ScopedKeyer) GraphKey(gridHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.GraphKey(gridHash, opts)
}

var (
	_ Keyer = (*DefaultKeyer)(nil)
	_ Keyer = (*ScopedKeyer)(nil)
)
