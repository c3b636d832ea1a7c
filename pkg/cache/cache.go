// Package cache stores finished partition results so repeated jobs over the
// same input skip the search.
//
// Results are keyed by a content hash of everything that influences them:
// the schema, the search options and the partition's records. Three backends
// are provided:
//
//   - [NullCache]: caching disabled
//   - [FileCache]: one JSON entry per key in a local directory (CLI default)
//   - [RedisCache]: shared cache for jobs running on several machines
//
// Keys are produced by a [Keyer]; [ScopedKeyer] namespaces them so several
// jobs can share one Redis database.
package cache

import (
	"context"
	"time"
)

// TTLResult is how long a partition result stays valid. Results are pure
// functions of their key, so the TTL only bounds storage growth.
const TTLResult = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiration.
type Cache interface {
	// Get returns the value stored under key. A missing or expired entry is
	// reported as a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// ResultKeyOpts lists the inputs of a partition result besides its records.
type ResultKeyOpts struct {
	SchemaHash      string   `json:"schema"`
	CoreType        string   `json:"core_type"`
	BeamWidth       int      `json:"beam_width"`
	SearchWidth     int      `json:"search_width"`
	Alpha           float64  `json:"alpha"`
	Beta            float64  `json:"beta"`
	Gamma           *float64 `json:"gamma,omitempty"`
	GlobalThreshold *float64 `json:"global_threshold,omitempty"`
	LocalThreshold  *float64 `json:"local_threshold,omitempty"`
	MaxEpochs       int      `json:"max_epochs"`
	Patience        int      `json:"patience"`
	MinDegree       int      `json:"min_degree"`
	Seed            uint64   `json:"seed"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ResultKey returns the key of a partition result. recordsHash is the
	// [Hash] of the partition's input lines.
	ResultKey(recordsHash string, opts ResultKeyOpts) string

	// SchemaKey returns the key under which a parsed schema is stored.
	SchemaKey(schemaHash string) string
}

// DefaultKeyer builds unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ResultKey implements [Keyer].
func (DefaultKeyer) ResultKey(recordsHash string, opts ResultKeyOpts) string {
	return hashKey("result", recordsHash, opts)
}

// SchemaKey implements [Keyer].
func (DefaultKeyer) SchemaKey(schemaHash string) string {
	return "schema:" + schemaHash
}
