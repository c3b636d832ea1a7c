// Package observability provides hooks for metrics and tracing.
//
// The search and cache code emit events through hook interfaces instead of
// depending on a metrics backend. Binaries register an implementation at
// startup (see package metrics for the Prometheus one); libraries and tests
// get no-op hooks by default.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    m := metrics.New()
//	    observability.SetSearchHooks(m)
//	    observability.SetCacheHooks(m)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Search().OnPartitionStart(ctx, gid, len(edges))
//	// ... build graph and search ...
//	observability.Search().OnPartitionComplete(ctx, gid, state, steps, duration, err)
package observability

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/quasiclique/pkg/ids"
)

// =============================================================================
// Search Hooks
// =============================================================================

// SearchHooks receives events from partition processing.
type SearchHooks interface {
	// OnRecordsRejected records n input lines or edge records that were
	// dropped. Reason is a short label such as "malformed" or "schema".
	OnRecordsRejected(ctx context.Context, reason string, n int)

	// Partition events
	OnPartitionStart(ctx context.Context, gid ids.GraphID, records int)
	OnPartitionComplete(ctx context.Context, gid ids.GraphID, state string, steps int, duration time.Duration, err error)

	// OnPrune records how many nodes degree pruning removed from a partition.
	OnPrune(ctx context.Context, gid ids.GraphID, removed int)

	// OnStep records one finished beam search step.
	OnStep(ctx context.Context, gid ids.GraphID, step int, bestScore float64, improved bool)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSearchHooks is a no-op implementation of SearchHooks.
type NoopSearchHooks struct{}

func (NoopSearchHooks) OnRecordsRejected(context.Context, string, int)      {}
func (NoopSearchHooks) OnPartitionStart(context.Context, ids.GraphID, int) {}
func (NoopSearchHooks) OnPartitionComplete(context.Context, ids.GraphID, string, int, time.Duration, error) {
}
func (NoopSearchHooks) OnPrune(context.Context, ids.GraphID, int)               {}
func (NoopSearchHooks) OnStep(context.Context, ids.GraphID, int, float64, bool) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	searchHooks SearchHooks = NoopSearchHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetSearchHooks registers custom search hooks.
// This should be called once at application startup before any partition is processed.
func SetSearchHooks(h SearchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		searchHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Search returns the registered search hooks.
func Search() SearchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return searchHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	searchHooks = NoopSearchHooks{}
	cacheHooks = NoopCacheHooks{}
}
