// Package cache provides pluggable byte caches for HTTP response memoization.
//
// The same interface backs several stores:
//   - FileCache: file-based cache for CLI usage
//   - MemoryCache: in-process cache for tests and short-lived sessions
//   - NullCache: no-op cache when caching is disabled
//   - RedisCache: shared cache for server deployments
//   - MongoCache: document-store cache for server deployments
//
// Values are opaque byte slices; callers handle serialization. Keys should
// be namespaced by the caller (e.g. "openalex:search:attention") to avoid
// collisions between data sources.
package cache

import (
	"context"
	"time"
)

// Cache stores byte values under string keys with optional expiration.
// A TTL of 0 means the entry never expires.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
