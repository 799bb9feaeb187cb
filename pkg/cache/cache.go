// Package cache provides byte-oriented caching backends for rustprint.
//
// Two kinds of data are cached: GitHub API responses fetched while refreshing
// the rustc version table, and analysis results keyed by the SHA-256 of the
// analyzed file together with the fingerprint of the version table in use.
//
// Backends:
//   - [FileCache]: JSON entry files under a directory (CLI default)
//   - [RedisCache]: shared cache for the HTTP API and batch workers
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] so that every caller agrees on the layout.
package cache

import (
	"context"
	"time"
)

// Default TTLs per kind of cached data.
const (
	// TTLHTTP bounds how long GitHub tag pages are reused.
	TTLHTTP = time.Hour

	// TTLAnalysis bounds how long analysis results are reused. Results are
	// deterministic for a given content and table, so this only limits growth.
	TTLAnalysis = 7 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
//
// Get returns (nil, false, nil) on a miss. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
