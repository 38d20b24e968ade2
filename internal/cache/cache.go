// Package cache provides the key-value store behind the recipe list and
// page caches. The server picks a backend at startup; everything above it
// talks to the Store interface so tests can swap in the in-memory one.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss reports that a key is absent or its entry has expired.
// Callers that treat the cache as optional branch on it with errors.Is.
var ErrCacheMiss = errors.New("cache: key not found")

// Store is a TTL'd key-value store.
type Store interface {
	// Get returns the value stored under key, or ErrCacheMiss when the
	// key is absent or expired. Any other error is a backend failure.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key for ttl. A non-positive ttl selects
	// the store's default lifetime.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes keys. Deleting a missing key is not an error.
	Delete(ctx context.Context, keys ...string) error

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend's resources.
	Close() error
}
