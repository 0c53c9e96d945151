// Package interfaces defines the ports consumed by the analysis core.
// These interfaces allow for dependency injection and make the core testable.
package interfaces

import (
	"context"
	"time"
)

// Cache is the optional record-caching collaborator. The core itself
// keeps no persistent state; when no cache is configured every
// analysis is computed from scratch.
type Cache interface {
	// Get retrieves a value from the cache by key.
	// Returns the cached data as []byte or an error on miss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with the given key and TTL.
	// A ttl of 0 stores the value indefinitely.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache by key.
	// Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
