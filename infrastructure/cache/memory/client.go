// ABOUTME: In-memory cache implementation backed by go-cache
// ABOUTME: TTL support with background expiration of stale entries

package memory

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// cleanupInterval controls how often expired entries are purged.
const cleanupInterval = 10 * time.Minute

// MemoryCache implements the Cache interface using in-process storage.
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache creates a new in-memory cache instance.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		store: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

// Get retrieves a value from the cache.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	value, found := c.store.Get(key)
	if !found {
		return nil, errors.New("key not found")
	}

	data := value.([]byte)
	result := make([]byte, len(data))
	copy(result, data)
	return result, nil
}

// Set stores a value in the cache. A zero TTL stores it indefinitely.
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	expiration := ttl
	if ttl == 0 {
		expiration = gocache.NoExpiration
	}
	c.store.Set(key, valueCopy, expiration)
	return nil
}

// Delete removes a key from the cache. Missing keys are not an error.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	c.store.Delete(key)
	return nil
}
