package cache

import (
	"context"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryCache is an in-memory LRU cache with a fixed TTL per entry.
// Locking is handled by the underlying LRU; it is held only for the
// duration of a single lookup or insert.
type MemoryCache[V any] struct {
	lru    *expirable.LRU[string, V]
	policy Policy
}

// NewMemoryCache creates a new in-memory cache with the given policy.
// A policy with a zero TTL yields a cache that stores nothing.
func NewMemoryCache[V any](policy Policy) *MemoryCache[V] {
	policy = policy.Normalize()
	return &MemoryCache[V]{
		lru:    expirable.NewLRU[string, V](policy.MaxEntries, nil, policy.TTL),
		policy: policy,
	}
}

// Get retrieves a value from the cache. Returns (zero, false) on miss or expiry.
func (c *MemoryCache[V]) Get(_ context.Context, key string) (V, bool) {
	return c.lru.Get(key)
}

// Set stores a value. It is a no-op when the policy disables caching.
func (c *MemoryCache[V]) Set(_ context.Context, key string, value V) error {
	if !c.policy.ShouldCache() {
		return nil
	}
	if err := ValidateKey(key); err != nil {
		return err
	}
	c.lru.Add(key, value)
	return nil
}

// Delete removes a value from the cache. Idempotent - no error on miss.
func (c *MemoryCache[V]) Delete(_ context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

// Len returns the number of entries currently held.
func (c *MemoryCache[V]) Len() int {
	return c.lru.Len()
}

// Cap returns the maximum number of entries.
func (c *MemoryCache[V]) Cap() int {
	return c.policy.MaxEntries
}

// Policy returns the effective policy.
func (c *MemoryCache[V]) Policy() Policy {
	return c.policy
}

// Purge removes all entries.
func (c *MemoryCache[V]) Purge() {
	c.lru.Purge()
}

// Ensure MemoryCache implements Cache
var _ Cache[[]byte] = (*MemoryCache[[]byte])(nil)
