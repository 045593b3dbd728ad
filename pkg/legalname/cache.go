package legalname

import (
	"github.com/rotisserie/eris"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// DefaultFoldCacheSize bounds the per-token normalization cache.
	// Short tokens recur heavily across a batch, so this stays large.
	DefaultFoldCacheSize = 100_000

	// DefaultQueryCacheSize bounds the Search result cache.
	DefaultQueryCacheSize = 1_000
)

// Cache is a bounded key/value cache with least-recently-used eviction.
// It is safe for concurrent use.
type Cache[K comparable, V any] struct {
	lru      *lru.Cache[K, V]
	capacity int
}

// NewCache creates a cache holding at most capacity entries.
func NewCache[K comparable, V any](capacity int) (*Cache[K, V], error) {
	c, err := lru.New[K, V](capacity)
	if err != nil {
		return nil, eris.Wrapf(err, "create cache with capacity %d", capacity)
	}
	return &Cache[K, V]{lru: c, capacity: capacity}, nil
}

// Get returns the cached value for key and marks it as recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	return c.lru.Get(key)
}

// Add stores value under key and reports whether an older entry was evicted.
func (c *Cache[K, V]) Add(key K, value V) bool {
	return c.lru.Add(key, value)
}

// Contains reports whether key is cached without touching its recency.
func (c *Cache[K, V]) Contains(key K) bool {
	return c.lru.Contains(key)
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	return c.lru.Len()
}

// Cap returns the maximum number of entries.
func (c *Cache[K, V]) Cap() int {
	return c.capacity
}

// Purge drops every entry.
func (c *Cache[K, V]) Purge() {
	c.lru.Purge()
}
