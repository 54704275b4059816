// Package cache is a small in-process TTL cache keyed by string.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	stored    time.Time
	insertIdx int64
}

// Cache holds values for a fixed TTL. It is safe for concurrent use.
// When maxEntries is reached the oldest insertion is evicted.
type Cache[V any] struct {
	mu         sync.RWMutex
	items      map[string]entry[V]
	ttl        time.Duration
	maxEntries int
	nextIdx    int64
	now        func() time.Time
}

// New creates a cache. maxEntries <= 0 means unbounded.
func New[V any](ttl time.Duration, maxEntries int) *Cache[V] {
	return &Cache[V]{
		items:      make(map[string]entry[V]),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the value stored under key and its age. Expired entries are
// removed lazily and reported as a miss.
func (c *Cache[V]) Get(key string) (V, time.Duration, bool) {
	var zero V

	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return zero, 0, false
	}

	age := c.now().Sub(e.stored)
	if age > c.ttl {
		c.mu.Lock()
		if e2, ok2 := c.items[key]; ok2 && c.now().Sub(e2.stored) > c.ttl {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return zero, 0, false
	}
	return e.value, age, true
}

// Put stores value under key, replacing any previous value.
func (c *Cache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry[V]{value: value, stored: c.now(), insertIdx: c.nextIdx}
	c.nextIdx++

	if _, exists := c.items[key]; exists {
		c.items[key] = e
		return
	}
	if c.maxEntries > 0 && len(c.items) >= c.maxEntries {
		c.evictOldest()
	}
	c.items[key] = e
}

// Cleanup drops every expired entry.
func (c *Cache[V]) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.items {
		if now.Sub(e.stored) > c.ttl {
			delete(c.items, key)
		}
	}
}

func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// evictOldest must be called with mu held.
func (c *Cache[V]) evictOldest() {
	var oldestKey string
	var oldestIdx int64 = -1
	for key, e := range c.items {
		if oldestIdx == -1 || e.insertIdx < oldestIdx {
			oldestIdx = e.insertIdx
			oldestKey = key
		}
	}
	if oldestIdx >= 0 {
		delete(c.items, oldestKey)
	}
}
