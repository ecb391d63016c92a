// Package cache holds the ephemeral result cache shared by the fetchers.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL is the freshness window for provider results.
const DefaultTTL = 5 * time.Minute

// TTLCache is a key -> (value, deadline) store. Instances are built by the
// pipeline composer and passed into each fetcher, there is no global.
type TTLCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value     any
	expiresAt time.Time
}

// New creates an empty cache.
func New() *TTLCache {
	return &TTLCache{
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the fresh value for the key. Expired entries are simply
// ignored, the next Set overwrites them.
func (c *TTLCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists || time.Now().After(entry.expiresAt) {
		return nil, false
	}

	return entry.value, true
}

// Set stores the value under the key for the given time to live.
func (c *TTLCache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

// Len returns the number of stored entries, counting stale ones.
func (c *TTLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
