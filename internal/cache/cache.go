// Package cache provides the in-process TTL cache backing the statistics
// services. Each service owns one named Cache (its namespace); values are
// stored with an absolute expiry and recomputed on demand once stale.
package cache

import (
	"sync"
	"time"

	"gernibide/internal/metrics"
)

// Entry holds a cached value with an absolute expiry instant. Entries are
// immutable; a refresh replaces the entry wholesale.
type Entry struct {
	Value     any
	ExpiresAt time.Time
}

// Expired reports whether the entry is stale at the given instant
func (e Entry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// Cache is a thread-safe key -> Entry map with a per-namespace default TTL.
// Computation runs outside the lock, so two requests racing on the same cold
// key may both compute; the second write wins with an equivalent value. That
// redundant work is accepted to keep readers from serialising behind one
// slow aggregate query.
type Cache struct {
	name       string
	defaultTTL time.Duration

	mu      sync.RWMutex
	entries map[string]Entry

	now func() time.Time
}

// New creates a cache namespace with the given default TTL
func New(name string, defaultTTL time.Duration) *Cache {
	return &Cache{
		name:       name,
		defaultTTL: defaultTTL,
		entries:    make(map[string]Entry),
		now:        time.Now,
	}
}

// Name returns the cache namespace name
func (c *Cache) Name() string {
	return c.name
}

// Len returns the number of stored entries, expired ones included
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops every entry unconditionally. There is no selective
// invalidation; dashboards tolerate TTL-bounded staleness.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Entry)
}

// lookup returns the value for key if present and fresh. Expired entries are
// evicted on access.
func (c *Cache) lookup(key string) (any, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if entry.Expired(c.now()) {
		c.mu.Lock()
		// Re-check: a concurrent recompute may have stored a fresh entry.
		if current, ok := c.entries[key]; ok && current.Expired(c.now()) {
			delete(c.entries, key)
			metrics.CacheEvictions.WithLabelValues(c.name).Inc()
		}
		c.mu.Unlock()
		return nil, false
	}

	return entry.Value, true
}

// store saves a freshly computed value under key
func (c *Cache) store(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.mu.Lock()
	c.entries[key] = Entry{Value: value, ExpiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
}

// GetOrCompute returns the cached value for key, invoking compute only when
// no fresh entry exists. A ttl of 0 selects the namespace default. Errors
// from compute propagate uncached, leaving any previous entry untouched.
func GetOrCompute[T any](c *Cache, key string, ttl time.Duration, compute func() (T, error)) (T, error) {
	if value, ok := c.lookup(key); ok {
		if typed, ok := value.(T); ok {
			metrics.CacheHits.WithLabelValues(c.name).Inc()
			return typed, nil
		}
		// Type mismatch means the key is shared across incompatible
		// callers; recompute rather than fail.
	}

	metrics.CacheMisses.WithLabelValues(c.name).Inc()

	value, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}

	c.store(key, value, ttl)
	return value, nil
}
