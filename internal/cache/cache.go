// Package cache provides the shared time-to-live cache that sits in front
// of balance computations.
//
// Entries expire at the absolute time fixed when they are set and are
// evicted lazily on the next Get. There is no size bound. Delete of an
// absent key is a no-op, so invalidation is idempotent; concurrent Set and
// Delete on the same key resolve last-write-wins.
package cache

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type entry struct {
	value     any
	expiresAt time.Time // zero means the entry never expires
}

// Cache is a concurrency-safe key/value store with per-entry expiry.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time

	hits      prometheus.Counter
	misses    prometheus.Counter
	evictions prometheus.Counter
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// WithCounters reports hits, misses and expiry evictions to Prometheus.
// Any of the counters may be nil.
func WithCounters(hits, misses, evictions prometheus.Counter) Option {
	return func(c *Cache) {
		c.hits = hits
		c.misses = misses
		c.evictions = evictions
	}
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value stored under key if it has not expired.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		inc(c.misses)
		return nil, false
	}

	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		// Only drop the entry we saw; a concurrent Set may have replaced it.
		if cur, ok := c.entries[key]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(c.entries, key)
			inc(c.evictions)
		}
		c.mu.Unlock()
		inc(c.misses)
		return nil, false
	}

	inc(c.hits)
	return e.value, true
}

// Set stores value under key. A positive ttl makes the entry expire at
// now+ttl; otherwise it lives until deleted.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
}

// Delete removes keys. Absent keys are ignored.
func (c *Cache) Delete(keys ...string) {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	c.mu.Unlock()
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Len returns the number of stored entries, including expired ones that
// have not been evicted yet.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Fetch returns the cached T under key, or computes, stores and returns it.
// A cached value of a different type is treated as a miss and replaced.
func Fetch[T any](c *Cache, key string, ttl time.Duration, compute func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		if t, ok := v.(T); ok {
			return t, nil
		}
	}

	t, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}
	c.Set(key, t, ttl)
	return t, nil
}

func inc(c prometheus.Counter) {
	if c != nil {
		c.Inc()
	}
}
