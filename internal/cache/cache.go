// Package cache provides a small in-memory TTL cache for the request layer,
// keeping repeated upstream provider calls out of a short window. The core
// grouping engine never uses it.
package cache

import (
	"sync"
	"time"
)

// Clock supplies the current time. Injected so expiry is testable without
// sleeping.
type Clock func() time.Time

type entry[V any] struct {
	at    time.Time
	value V
}

// TTL maps string keys to timestamped values that expire after a fixed
// duration. Safe for concurrent use.
type TTL[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     Clock
	entries map[string]entry[V]
}

// Option configures a TTL cache.
type Option[V any] func(*TTL[V])

// WithClock overrides the wall clock.
func WithClock[V any](clock Clock) Option[V] {
	return func(c *TTL[V]) {
		c.now = clock
	}
}

// New creates a TTL cache. A non-positive ttl disables caching: every Get
// misses.
func New[V any](ttl time.Duration, opts ...Option[V]) *TTL[V] {
	c := &TTL[V]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry[V]),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Get returns the cached value for key if one exists and has not expired.
// Expired entries are evicted on lookup.
func (c *TTL[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	if c.ttl <= 0 {
		return zero, false
	}

	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if c.now().Sub(e.at) > c.ttl {
		delete(c.entries, key)
		return zero, false
	}
	return e.value, true
}

// Set stores a value under key, stamping it with the current time.
func (c *TTL[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{at: c.now(), value: value}
}

// Len returns the number of entries currently held, expired or not.
func (c *TTL[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
