// Package cache provides the in-memory TTL response cache of the request
// pipeline. Entries expire by time only; there is no size-based eviction.
package cache

import (
	"sync"
	"time"

	"github.com/orbit-llm/orbit/pkg/api"
)

// entry holds a cached result and its freshness metadata. Entries are
// replaced wholesale on overwrite, never mutated in place.
type entry struct {
	result    *api.GenerationResult
	createdAt time.Time
	ttl       time.Duration
}

// Cache is a mutex-guarded in-memory store keyed by request fingerprint.
type Cache struct {
	defaultTTL time.Duration
	now        func() time.Time

	mu      sync.Mutex
	entries map[string]entry
}

// New creates a Cache whose Set uses defaultTTL when the caller does not
// override it. A non-positive defaultTTL is a programmer error.
func New(defaultTTL time.Duration) *Cache {
	return NewWithClock(defaultTTL, time.Now)
}

// NewWithClock creates a Cache with an injected clock for tests.
func NewWithClock(defaultTTL time.Duration, now func() time.Time) *Cache {
	if defaultTTL <= 0 {
		panic("cache: defaultTTL must be positive")
	}
	return &Cache{
		defaultTTL: defaultTTL,
		now:        now,
		entries:    make(map[string]entry),
	}
}

// Get returns the cached result for key iff it is still fresh. A stale
// entry is removed on observation and reported as a miss.
func (c *Cache) Get(key string) (*api.GenerationResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	if c.now().Sub(e.createdAt) > e.ttl {
		delete(c.entries, key)
		return nil, false
	}

	return e.result, true
}

// Set stores result under key with the default TTL, overwriting any prior
// entry and resetting its creation time.
func (c *Cache) Set(key string, result *api.GenerationResult) {
	c.SetWithTTL(key, result, c.defaultTTL)
}

// SetWithTTL stores result under key with an explicit TTL. A non-positive
// TTL is a programmer error.
func (c *Cache) SetWithTTL(key string, result *api.GenerationResult, ttl time.Duration) {
	if ttl <= 0 {
		panic("cache: ttl must be positive")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		result:    result,
		createdAt: c.now(),
		ttl:       ttl,
	}
}

// Clear empties the store unconditionally.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Len returns the number of stored entries, counting stale ones that have
// not yet been observed.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
