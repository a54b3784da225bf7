package application

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache defaults: entries expire after 15 minutes and the LRU is capped so
// the cache cannot grow without bound over the process lifetime.
const (
	DefaultCacheTTL      = 15 * time.Minute
	defaultCacheCapacity = 512
)

type cacheEntry[V any] struct {
	value      V
	insertedAt time.Time
}

// TTLCache is a time-boxed memoization layer keyed by canonical query
// strings. An entry is valid only while now-insertedAt < TTL; an entry aged
// exactly TTL is expired. Staleness is checked lazily on read, expired
// entries are dropped then and silently overwritten on the next write.
// Safe for concurrent use.
type TTLCache[V any] struct {
	mu  sync.Mutex
	lru *lru.Cache[string, cacheEntry[V]]
	ttl time.Duration
	now func() time.Time
}

// NewTTLCache creates a TTLCache with the given TTL and the default
// capacity. A non-positive ttl falls back to DefaultCacheTTL.
func NewTTLCache[V any](ttl time.Duration) *TTLCache[V] {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	// Size is a positive constant; lru.New only errors on size <= 0.
	inner, _ := lru.New[string, cacheEntry[V]](defaultCacheCapacity)
	return &TTLCache[V]{
		lru: inner,
		ttl: ttl,
		now: time.Now,
	}
}

// Get returns the cached value for key, or false if the key is absent or
// its entry has aged to the TTL or beyond.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.lru.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().Sub(entry.insertedAt) >= c.ttl {
		c.lru.Remove(key)
		var zero V
		return zero, false
	}
	return entry.value, true
}

// Set stores value under key, overwriting any previous entry.
func (c *TTLCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, cacheEntry[V]{value: value, insertedAt: c.now()})
}

// Len returns the number of entries currently held, including entries that
// have expired but not yet been read. Exposed for health reporting only.
func (c *TTLCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
