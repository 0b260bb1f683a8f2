package tmdb

import (
	"sync"
	"time"
)

// maxCachedMovies bounds the detail cache. A sync of a few list pages stays
// well under it.
const maxCachedMovies = 2000

type cacheEntry[V any] struct {
	value   V
	expires time.Time
}

// ttlCache keeps values for ttl and at most max entries. Expired entries are
// evicted on read; a full cache drops expired entries first, then the entry
// closest to expiry.
type ttlCache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]cacheEntry[V]
	ttl     time.Duration
	max     int
	now     func() time.Time
}

func newTTLCache[K comparable, V any](ttl time.Duration, max int) *ttlCache[K, V] {
	return &ttlCache[K, V]{
		entries: make(map[K]cacheEntry[V]),
		ttl:     ttl,
		max:     max,
		now:     time.Now,
	}
}

func (c *ttlCache[K, V]) get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	entry, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if c.now().After(entry.expires) {
		delete(c.entries, key)
		return zero, false
	}
	return entry.value, true
}

func (c *ttlCache[K, V]) set(key K, value V) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && c.max > 0 && len(c.entries) >= c.max {
		c.evictLocked()
	}
	c.entries[key] = cacheEntry[V]{
		value:   value,
		expires: c.now().Add(c.ttl),
	}
}

func (c *ttlCache[K, V]) evictLocked() {
	now := c.now()
	var (
		oldest    K
		oldestExp time.Time
		found     bool
	)
	for k, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, k)
			continue
		}
		if !found || e.expires.Before(oldestExp) {
			oldest, oldestExp, found = k, e.expires, true
		}
	}
	if found && len(c.entries) >= c.max {
		delete(c.entries, oldest)
	}
}

func (c *ttlCache[K, V]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
