// Package query provides the keyed read cache behind page-level data
// fetching. Re-requesting a fresh key is a cache hit rather than a new
// network call; concurrent fetches of the same key are coalesced.
package query

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	value    any
	storedAt time.Time
}

// Cache is a TTL cache keyed by request identity (route plus
// filter/sort/pagination state).
type Cache struct {
	ttl   time.Duration
	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]entry

	now func() time.Time
}

// NewCache creates a cache whose entries go stale after ttl.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Do returns the cached value for key if still fresh, otherwise runs fn
// exactly once per key (concurrent callers share the result) and caches
// the outcome. Errors are never cached.
func (c *Cache) Do(ctx context.Context, key string, fn func(ctx context.Context) (any, error)) (any, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.now().Sub(e.storedAt) < c.ttl {
		return e.value, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Another caller may have filled the entry while we waited.
		c.mu.RLock()
		e, ok := c.entries[key]
		c.mu.RUnlock()
		if ok && c.now().Sub(e.storedAt) < c.ttl {
			return e.value, nil
		}

		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = entry{value: v, storedAt: c.now()}
		c.mu.Unlock()
		return v, nil
	})
	return v, err
}

// Invalidate drops every entry whose key starts with one of the given
// prefixes. Mutations use this to force dependent reads to refetch.
func (c *Cache) Invalidate(prefixes ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		for _, p := range prefixes {
			if strings.HasPrefix(key, p) {
				delete(c.entries, key)
				break
			}
		}
	}
}

// Fetch is a typed wrapper over Cache.Do.
func Fetch[T any](ctx context.Context, c *Cache, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	v, err := c.Do(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
