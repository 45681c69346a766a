// Package datacache provides an explicit get-or-fetch cache with
// single-flight deduplication. Concurrent consumers of the same key
// share one in-flight fetch; resolved results (including errors) are
// served until explicitly invalidated.
package datacache

import (
	"context"
	"sync"

	"staking-lens/internal/observability"
)

// Fetcher loads the bytes for a cache key.
type Fetcher func(ctx context.Context, key string) ([]byte, error)

// entry is the shared future for one key. ready is closed exactly once,
// after data/err are set.
type entry struct {
	ready chan struct{}
	data  []byte
	err   error
}

// Cache is owned by the composition root and passed to consumers;
// there is no module-level singleton state.
type Cache struct {
	fetch Fetcher

	mu      sync.Mutex
	entries map[string]*entry
}

// New creates a cache backed by the given fetcher.
func New(fetch Fetcher) *Cache {
	return &Cache{
		fetch:   fetch,
		entries: make(map[string]*entry),
	}
}

// Get returns the cached bytes for key, fetching them on first use.
// Later callers that arrive while the fetch is in flight wait for the
// same result rather than issuing duplicate requests. A fetch error is
// cached like a value: callers see it until Invalidate clears the key.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry{ready: make(chan struct{})}
		c.entries[key] = e
		c.mu.Unlock()

		observability.RecordCacheMiss()

		// The fetch is detached from the first caller's context so a
		// cancelled requester does not poison the shared result.
		go func() {
			e.data, e.err = c.fetch(context.WithoutCancel(ctx), key)
			close(e.ready)
		}()
	} else {
		c.mu.Unlock()
		observability.RecordCacheHit()
	}

	select {
	case <-e.ready:
		return e.data, e.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Invalidate drops the entry for key; the next Get fetches fresh data.
// An in-flight fetch is left to complete for its current waiters.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// InvalidateAll drops every cached entry.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}

// Len returns the number of cached (or in-flight) entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
