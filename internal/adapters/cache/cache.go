package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/okian/ftcscope/pkg/logger"
	"github.com/okian/ftcscope/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL matches the upstream dashboard's five minute freshness window.
const DefaultTTL = 5 * time.Minute

// Fetcher performs the underlying network GET and returns the body.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, url string) ([]byte, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

// entry is one memoized response. Entries are replaced whole on refresh.
type entry struct {
	data      json.RawMessage
	timestamp time.Time
}

// Cache is a time-bounded memo of JSON responses keyed by URL. Staleness is
// detected lazily on access; nothing is evicted in the background. Failed
// fetches are never stored.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry

	fetcher Fetcher
	flight  singleflight.Group

	now        func() time.Time
	defaultTTL time.Duration
	logger     logger.Logger
}

// New creates a Cache backed by fetcher.
func New(fetcher Fetcher, opts ...Option) *Cache {
	c := &Cache{
		entries:    make(map[string]entry),
		fetcher:    fetcher,
		now:        time.Now,
		defaultTTL: DefaultTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Default().Named("cache")
	}
	return c
}

// Get returns the cached body for url when it is younger than ttl, and
// otherwise fetches, validates and stores a fresh copy. A ttl <= 0 uses the
// configured default. The returned bytes are shared and must not be modified.
func (c *Cache) Get(ctx context.Context, url string, ttl time.Duration) (json.RawMessage, error) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if data, ok := c.fresh(url, ttl); ok {
		metrics.RecordCacheHit()
		return data, nil
	}
	metrics.RecordCacheMiss()

	// Concurrent misses on the same URL share a single upstream request. The
	// shared fetch is detached from any one caller's cancellation and stays
	// bounded by the fetcher's own timeout; each caller still stops waiting
	// when its own context ends.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(url, func() (any, error) {
		if data, ok := c.fresh(url, ttl); ok {
			return data, nil
		}
		return c.refresh(fetchCtx, url)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(json.RawMessage), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) fresh(url string, ttl time.Duration) (json.RawMessage, bool) {
	c.mu.RLock()
	e, ok := c.entries[url]
	c.mu.RUnlock()
	if !ok || c.now().Sub(e.timestamp) >= ttl {
		return nil, false
	}
	return e.data, true
}

func (c *Cache) refresh(ctx context.Context, url string) (json.RawMessage, error) {
	if c.fetcher == nil {
		return nil, ErrNoFetcher
	}
	body, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, url)
	}
	data := make(json.RawMessage, len(body))
	copy(data, body)

	c.mu.Lock()
	c.entries[url] = entry{data: data, timestamp: c.now()}
	size := len(c.entries)
	c.mu.Unlock()

	metrics.UpdateCacheEntries(size)
	c.logger.Debug(ctx, "cached response", logger.String("url", url), logger.Int("bytes", len(data)))
	return data, nil
}

// Len returns the number of stored entries, fresh or stale.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
	metrics.UpdateCacheEntries(0)
}
