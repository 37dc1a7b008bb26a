// Package cache memoizes upstream GET responses keyed by request URL.
package cache

import (
	"time"

	"github.com/okian/ftcscope/pkg/logger"
)

// Option applies a configuration option to the Cache.
type Option func(*Cache)

// WithClock overrides the time source used for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithDefaultTTL sets the TTL used when Get is called with ttl <= 0.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.defaultTTL = ttl
		}
	}
}

// WithLogger sets the logger for miss/refresh diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}
