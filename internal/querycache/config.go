package querycache

import (
	"log/slog"
	"time"
)

// DefaultGracePeriod is how long an entry without subscribers is kept
// before it is evicted.
const DefaultGracePeriod = 60 * time.Second

// Option configures a Cache.
type Option func(*Cache)

// WithGracePeriod sets how long an unsubscribed entry survives. Zero evicts
// as soon as the last subscriber leaves and no fetch is in flight.
func WithGracePeriod(d time.Duration) Option {
	return func(c *Cache) {
		if d >= 0 {
			c.grace = d
		}
	}
}

// WithClearOnInvalidate drops an entry's value when one of its tags is
// invalidated instead of serving it while the refetch is in flight.
func WithClearOnInvalidate(clear bool) Option {
	return func(c *Cache) { c.clearOnInvalidate = clear }
}

// WithRetryRejectedOnSubscribe controls whether subscribing to a rejected
// entry starts a new fetch. It is on by default.
func WithRetryRejectedOnSubscribe(retry bool) Option {
	return func(c *Cache) { c.retryRejected = retry }
}

// WithLogger sets the logger used for fetch failures, invalidations and
// evictions. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}
