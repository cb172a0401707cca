// Package cache provides the read-through cache in front of the
// authoritative store. A cache outage is never fatal: every failure
// degrades to a miss and the authoritative read proceeds.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Cache wraps a Store with JSON serialization and miss-on-error semantics.
type Cache struct {
	store      Store
	defaultTTL time.Duration
	logger     *zap.Logger
}

func New(store Store, defaultTTL time.Duration, logger *zap.Logger) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		store:      store,
		defaultTTL: defaultTTL,
		logger:     logger.With(zap.String("component", "cache")),
	}
}

func (c *Cache) DefaultTTL() time.Duration {
	return c.defaultTTL
}

// Get unmarshals the cached value into out and reports whether it was a
// hit. Store errors and corrupt entries count as misses.
func (c *Cache) Get(ctx context.Context, key string, out interface{}) bool {
	data, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache get degraded to miss", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		c.logger.Warn("cache entry corrupt, treating as miss", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set stores the value; failures are logged and swallowed since the
// authoritative result is already in hand.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Error("cache value marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.Set(ctx, key, string(data), ttl); err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate removes every key matching the pattern. Coarse by design:
// over-invalidation costs a fresh authoritative read, stale reads cost
// correctness.
func (c *Cache) Invalidate(ctx context.Context, pattern string) {
	if err := c.store.DeletePattern(ctx, pattern); err != nil {
		c.logger.Warn("cache invalidation failed", zap.String("pattern", pattern), zap.Error(err))
	}
}

// ReadThrough returns the cached value for key, or executes fetch against
// the authoritative store and populates the cache. Concurrent misses may
// fetch redundantly; that is accepted rather than adding single-flight.
func ReadThrough[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, fetch func(ctx context.Context) (T, error)) (T, error) {
	var cached T
	if c.Get(ctx, key, &cached) {
		return cached, nil
	}

	value, err := fetch(ctx)
	if err != nil {
		return value, err
	}
	c.Set(ctx, key, value, ttl)
	return value, nil
}
