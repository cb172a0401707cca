package cache

import (
	"context"
	"time"
)

// Store is the contract over a key/value store with per-key expiry.
// Implementations must treat an expired or absent key as (_, false, nil);
// errors mean the store itself is unavailable.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// DeletePattern removes every key matching a glob pattern.
	DeletePattern(ctx context.Context, pattern string) error
}
