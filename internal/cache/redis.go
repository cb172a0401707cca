package cache

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// opTimeout bounds every cache-store round trip so a degraded redis never
// stalls the read path beyond this.
const opTimeout = 250 * time.Millisecond

// RedisStore implements Store on go-redis.
type RedisStore struct {
	client *goredis.Client
}

func NewRedisStore(client *goredis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	data, err := s.client.Get(ctx, key).Result()
	if err == goredis.Nil {
		return "", false, nil // cache miss
	}
	if err != nil {
		return "", false, err
	}
	return data, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) DeletePattern(ctx context.Context, pattern string) error {
	// Invalidation may touch many keys; give it more room than a point op.
	ctx, cancel := context.WithTimeout(ctx, 4*opTimeout)
	defer cancel()

	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) > 0 {
		return s.client.Del(ctx, keys...).Err()
	}
	return nil
}
