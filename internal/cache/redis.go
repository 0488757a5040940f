package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "murmur"

// scanBatch bounds how many keys each SCAN/DEL round trips during
// namespace invalidation.
const scanBatch = 256

// Redis is the production Cache backed by a shared Redis instance.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis wraps an existing client. Entries expire after ttl; a
// non-positive ttl stores them without expiry.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func redisKey(ns, key string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, ns, key)
}

func (r *Redis) Get(ctx context.Context, ns, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, redisKey(ns, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("failed to get cached value: %w", err)
	}
	return value, nil
}

func (r *Redis) Set(ctx context.Context, ns, key string, value []byte) error {
	if err := r.client.Set(ctx, redisKey(ns, key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache value: %w", err)
	}
	return nil
}

func (r *Redis) Invalidate(ctx context.Context, ns, key string) error {
	if err := r.client.Del(ctx, redisKey(ns, key)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached value: %w", err)
	}
	return nil
}

// InvalidateAll removes every entry in the namespace. Redis has no
// native prefix delete, so it walks matching keys with SCAN and
// deletes them in batches.
func (r *Redis) InvalidateAll(ctx context.Context, ns string) error {
	pattern := fmt.Sprintf("%s:%s:*", keyPrefix, ns)

	iter := r.client.Scan(ctx, 0, pattern, scanBatch).Iterator()
	batch := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := r.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("failed to invalidate namespace %s: %w", ns, err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan namespace %s: %w", ns, err)
	}
	if len(batch) > 0 {
		if err := r.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("failed to invalidate namespace %s: %w", ns, err)
		}
	}
	return nil
}
