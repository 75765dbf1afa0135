package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore is a CounterStore sharing counters across instances through
// Redis. Any Redis failure is surfaced to the Limiter, which fails open.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed counter store.
func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: "ratelimit",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hit implements CounterStore using INCR with a window-length TTL set on
// the first hit. When the incremented count crosses max the counter is
// decremented back so blocked retries cannot grow it past max.
func (s *RedisStore) Hit(ctx context.Context, key string, window time.Duration, max int) (Result, error) {
	redisKey := s.prefix + ":" + key

	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Result{}, fmt.Errorf("redis incr: %w", err)
	}
	if count == 1 {
		if err := s.client.Expire(ctx, redisKey, window).Err(); err != nil {
			return Result{}, fmt.Errorf("redis expire: %w", err)
		}
	}

	ttl, err := s.client.TTL(ctx, redisKey).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}
	resetAt := time.Now().Add(ttl)

	if count > int64(max) {
		if err := s.client.Decr(ctx, redisKey).Err(); err != nil {
			return Result{}, fmt.Errorf("redis decr: %w", err)
		}
		return Result{Limited: true, Remaining: 0, ResetAt: resetAt}, nil
	}

	return Result{Remaining: max - int(count), ResetAt: resetAt}, nil
}

// RedisOption applies a configuration option to the RedisStore.
type RedisOption func(*RedisStore)

// WithKeyPrefix overrides the Redis key prefix.
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}
