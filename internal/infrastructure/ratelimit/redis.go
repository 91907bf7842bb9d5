package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a sliding window limiter backed by a Redis sorted set
// per key, shared across replicas.
type RedisLimiter struct {
	client    *redis.Client
	keyPrefix string
	limit     int
	window    time.Duration
}

// NewRedisLimiter creates a Redis-backed limiter allowing limit requests per window
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:    client,
		keyPrefix: "ratelimit:",
		limit:     limit,
		window:    window,
	}
}

// Allow records the request in the key's sorted set and reports whether
// it fits in the window. Redis failures deny the request so that an
// unavailable backend cannot lift the limit.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	redisKey := l.keyPrefix + key
	now := time.Now()
	cutoff := now.Add(-l.window)

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", cutoff.UnixNano()))
	countCmd := pipe.ZCard(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{Allowed: false, Limit: l.limit}, err
	}

	count := int(countCmd.Val())
	if count >= l.limit {
		return Result{Allowed: false, Limit: l.limit, Remaining: 0}, nil
	}

	member := fmt.Sprintf("%d-%s", now.UnixNano(), uuid.NewString())
	pipe = l.client.TxPipeline()
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: member})
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{Allowed: false, Limit: l.limit}, err
	}

	return Result{Allowed: true, Limit: l.limit, Remaining: l.limit - count - 1}, nil
}
