package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ Backend = (*RedisBackend)(nil)

const rateLimitKeyPrefix = "revhook:ratelimit:"

type RedisConfig struct {
	Client *redis.Client
}

type RedisBackend struct {
	client     *redis.Client
	rateLimit  int
	rateWindow time.Duration
}

// NewRedisBackend allows rateLimit requests per key in any one-second sliding window.
func NewRedisBackend(cfg RedisConfig, rateLimit int) (*RedisBackend, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if rateLimit <= 0 {
		return nil, fmt.Errorf("rate limit must be positive, got %d", rateLimit)
	}
	return &RedisBackend{
		client:     cfg.Client,
		rateLimit:  rateLimit,
		rateWindow: time.Second,
	}, nil
}

func (r *RedisBackend) Allow(ctx context.Context, key string) (RateLimitResult, error) {
	params := rateLimitParams{
		window: r.rateWindow,
		limit:  r.rateLimit,
		ttl:    r.rateWindow + time.Second,
	}

	allowed, err := runRateLimitScript(ctx, r.client, rateLimitKeyPrefix+key, params)
	if err != nil {
		return RateLimitResult{}, err
	}
	if allowed {
		return RateLimitResult{Allowed: true}, nil
	}

	return RateLimitResult{
		Allowed:    false,
		RetryAfter: r.rateWindow,
	}, nil
}

func (r *RedisBackend) Close() error {
	return r.client.Close()
}

func (r *RedisBackend) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
