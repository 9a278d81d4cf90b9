package storage

import (
	"context"
	"time"
)

type RateLimitResult struct {
	Allowed    bool
	RetryAfter time.Duration
}

type RateLimiter interface {
	Allow(ctx context.Context, key string) (RateLimitResult, error)
}

type Backend interface {
	RateLimiter

	Close() error

	Ping(ctx context.Context) error
}
