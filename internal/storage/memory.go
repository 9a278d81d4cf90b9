package storage

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

var _ Backend = (*MemoryBackend)(nil)

// idleTTL is how long a per-key limiter may sit unused before it is evicted.
const idleTTL = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type MemoryBackend struct {
	limiters  map[string]*limiterEntry
	limiterMu sync.Mutex
	rateLimit rate.Limit
	rateBurst int

	done      chan struct{}
	closeOnce sync.Once
}

func NewMemoryBackend(ratePerSec float64, burst int) *MemoryBackend {
	m := &MemoryBackend{
		limiters:  make(map[string]*limiterEntry),
		rateLimit: rate.Limit(ratePerSec),
		rateBurst: burst,
		done:      make(chan struct{}),
	}

	go m.cleanupLoop()

	return m
}

func (m *MemoryBackend) Allow(_ context.Context, key string) (RateLimitResult, error) {
	now := time.Now()

	m.limiterMu.Lock()
	entry, ok := m.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(m.rateLimit, m.rateBurst)}
		m.limiters[key] = entry
	}
	entry.lastSeen = now
	m.limiterMu.Unlock()

	r := entry.limiter.ReserveN(now, 1)
	if !r.OK() {
		return RateLimitResult{Allowed: false, RetryAfter: time.Second}, nil
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return RateLimitResult{Allowed: false, RetryAfter: delay}, nil
	}
	return RateLimitResult{Allowed: true}, nil
}

func (m *MemoryBackend) Close() error {
	m.closeOnce.Do(func() { close(m.done) })
	return nil
}

func (m *MemoryBackend) Ping(_ context.Context) error {
	return nil
}

func (m *MemoryBackend) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.evictIdle(time.Now())
		case <-m.done:
			return
		}
	}
}

func (m *MemoryBackend) evictIdle(now time.Time) {
	m.limiterMu.Lock()
	defer m.limiterMu.Unlock()
	for key, entry := range m.limiters {
		if now.Sub(entry.lastSeen) > idleTTL {
			delete(m.limiters, key)
		}
	}
}
