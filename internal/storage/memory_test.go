package storage

import (
	"sync"
	"testing"
	"time"
)

func TestMemoryBackendAllow(t *testing.T) {
	t.Parallel()

	m := NewMemoryBackend(1, 2)
	t.Cleanup(func() { _ = m.Close() })

	for i := range 2 {
		res, err := m.Allow(t.Context(), "203.0.113.7")
		if err != nil {
			t.Fatalf("Allow() error = %v", err)
		}
		if !res.Allowed {
			t.Fatalf("request %d: Allowed = false, want true", i)
		}
	}

	res, err := m.Allow(t.Context(), "203.0.113.7")
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if res.Allowed {
		t.Fatal("request over burst: Allowed = true, want false")
	}
	if res.RetryAfter <= 0 || res.RetryAfter > time.Second {
		t.Errorf("RetryAfter = %v, want within (0, 1s]", res.RetryAfter)
	}
}

func TestMemoryBackendKeysAreIndependent(t *testing.T) {
	t.Parallel()

	m := NewMemoryBackend(1, 1)
	t.Cleanup(func() { _ = m.Close() })

	if res, _ := m.Allow(t.Context(), "a"); !res.Allowed {
		t.Fatal("first request for a was rejected")
	}
	if res, _ := m.Allow(t.Context(), "a"); res.Allowed {
		t.Fatal("second request for a was allowed")
	}
	if res, _ := m.Allow(t.Context(), "b"); !res.Allowed {
		t.Fatal("first request for b was rejected")
	}
}

func TestMemoryBackendRejectionDoesNotConsumeTokens(t *testing.T) {
	t.Parallel()

	m := NewMemoryBackend(1, 1)
	t.Cleanup(func() { _ = m.Close() })

	_, _ = m.Allow(t.Context(), "k")
	first, _ := m.Allow(t.Context(), "k")
	second, _ := m.Allow(t.Context(), "k")

	if first.Allowed || second.Allowed {
		t.Fatal("requests over burst were allowed")
	}
	if second.RetryAfter > first.RetryAfter {
		t.Errorf("RetryAfter grew from %v to %v after a rejection", first.RetryAfter, second.RetryAfter)
	}
}

func TestMemoryBackendEvictIdle(t *testing.T) {
	t.Parallel()

	m := NewMemoryBackend(1, 1)
	t.Cleanup(func() { _ = m.Close() })

	_, _ = m.Allow(t.Context(), "stale")
	m.evictIdle(time.Now().Add(idleTTL + time.Second))

	m.limiterMu.Lock()
	n := len(m.limiters)
	m.limiterMu.Unlock()
	if n != 0 {
		t.Errorf("limiters = %d after eviction, want 0", n)
	}
}

func TestMemoryBackendConcurrent(t *testing.T) {
	t.Parallel()

	const burst = 10
	m := NewMemoryBackend(0.001, burst)
	t.Cleanup(func() { _ = m.Close() })

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for range 50 {
		wg.Go(func() {
			res, err := m.Allow(t.Context(), "shared")
			if err != nil {
				t.Errorf("Allow() error = %v", err)
				return
			}
			if res.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		})
	}
	wg.Wait()

	if allowed != burst {
		t.Errorf("allowed = %d, want %d", allowed, burst)
	}
}

func TestMemoryBackendCloseIdempotent(t *testing.T) {
	t.Parallel()

	m := NewMemoryBackend(1, 1)
	if err := m.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}
