package webhook

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"sync/atomic"
	"time"
)

// Secret is a webhook signing secret as issued by Revolut.
type Secret string

// Fingerprint identifies a secret in logs without revealing it.
func (s Secret) Fingerprint() string {
	const fingerprintLen = 12
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])[:fingerprintLen]
}

const maxRetained = 3

type retiredSecret struct {
	secret    Secret
	expiresAt time.Time
}

// secretSet is immutable once published.
type secretSet struct {
	current  Secret
	previous []retiredSecret
}

// Store holds the signing secrets the authenticator checks against.
// Readers never lock; Set publishes a fresh snapshot atomically.
type Store struct {
	mu       sync.Mutex
	snapshot atomic.Pointer[secretSet]
	grace    time.Duration
	now      func() time.Time
}

type StoreOption func(*Store)

// WithRotationGrace keeps a replaced secret valid for d after Set.
func WithRotationGrace(d time.Duration) StoreOption {
	return func(s *Store) { s.grace = d }
}

func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

func NewStore(opts ...StoreOption) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Set publishes secret as the current one. Empty secrets are ignored, as is
// re-publishing the current secret.
func (s *Store) Set(secret Secret) {
	if secret == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.snapshot.Load()
	if old == nil {
		s.snapshot.Store(&secretSet{current: secret})
		return
	}
	if old.current == secret {
		return
	}

	next := &secretSet{current: secret}
	if s.grace > 0 {
		now := s.now()
		next.previous = append(next.previous, retiredSecret{secret: old.current, expiresAt: now.Add(s.grace)})
		for _, r := range old.previous {
			if len(next.previous) == maxRetained {
				break
			}
			if r.secret != secret && now.Before(r.expiresAt) {
				next.previous = append(next.previous, r)
			}
		}
	}
	s.snapshot.Store(next)
}

// Current returns the most recently provisioned secret, or false if none
// has been provisioned yet.
func (s *Store) Current() (Secret, bool) {
	set := s.snapshot.Load()
	if set == nil {
		return "", false
	}
	return set.current, true
}

// Valid returns the current secret followed by any replaced secrets still
// inside their grace period at now. It is empty before the first Set.
func (s *Store) Valid(now time.Time) []Secret {
	set := s.snapshot.Load()
	if set == nil {
		return nil
	}
	secrets := make([]Secret, 0, 1+len(set.previous))
	secrets = append(secrets, set.current)
	for _, r := range set.previous {
		if now.Before(r.expiresAt) {
			secrets = append(secrets, r.secret)
		}
	}
	return secrets
}

// Ready reports whether a secret has been provisioned.
func (s *Store) Ready() bool {
	return s.snapshot.Load() != nil
}
