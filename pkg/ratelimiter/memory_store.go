package ratelimiter

import (
	"context"
	"sync"
	"time"
)

type bucketState struct {
	tokens   int
	refilled time.Time
}

// refill credits whole intervals elapsed since the last refill.
func (s bucketState) refill(now time.Time, cfg Config) bucketState {
	n := now.Sub(s.refilled) / cfg.RefillInterval
	if n <= 0 {
		return s
	}
	credit := int(min(int64(n), int64(cfg.Capacity))) * cfg.RefillRate
	s.tokens = min(cfg.Capacity, s.tokens+credit)
	s.refilled = s.refilled.Add(n * cfg.RefillInterval)
	return s
}

// MemoryStore keeps buckets in process memory. Idle buckets are dropped once
// they would have refilled completely.
type MemoryStore struct {
	mu        sync.Mutex
	buckets   map[string]bucketState
	now       func() time.Time
	lastSweep time.Time
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		buckets: make(map[string]bucketState),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lastSweep = s.now()
	return s
}

func (s *MemoryStore) ConsumeTokens(_ context.Context, key string, tokens int, cfg Config) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now, cfg.ttl())

	st, ok := s.buckets[key]
	if !ok {
		st = bucketState{tokens: cfg.Capacity, refilled: now}
	}
	st = st.refill(now, cfg)

	remaining := st.tokens - tokens
	if remaining >= 0 {
		st.tokens = remaining
	}
	s.buckets[key] = st
	return remaining, st.refilled.Add(cfg.RefillInterval), nil
}

func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.buckets, key)
	s.mu.Unlock()
	return nil
}

// Len returns the number of tracked buckets.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

func (s *MemoryStore) sweep(now time.Time, idle time.Duration) {
	if now.Sub(s.lastSweep) < idle {
		return
	}
	s.lastSweep = now
	for key, st := range s.buckets {
		if now.Sub(st.refilled) >= idle {
			delete(s.buckets, key)
		}
	}
}
