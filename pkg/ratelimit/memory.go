package ratelimit

import (
	"context"
	"sync"
	"time"
)

// entry is one per-key fixed-window counter.
type entry struct {
	count       int
	windowStart time.Time
}

// MemoryStore is the default process-local CounterStore: a mutex-guarded
// counter map. Entries live for the process lifetime; a fresh window
// overwrites the stale one in place.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryStore creates an in-memory counter store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hit implements CounterStore. The decision is check-then-increment: the
// request that would cross max is reported limited and not counted, so
// the stored count never exceeds max.
func (s *MemoryStore) Hit(_ context.Context, key string, window time.Duration, max int) (Result, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || now.Sub(e.windowStart) > window {
		e = entry{count: 1, windowStart: now}
		s.entries[key] = e
		return Result{Remaining: max - 1, ResetAt: now.Add(window)}, nil
	}

	resetAt := e.windowStart.Add(window)
	if e.count >= max {
		return Result{Limited: true, Remaining: 0, ResetAt: resetAt}, nil
	}
	e.count++
	s.entries[key] = e
	return Result{Remaining: max - e.count, ResetAt: resetAt}, nil
}

// Len reports the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// MemoryOption applies a configuration option to the MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock overrides the store's time source for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}
