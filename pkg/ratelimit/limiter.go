// Package ratelimit provides a fixed-window request limiter with a
// pluggable counter store.
//
// The default in-memory store is process-local: under horizontal scaling
// each instance keeps an independent counter map, so enforcement is
// best-effort. That approximation is accepted; deployments needing a
// shared view plug in the Redis-backed store instead.
package ratelimit

import (
	"context"
	"time"
)

// Categories used by the HTTP layer. The limiter key is the category
// joined with the client network address.
const (
	CategoryRead   = "read"
	CategoryIngest = "ingest"
	CategoryLead   = "lead"
)

// Policy is a named fixed-window limit configuration.
type Policy struct {
	Window      time.Duration
	MaxRequests int
}

// Result is the limiter's decision for one request.
type Result struct {
	Limited   bool
	Remaining int
	ResetAt   time.Time
}

// CounterStore tracks request counts per key within fixed windows.
type CounterStore interface {
	// Hit applies one request against key's current window and reports
	// the decision. Implementations must cap the stored count at max so
	// repeated blocked calls cannot grow the counter, and must keep the
	// read-modify-write atomic within the store.
	Hit(ctx context.Context, key string, window time.Duration, max int) (Result, error)
}

// Limiter applies per-category fixed-window policies over a CounterStore.
type Limiter struct {
	store    CounterStore
	policies map[string]Policy
}

// New creates a Limiter. Without options it uses an in-memory store and
// the default policies.
func New(opts ...Option) *Limiter {
	l := &Limiter{
		store:    NewMemoryStore(),
		policies: DefaultPolicies(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// DefaultPolicies returns the per-category limits applied when no
// configuration overrides them.
func DefaultPolicies() map[string]Policy {
	return map[string]Policy{
		CategoryRead:   {Window: time.Minute, MaxRequests: 60},
		CategoryIngest: {Window: time.Minute, MaxRequests: 120},
		CategoryLead:   {Window: time.Minute, MaxRequests: 100},
	}
}

// Policy returns the configured policy for a category.
func (l *Limiter) Policy(category string) (Policy, bool) {
	p, ok := l.policies[category]
	return p, ok
}

// Check applies one request from clientKey against the category's policy.
// Unknown categories and store failures both allow the request: blocking
// legitimate traffic on an internal fault is worse than letting a burst
// through.
func (l *Limiter) Check(ctx context.Context, category, clientKey string) Result {
	p, ok := l.policies[category]
	if !ok {
		return Result{Limited: false, Remaining: -1}
	}
	res, err := l.store.Hit(ctx, category+":"+clientKey, p.Window, p.MaxRequests)
	if err != nil {
		return Result{
			Limited:   false,
			Remaining: p.MaxRequests,
			ResetAt:   time.Now().Add(p.Window),
		}
	}
	return res
}
