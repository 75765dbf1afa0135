package ratelimit

// Option applies a configuration option to the Limiter.
type Option func(*Limiter)

// WithStore sets the counter store backing the limiter.
func WithStore(store CounterStore) Option {
	return func(l *Limiter) {
		if store != nil {
			l.store = store
		}
	}
}

// WithPolicy sets or overrides the policy for one category.
func WithPolicy(category string, p Policy) Option {
	return func(l *Limiter) {
		if category != "" && p.MaxRequests > 0 && p.Window > 0 {
			l.policies[category] = p
		}
	}
}

// WithPolicies replaces the whole policy table.
func WithPolicies(policies map[string]Policy) Option {
	return func(l *Limiter) {
		if len(policies) > 0 {
			l.policies = policies
		}
	}
}
