package repository

import "time"

// PostgresOption applies a configuration option to the PostgresStore.
type PostgresOption func(*PostgresStore)

// WithMaxConns caps the pgx connection pool size.
func WithMaxConns(n int32) PostgresOption {
	return func(s *PostgresStore) {
		if n > 0 {
			s.maxConns = n
		}
	}
}

// WithConnectTimeout bounds connection establishment and the startup ping.
func WithConnectTimeout(d time.Duration) PostgresOption {
	return func(s *PostgresStore) {
		if d > 0 {
			s.connectTimeout = d
		}
	}
}
