// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - Load layers defaults, an optional YAML file, then environment variables.
// - External errors must be wrapped via this package's error helpers.
package config

import "context"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// PostgresDSN points at the events database. Empty selects the
	// in-memory store, which suits local runs and tests.
	PostgresDSN string `koanf:"postgres_dsn"`

	// RedisAddr selects the shared rate-limit counter store. Empty keeps
	// the process-local counter map.
	RedisAddr string `koanf:"redis_addr"`

	// QueryTimeoutMS bounds each outbound event store call.
	QueryTimeoutMS int `koanf:"query_timeout_ms"`

	// DedupeSize sets the size of the ingest idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`

	// EventsLimit caps rows returned by the raw events listing.
	EventsLimit int `koanf:"events_limit"`

	// Per-category fixed-window limits, requests per minute.
	ReadLimitPerMin   int `koanf:"read_limit_per_min"`
	IngestLimitPerMin int `koanf:"ingest_limit_per_min"`
	LeadLimitPerMin   int `koanf:"lead_limit_per_min"`
}

// New creates a Config with defaults. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9090",
		PostgresDSN:       "",
		RedisAddr:         "",
		QueryTimeoutMS:    5000,
		DedupeSize:        50_000,
		EventsLimit:       500,
		ReadLimitPerMin:   60,
		IngestLimitPerMin: 120,
		LeadLimitPerMin:   100,
	}
}
