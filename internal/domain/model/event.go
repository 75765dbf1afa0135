// Package model contains domain models passed between layers.
package model

import "time"

// Event is one row of the workspace-scoped events table. Events are
// produced upstream, immutable once written, and read-only for the
// analytics layer except for the ingest path.
type Event struct {
	EventID     string    // unique id for idempotency
	WorkspaceID string    // tenant boundary; every query is scoped to one workspace
	EventName   string    // e.g. "placement_created", "cv_sent"
	TS          time.Time // event timestamp, UTC
	UserID      string    // optional dimension, empty when absent
	Company     string    // optional dimension, empty when absent
	Stage       string    // optional dimension, empty when absent
}

// Lead is a captured marketing lead from the public site.
type Lead struct {
	LeadID    string
	Email     string
	Name      string
	Company   string
	CreatedAt time.Time
}
