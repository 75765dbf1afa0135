// Package repository defines the event store interface and errors.
package repository

import (
	"context"
	"time"

	"github.com/hirewire/pulse/internal/domain/model"
)

// Query describes one workspace-scoped read against the events table.
// WorkspaceID is mandatory; every row returned belongs to exactly that
// workspace. Start/End bound a half-open interval [Start, End).
type Query struct {
	WorkspaceID string
	EventNames  []string  // allow-listed names; empty means no name filter
	Start       time.Time
	End         time.Time
	UserID      string // optional equality filter
	Company     string // optional equality filter
	OrderDesc   bool   // order by timestamp descending (raw listings)
	Limit       int    // cap on returned rows; 0 means no cap
}

// Store provides access to the remote events and leads tables. Failures
// surface to the caller unchanged; the decision to degrade to an empty
// result belongs to the handler layer, not here.
type Store interface {
	// QueryEvents returns events matching q. Ordering is unspecified
	// unless q.OrderDesc is set.
	QueryEvents(ctx context.Context, q Query) ([]model.Event, error)

	// InsertEvent writes one immutable event row.
	InsertEvent(ctx context.Context, e model.Event) error

	// InsertLead writes one captured marketing lead.
	InsertLead(ctx context.Context, l model.Lead) error
}
