package repository

import "errors"

// Sentinel kinds for event store errors.
var (
	ErrMissingWorkspace = errors.New("workspace id required")
	ErrInvalidRange     = errors.New("invalid time range")
	ErrMissingEventName = errors.New("event name required")
)

// validate rejects queries that could leak rows across workspaces or
// scan the table unbounded.
func (q Query) validate() error {
	if q.WorkspaceID == "" {
		return ErrMissingWorkspace
	}
	if q.Start.IsZero() || q.End.IsZero() || !q.End.After(q.Start) {
		return ErrInvalidRange
	}
	return nil
}
