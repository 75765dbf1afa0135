package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/hirewire/pulse/internal/domain/model"
)

// MemStore implements Store against in-process slices. It backs tests
// and local runs without a database; filtering mirrors the SQL the
// PostgresStore renders.
type MemStore struct {
	mu     sync.RWMutex
	events []model.Event
	leads  []model.Lead
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// QueryEvents implements Store.
func (s *MemStore) QueryEvents(_ context.Context, q Query) ([]model.Event, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]model.Event, 0)
	for _, e := range s.events {
		if e.WorkspaceID != q.WorkspaceID {
			continue
		}
		if e.TS.Before(q.Start) || !e.TS.Before(q.End) {
			continue
		}
		if len(q.EventNames) > 0 && !contains(q.EventNames, e.EventName) {
			continue
		}
		if q.UserID != "" && e.UserID != q.UserID {
			continue
		}
		if q.Company != "" && e.Company != q.Company {
			continue
		}
		matched = append(matched, e)
	}

	if q.OrderDesc {
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].TS.After(matched[j].TS)
		})
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

// InsertEvent implements Store.
func (s *MemStore) InsertEvent(_ context.Context, e model.Event) error {
	if e.WorkspaceID == "" {
		return ErrMissingWorkspace
	}
	if e.EventName == "" {
		return ErrMissingEventName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

// InsertLead implements Store.
func (s *MemStore) InsertLead(_ context.Context, l model.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = append(s.leads, l)
	return nil
}

// Leads returns a copy of the stored leads, for tests.
func (s *MemStore) Leads() []model.Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Lead, len(s.leads))
	copy(out, s.leads)
	return out
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
