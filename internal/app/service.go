// Package service provides the core analytics service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	repository "github.com/hirewire/pulse/internal/adapters/repository"
	"github.com/hirewire/pulse/internal/domain/aggregate"
	"github.com/hirewire/pulse/internal/domain/dedupe"
	"github.com/hirewire/pulse/internal/domain/model"
	"github.com/hirewire/pulse/internal/domain/types"
	"github.com/hirewire/pulse/pkg/logger"
	"github.com/hirewire/pulse/pkg/metrics"
)

// Default orchestration settings; overridable through options.
const (
	defaultQueryTimeout = 5 * time.Second
	defaultEventsLimit  = 500
)

// Service implements the API dependencies for the analytics system. It
// resolves metrics to their event-name allow lists, runs workspace-scoped
// queries against the event store, and reduces the rows with the pure
// aggregators. Aggregation state never outlives a request.
type Service struct {
	store        repository.Store
	deduper      dedupe.Deduper
	logger       logger.Logger
	queryTimeout time.Duration
	eventsLimit  int
	dedupeSize   int
	now          func() time.Time
	startedAt    time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the event store backing the service.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithQueryTimeout bounds each outbound event store call.
func WithQueryTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.queryTimeout = d
		}
	}
}

// WithDedupeSize sets the size of the ingest idempotency cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithEventsLimit caps rows returned by the raw events listing.
func WithEventsLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.eventsLimit = n
		}
	}
}

// WithClock overrides the service time source for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Service. Without options it runs on an in-memory store,
// which suits tests and local development.
func New(opts ...Option) *Service {
	s := &Service{
		queryTimeout: defaultQueryTimeout,
		eventsLimit:  defaultEventsLimit,
		dedupeSize:   0,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewMemStore()
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	var dedupeOpts []dedupe.Option
	if s.dedupeSize > 0 {
		dedupeOpts = append(dedupeOpts, dedupe.WithMaxSize(s.dedupeSize))
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupeOpts...)
	s.startedAt = s.now()
	return s
}

// queryEvents runs one bounded event store call and records its latency.
func (s *Service) queryEvents(ctx context.Context, op string, q repository.Query) ([]model.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	start := time.Now()
	events, err := s.store.QueryEvents(ctx, q)
	metrics.RecordStoreQuery(op, float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordStoreError(op)
		s.logger.Warn(ctx, "event store query failed",
			logger.String("operation", op),
			logger.String("workspace", q.WorkspaceID),
			logger.Error(err))
		return nil, err
	}
	return events, nil
}

// Timeseries returns one zero-filled bucket per UTC day in the window
// starting at start and spanning days.
func (s *Service) Timeseries(ctx context.Context, workspaceID string, metric types.Metric, start time.Time, days int) ([]types.Point, error) {
	events, err := s.queryEvents(ctx, "timeseries", repository.Query{
		WorkspaceID: workspaceID,
		EventNames:  metric.EventNames(),
		Start:       start,
		End:         start.AddDate(0, 0, days),
	})
	if err != nil {
		return nil, err
	}
	return aggregate.Timeseries(events, start, days), nil
}

// Heatmap returns sparse per-day cells for the window.
func (s *Service) Heatmap(ctx context.Context, workspaceID string, metric types.Metric, start time.Time, days int) ([]types.Cell, error) {
	events, err := s.queryEvents(ctx, "heatmap", repository.Query{
		WorkspaceID: workspaceID,
		EventNames:  metric.EventNames(),
		Start:       start,
		End:         start.AddDate(0, 0, days),
	})
	if err != nil {
		return nil, err
	}
	return aggregate.Heatmap(events), nil
}

// TeammateLeaderboard ranks users by placements created inside [start, end).
func (s *Service) TeammateLeaderboard(ctx context.Context, workspaceID string, start, end time.Time, limit, offset int) ([]types.TeammateRow, int, error) {
	events, err := s.queryEvents(ctx, "leaderboard_teammates", repository.Query{
		WorkspaceID: workspaceID,
		EventNames:  types.MetricPlacements.EventNames(),
		Start:       start,
		End:         end,
	})
	if err != nil {
		return nil, 0, err
	}
	rows, total := aggregate.Teammates(events, limit, offset)
	return rows, total, nil
}

// CompanyLeaderboard ranks companies by cv-to-placement conversion inside
// [start, end). Two independent queries feed the aggregation; neither
// depends on the other, so no transactional coupling is needed.
func (s *Service) CompanyLeaderboard(ctx context.Context, workspaceID string, start, end time.Time, limit, offset int) ([]types.CompanyRow, int, error) {
	cvSent, err := s.queryEvents(ctx, "leaderboard_companies", repository.Query{
		WorkspaceID: workspaceID,
		EventNames:  types.MetricCVSent.EventNames(),
		Start:       start,
		End:         end,
	})
	if err != nil {
		return nil, 0, err
	}
	placements, err := s.queryEvents(ctx, "leaderboard_companies", repository.Query{
		WorkspaceID: workspaceID,
		EventNames:  types.MetricPlacements.EventNames(),
		Start:       start,
		End:         end,
	})
	if err != nil {
		return nil, 0, err
	}
	rows, total := aggregate.Companies(cvSent, placements, limit, offset)
	return rows, total, nil
}

// Events lists raw events newest-first for the window, with optional
// user/company equality filters.
func (s *Service) Events(ctx context.Context, workspaceID string, metric types.Metric, start, end time.Time, userID, company string) ([]model.Event, error) {
	return s.queryEvents(ctx, "events", repository.Query{
		WorkspaceID: workspaceID,
		EventNames:  metric.EventNames(),
		Start:       start,
		End:         end,
		UserID:      userID,
		Company:     company,
		OrderDesc:   true,
		Limit:       s.eventsLimit,
	})
}

// IngestEvent stores one event. A missing event id gets a generated one;
// a repeated id acks as a duplicate without touching the store. When the
// insert fails the id is unrecorded so the producer's retry can succeed.
func (s *Service) IngestEvent(ctx context.Context, e model.Event) (bool, error) {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.TS.IsZero() {
		e.TS = s.now().UTC()
	}

	if s.deduper.SeenAndRecord(ctx, e.EventID) {
		metrics.RecordEventDuplicate()
		return true, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	if err := s.store.InsertEvent(ctx, e); err != nil {
		s.deduper.Unrecord(ctx, e.EventID)
		metrics.RecordStoreError("insert_event")
		return false, err
	}
	metrics.RecordEventIngested()
	return false, nil
}

// CaptureLead stores one marketing lead and returns it with its
// generated id.
func (s *Service) CaptureLead(ctx context.Context, l model.Lead) (model.Lead, error) {
	l.LeadID = uuid.NewString()
	l.CreatedAt = s.now().UTC()

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	if err := s.store.InsertLead(ctx, l); err != nil {
		metrics.RecordStoreError("insert_lead")
		return model.Lead{}, err
	}
	metrics.RecordLeadCaptured()
	return l, nil
}

// GetStats exposes service counters for the stats endpoint.
func (s *Service) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"dedupeEntries": s.deduper.Size(),
		"uptimeSeconds": int64(s.now().Sub(s.startedAt).Seconds()),
	}
}
