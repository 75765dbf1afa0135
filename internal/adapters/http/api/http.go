// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hirewire/pulse/internal/domain/model"
	"github.com/hirewire/pulse/internal/domain/types"
	"github.com/hirewire/pulse/pkg/ratelimit"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Read operations back the dashboard endpoints.
	Timeseries(ctx context.Context, workspaceID string, metric types.Metric, start time.Time, days int) ([]types.Point, error)
	Heatmap(ctx context.Context, workspaceID string, metric types.Metric, start time.Time, days int) ([]types.Cell, error)
	TeammateLeaderboard(ctx context.Context, workspaceID string, start, end time.Time, limit, offset int) ([]types.TeammateRow, int, error)
	CompanyLeaderboard(ctx context.Context, workspaceID string, start, end time.Time, limit, offset int) ([]types.CompanyRow, int, error)
	Events(ctx context.Context, workspaceID string, metric types.Metric, start, end time.Time, userID, company string) ([]model.Event, error)

	// Write operations.
	IngestEvent(ctx context.Context, e model.Event) (duplicate bool, err error)
	CaptureLead(ctx context.Context, l model.Lead) (model.Lead, error)
}

// Server wires HTTP routes for the analytics API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	timeseriesHandler  *TimeseriesHandler
	heatmapHandler     *HeatmapHandler
	leaderboardHandler *LeaderboardHandler
	eventsHandler      *EventsHandler
	ingestHandler      *IngestHandler
	leadsHandler       *LeadsHandler
	limiter            *ratelimit.Limiter
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, limiter *ratelimit.Limiter) *Server {
	if limiter == nil {
		limiter = ratelimit.New()
	}
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		timeseriesHandler:  NewTimeseriesHandler(deps),
		heatmapHandler:     NewHeatmapHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps),
		eventsHandler:      NewEventsHandler(deps),
		ingestHandler:      NewIngestHandler(deps),
		leadsHandler:       NewLeadsHandler(deps),
		limiter:            limiter,
	}
}

// Register attaches all HTTP routes to mux. Read endpoints check the
// mandatory workspaceId before the rate-limit counter is consumed, so a
// 400 never costs the client quota.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	read := func(endpoint string, h http.HandlerFunc) http.HandlerFunc {
		return MetricsMiddleware(
			RequireWorkspace(RateLimitMiddleware(s.limiter, ratelimit.CategoryRead, h)),
			endpoint,
		)
	}

	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("/api/analytics/timeseries", read("timeseries", s.timeseriesHandler.HandleGetTimeseries))
	mux.HandleFunc("/api/analytics/heatmap", read("heatmap", s.heatmapHandler.HandleGetHeatmap))
	mux.HandleFunc("/api/analytics/leaderboard", read("leaderboard", s.leaderboardHandler.HandleGetLeaderboard))
	mux.HandleFunc("/api/analytics/events", read("events", s.eventsHandler.HandleGetEvents))

	mux.HandleFunc("/api/analytics/ingest", MetricsMiddleware(
		RateLimitMiddleware(s.limiter, ratelimit.CategoryIngest, s.ingestHandler.HandlePostEvent),
		"ingest",
	))
	mux.HandleFunc("/api/leads", MetricsMiddleware(
		RateLimitMiddleware(s.limiter, ratelimit.CategoryLead, s.leadsHandler.HandlePostLead),
		"leads",
	))
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	resp := errorResponse{Error: code}
	if err != nil {
		resp.Message = err.Error()
	}
	writeJSON(w, status, resp)
}
