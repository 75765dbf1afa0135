// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/hirewire/pulse/internal/domain/types"
	"github.com/hirewire/pulse/pkg/metrics"
)

// TimeseriesDependencies defines the interface for timeseries queries.
type TimeseriesDependencies interface {
	Timeseries(ctx context.Context, workspaceID string, metric types.Metric, start time.Time, days int) ([]types.Point, error)
}

// TimeseriesHandler handles timeseries requests.
type TimeseriesHandler struct {
	deps TimeseriesDependencies
}

// NewTimeseriesHandler creates a new timeseries handler.
func NewTimeseriesHandler(deps TimeseriesDependencies) *TimeseriesHandler {
	return &TimeseriesHandler{deps: deps}
}

type timeseriesResponse struct {
	Points []types.Point `json:"points"`
}

// HandleGetTimeseries handles GET /api/analytics/timeseries requests.
// On upstream failure it degrades to an empty series with a 200 so the
// dashboard keeps rendering; only parameter errors surface as 4xx.
func (h *TimeseriesHandler) HandleGetTimeseries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	workspaceID := q.Get("workspaceId")
	if workspaceID == "" {
		writeError(w, http.StatusBadRequest, "workspaceId required", nil)
		return
	}
	metric, ok := types.ParseMetric(q.Get("metric"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid metric", nil)
		return
	}
	rng, ok := types.ParseRange(q.Get("range"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid range", nil)
		return
	}
	prev := isTruthy(q.Get("prev"))

	start, _ := rng.Window(time.Now(), prev)
	points, err := h.deps.Timeseries(r.Context(), workspaceID, metric, start, rng.Days())
	if err != nil {
		metrics.RecordDegradedResponse("timeseries")
		writeJSON(w, http.StatusOK, timeseriesResponse{Points: []types.Point{}})
		return
	}
	writeJSON(w, http.StatusOK, timeseriesResponse{Points: points})
}

// isTruthy accepts the flag spellings dashboards send.
func isTruthy(s string) bool {
	return s == "1" || s == "true"
}
