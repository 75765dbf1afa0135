// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/hirewire/pulse/internal/domain/types"
	"github.com/hirewire/pulse/pkg/metrics"
)

// HeatmapDependencies defines the interface for heatmap queries.
type HeatmapDependencies interface {
	Heatmap(ctx context.Context, workspaceID string, metric types.Metric, start time.Time, days int) ([]types.Cell, error)
}

// HeatmapHandler handles heatmap requests.
type HeatmapHandler struct {
	deps HeatmapDependencies
}

// NewHeatmapHandler creates a new heatmap handler.
func NewHeatmapHandler(deps HeatmapDependencies) *HeatmapHandler {
	return &HeatmapHandler{deps: deps}
}

type heatmapResponse struct {
	Cells []types.Cell `json:"cells"`
}

// HandleGetHeatmap handles GET /api/analytics/heatmap requests. The
// heatmap defaults to stage moves, the only metric spanning two event
// names; other metrics remain selectable.
func (h *HeatmapHandler) HandleGetHeatmap(w http.ResponseWriter, r *http.Request) {
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
	metric := types.MetricStageMoves
	if raw := q.Get("metric"); raw != "" {
		var ok bool
		if metric, ok = types.ParseMetric(raw); !ok {
			writeError(w, http.StatusBadRequest, "invalid metric", nil)
			return
		}
	}
	rng, ok := types.ParseRange(q.Get("range"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid range", nil)
		return
	}

	start, _ := rng.Window(time.Now(), false)
	cells, err := h.deps.Heatmap(r.Context(), workspaceID, metric, start, rng.Days())
	if err != nil {
		metrics.RecordDegradedResponse("heatmap")
		writeJSON(w, http.StatusOK, heatmapResponse{Cells: []types.Cell{}})
		return
	}
	writeJSON(w, http.StatusOK, heatmapResponse{Cells: cells})
}
