// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/hirewire/pulse/internal/domain/types"
	"github.com/hirewire/pulse/pkg/metrics"
)

// Default page size when the client sends no limit.
const defaultLeaderboardLimit = 10

// LeaderboardDependencies defines the interface for leaderboard queries.
type LeaderboardDependencies interface {
	TeammateLeaderboard(ctx context.Context, workspaceID string, start, end time.Time, limit, offset int) ([]types.TeammateRow, int, error)
	CompanyLeaderboard(ctx context.Context, workspaceID string, start, end time.Time, limit, offset int) ([]types.CompanyRow, int, error)
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps LeaderboardDependencies
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps}
}

type leaderboardResponse struct {
	Rows  any `json:"rows"`
	Total int `json:"total"`
}

// HandleGetLeaderboard handles GET /api/analytics/leaderboard requests.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
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
	boardType, ok := types.ParseLeaderboardType(q.Get("type"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid type", nil)
		return
	}
	rng, ok := types.ParseRange(q.Get("range"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid range", nil)
		return
	}
	limit := intParam(q.Get("limit"), defaultLeaderboardLimit)
	offset := intParam(q.Get("offset"), 0)

	start, end := rng.Window(time.Now(), false)

	var rows any
	var total int
	var err error
	switch boardType {
	case types.LeaderboardTeammates:
		rows, total, err = h.deps.TeammateLeaderboard(r.Context(), workspaceID, start, end, limit, offset)
	case types.LeaderboardCompanies:
		rows, total, err = h.deps.CompanyLeaderboard(r.Context(), workspaceID, start, end, limit, offset)
	}
	if err != nil {
		metrics.RecordDegradedResponse("leaderboard")
		writeJSON(w, http.StatusOK, leaderboardResponse{Rows: []struct{}{}, Total: 0})
		return
	}
	writeJSON(w, http.StatusOK, leaderboardResponse{Rows: rows, Total: total})
}

// intParam parses a numeric query value, falling back to def on junk.
// Range clamping happens in the aggregation layer.
func intParam(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
