// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/hirewire/pulse/internal/domain/model"
	"github.com/hirewire/pulse/internal/domain/types"
	"github.com/hirewire/pulse/pkg/metrics"
)

// EventsDependencies defines the interface for raw event listings.
type EventsDependencies interface {
	Events(ctx context.Context, workspaceID string, metric types.Metric, start, end time.Time, userID, company string) ([]model.Event, error)
}

// EventsHandler handles raw event listing requests.
type EventsHandler struct {
	deps EventsDependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventsDependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// wireEvent is the JSON shape of one listed event.
type wireEvent struct {
	ID        string    `json:"id"`
	EventName string    `json:"eventName"`
	TS        time.Time `json:"ts"`
	UserID    string    `json:"userId,omitempty"`
	Company   string    `json:"company,omitempty"`
	Stage     string    `json:"stage,omitempty"`
}

type eventsResponse struct {
	Events []wireEvent `json:"events"`
}

// HandleGetEvents handles GET /api/analytics/events requests. The window
// comes from an explicit date (one UTC day) when present, otherwise from
// the range parameter.
func (h *EventsHandler) HandleGetEvents(w http.ResponseWriter, r *http.Request) {
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

	var start, end time.Time
	if date := q.Get("date"); date != "" {
		day, err := time.ParseInLocation(types.DayFormat, date, time.UTC)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date", nil)
			return
		}
		start, end = day, day.AddDate(0, 0, 1)
	} else {
		rng, ok := types.ParseRange(q.Get("range"))
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid range", nil)
			return
		}
		start, end = rng.Window(time.Now(), false)
	}

	events, err := h.deps.Events(r.Context(), workspaceID, metric, start, end, q.Get("userId"), q.Get("company"))
	if err != nil {
		metrics.RecordDegradedResponse("events")
		writeJSON(w, http.StatusOK, eventsResponse{Events: []wireEvent{}})
		return
	}

	out := make([]wireEvent, 0, len(events))
	for _, e := range events {
		out = append(out, wireEvent{
			ID:        e.EventID,
			EventName: e.EventName,
			TS:        e.TS.UTC(),
			UserID:    e.UserID,
			Company:   e.Company,
			Stage:     e.Stage,
		})
	}
	writeJSON(w, http.StatusOK, eventsResponse{Events: out})
}
