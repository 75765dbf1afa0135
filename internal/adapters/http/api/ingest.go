// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/hirewire/pulse/internal/domain/model"
)

// IngestDependencies defines the interface for event ingestion.
type IngestDependencies interface {
	IngestEvent(ctx context.Context, e model.Event) (duplicate bool, err error)
}

// IngestHandler handles event ingest requests.
type IngestHandler struct {
	deps IngestDependencies
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(deps IngestDependencies) *IngestHandler {
	return &IngestHandler{deps: deps}
}

// ingestRequest mirrors the beacon payload producers send.
type ingestRequest struct {
	EventID     string `json:"eventId"`
	WorkspaceID string `json:"workspaceId"`
	EventName   string `json:"eventName"`
	TS          string `json:"ts"`
	UserID      string `json:"userId"`
	Company     string `json:"company"`
	Stage       string `json:"stage"`
}

func (e ingestRequest) validate() error {
	switch {
	case strings.TrimSpace(e.WorkspaceID) == "":
		return errors.New("missing workspaceId")
	case strings.TrimSpace(e.EventName) == "":
		return errors.New("missing eventName")
	}
	if e.TS != "" {
		if _, err := time.Parse(time.RFC3339, e.TS); err != nil {
			return errors.New("invalid ts; must be RFC3339")
		}
	}
	return nil
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// HandlePostEvent handles POST /api/analytics/ingest requests. Unlike the
// dashboard reads, a store failure here surfaces as a 500 with the
// provider's message: the producer retries, and the dedupe cache makes
// that retry safe.
func (h *IngestHandler) HandlePostEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if strings.TrimSpace(req.WorkspaceID) == "" {
		writeError(w, http.StatusBadRequest, "workspaceId required", nil)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	event := model.Event{
		EventID:     req.EventID,
		WorkspaceID: req.WorkspaceID,
		EventName:   req.EventName,
		UserID:      req.UserID,
		Company:     req.Company,
		Stage:       req.Stage,
	}
	if req.TS != "" {
		event.TS, _ = time.Parse(time.RFC3339, req.TS)
	}

	duplicate, err := h.deps.IngestEvent(r.Context(), event)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "upstream_error", err)
		return
	}
	if duplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
