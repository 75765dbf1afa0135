// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/hirewire/pulse/internal/domain/model"
)

// LeadsDependencies defines the interface for lead capture.
type LeadsDependencies interface {
	CaptureLead(ctx context.Context, l model.Lead) (model.Lead, error)
}

// LeadsHandler handles marketing lead capture requests.
type LeadsHandler struct {
	deps LeadsDependencies
}

// NewLeadsHandler creates a new leads handler.
func NewLeadsHandler(deps LeadsDependencies) *LeadsHandler {
	return &LeadsHandler{deps: deps}
}

type leadRequest struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Company string `json:"company"`
}

func (l leadRequest) validate() error {
	email := strings.TrimSpace(l.Email)
	if email == "" {
		return errors.New("missing email")
	}
	if !strings.Contains(email, "@") {
		return errors.New("invalid email")
	}
	return nil
}

type leadResponse struct {
	LeadID string `json:"leadId"`
}

// HandlePostLead handles POST /api/leads requests. Lead capture is a
// write path: a store failure surfaces as a 500 rather than degrading.
func (h *LeadsHandler) HandlePostLead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req leadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	lead, err := h.deps.CaptureLead(r.Context(), model.Lead{
		Email:   strings.TrimSpace(req.Email),
		Name:    strings.TrimSpace(req.Name),
		Company: strings.TrimSpace(req.Company),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "upstream_error", err)
		return
	}
	writeJSON(w, http.StatusCreated, leadResponse{LeadID: lead.LeadID})
}
