package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/frscdev/offence-register/internal/middleware"
	"github.com/frscdev/offence-register/internal/stats"
)

// SummarySource provides the cached admin dashboard summary.
type SummarySource interface {
	Snapshot() stats.Summary
}

// DashboardHandler serves the derived dashboard aggregates.
type DashboardHandler struct {
	repo    OffenceRepository
	summary SummarySource
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(repo OffenceRepository, summary SummarySource) *DashboardHandler {
	return &DashboardHandler{
		repo:    repo,
		summary: summary,
	}
}

// Admin returns the admin dashboard summary.
func (h *DashboardHandler) Admin(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.summary.Snapshot())
}

// User returns the per-vehicle summary for the caller.
func (h *DashboardHandler) User(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	summary := stats.SummarizeVehicle(h.repo.FindByVehicle(claims.Email))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}
