package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/frscdev/offence-register/internal/middleware"
	"github.com/frscdev/offence-register/internal/models"
	"github.com/frscdev/offence-register/internal/offence"
	"github.com/frscdev/offence-register/internal/payment"
	"github.com/frscdev/offence-register/internal/stats"
)

// OffenceRepository defines the repository operations the handlers need.
type OffenceRepository interface {
	List() []models.Offence
	Get(id string) (*models.Offence, error)
	FindByVehicle(vehicleNumber string) []models.Offence
	Create(ctx context.Context, req models.CreateOffenceRequest) (*models.Offence, error)
	Update(ctx context.Context, id string, req models.UpdateOffenceRequest) (*models.Offence, error)
	Delete(ctx context.Context, id string) error
	MarkPaid(ctx context.Context, id, transactionID, gatewayRef string) (*models.Offence, error)
}

// OffenceHandler handles offence record and payment requests.
type OffenceHandler struct {
	repo    OffenceRepository
	gateway payment.Gateway

	// inFlight guards against double submission of the same offence's
	// payment while a charge is pending.
	mu       sync.Mutex
	inFlight map[string]bool
}

// NewOffenceHandler creates a new offence handler.
func NewOffenceHandler(repo OffenceRepository, gateway payment.Gateway) *OffenceHandler {
	return &OffenceHandler{
		repo:     repo,
		gateway:  gateway,
		inFlight: make(map[string]bool),
	}
}

// List returns all offences, optionally filtered by the q search term.
func (h *OffenceHandler) List(w http.ResponseWriter, r *http.Request) {
	offences := stats.Search(h.repo.List(), r.URL.Query().Get("q"))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(offences)
}

// Create records a new offence.
func (h *OffenceHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req models.CreateOffenceRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	created, err := h.repo.Create(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// Get returns a single offence. Vehicle owners can only view their own
// records.
func (h *OffenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	off, err := h.repo.Get(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Offence not found", http.StatusNotFound)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}
	if !canAccess(claims, off) {
		http.Error(w, "Insufficient permissions", http.StatusForbidden)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(off)
}

// Update merges partial fields into an offence.
func (h *OffenceHandler) Update(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req models.UpdateOffenceRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	updated, err := h.repo.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		if errors.Is(err, offence.ErrNotFound) {
			http.Error(w, "Offence not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// Delete removes an offence. Deleting an unknown id succeeds; the desired
// end state is already reached.
func (h *OffenceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.repo.Delete(r.Context(), id); err != nil {
		http.Error(w, "Failed to delete offence", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"deleted": id})
}

// MyOffences returns the caller's vehicle records, optionally filtered by
// payment status (all, Pending, Paid).
func (h *OffenceHandler) MyOffences(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	offences := h.repo.FindByVehicle(claims.Email)
	offences = stats.FilterByStatus(offences, r.URL.Query().Get("status"))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(offences)
}

// Pay charges the card through the gateway and marks the offence paid.
// Concurrent submissions for the same offence are rejected while a charge is
// pending.
func (h *OffenceHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	off, err := h.repo.Get(id)
	if err != nil {
		http.Error(w, "Offence not found", http.StatusNotFound)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}
	if !canAccess(claims, off) {
		http.Error(w, "Insufficient permissions", http.StatusForbidden)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var card models.Card
	if err := json.Unmarshal(body, &card); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	if h.inFlight[id] {
		h.mu.Unlock()
		http.Error(w, "Payment already in progress", http.StatusConflict)
		return
	}
	h.inFlight[id] = true
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.inFlight, id)
		h.mu.Unlock()
	}()

	receipt, err := h.gateway.Charge(r.Context(), card)
	if err != nil {
		var validationErr *payment.ValidationError
		if errors.As(err, &validationErr) {
			http.Error(w, validationErr.Message, http.StatusBadRequest)
			return
		}
		log.WithError(err).WithField("offence_id", id).Error("Payment charge failed")
		http.Error(w, "Payment failed", http.StatusInternalServerError)
		return
	}

	paid, err := h.repo.MarkPaid(r.Context(), id, receipt.TransactionID, receipt.GatewayRef)
	if err != nil {
		log.WithError(err).WithField("offence_id", id).Error("Failed to record payment")
		http.Error(w, "Failed to record payment", http.StatusInternalServerError)
		return
	}
	if paid.PaymentDate != nil {
		receipt.PaymentDate = *paid.PaymentDate
	}

	response := models.PaymentResponse{
		Receipt: *receipt,
		Offence: *paid,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// Receipt returns the printable receipt view for a paid offence.
func (h *OffenceHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	off, err := h.repo.Get(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Offence not found", http.StatusNotFound)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}
	if !canAccess(claims, off) {
		http.Error(w, "Insufficient permissions", http.StatusForbidden)
		return
	}

	if off.PaymentStatus != models.PaymentPaid {
		http.Error(w, "Offence has not been paid", http.StatusBadRequest)
		return
	}

	receipt := models.OffenceReceipt{
		Authority:     "Federal Road Safety Commission",
		Command:       "Lafia Command, Nasarawa State",
		Offence:       *off,
		TransactionID: off.TransactionID,
		GatewayRef:    off.GatewayRef,
	}
	if off.PaymentDate != nil {
		receipt.PaymentDate = *off.PaymentDate
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(receipt)
}

// canAccess reports whether the caller may view or pay the given offence.
func canAccess(claims *models.Claims, off *models.Offence) bool {
	if claims.Role == models.RoleAdmin {
		return true
	}
	return strings.EqualFold(claims.Email, off.VehicleNumber)
}
