// Package offence owns the offence record list: identifier assignment,
// create/update/delete/query operations, seed installation, and persistence.
// Every mutation rewrites the whole list to the register slot and publishes a
// change notification for dashboard subscribers.
package offence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	log "github.com/sirupsen/logrus"

	"github.com/frscdev/offence-register/internal/events"
	"github.com/frscdev/offence-register/internal/models"
	"github.com/frscdev/offence-register/internal/store"
)

// ErrNotFound is returned when no offence matches the requested id.
var ErrNotFound = errors.New("offence not found")

// Accepted layouts for the dateTime field: minute granularity from entry
// forms, second granularity in seeded and imported records.
var dateTimeLayouts = []string{"2006-01-02T15:04:05", "2006-01-02T15:04"}

// Repository owns the offence list. All reads return copies; all mutations
// are serialized by the mutex and persist the whole list before returning.
type Repository struct {
	mu        sync.RWMutex
	store     store.Store
	publisher message.Publisher
	offences  []models.Offence
	seq       int
}

// NewRepository loads the persisted offence list, installing the seed records
// when the slot has never been written. The id counter is persisted
// independently of the list so ids are never reused after deletion; on first
// run it is initialised from the highest seeded id.
func NewRepository(ctx context.Context, st store.Store, publisher message.Publisher) (*Repository, error) {
	offences, err := st.LoadOffences(ctx)
	if errors.Is(err, store.ErrNotFound) {
		offences = Seed()
		if err := st.SaveOffences(ctx, offences); err != nil {
			return nil, fmt.Errorf("failed to install seed records: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to load offences: %w", err)
	}

	seq, err := st.LoadSequence(ctx)
	if errors.Is(err, store.ErrNotFound) {
		seq = highestSequence(offences)
		if err := st.SaveSequence(ctx, seq); err != nil {
			return nil, fmt.Errorf("failed to persist id counter: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to load id counter: %w", err)
	}
	if max := highestSequence(offences); seq < max {
		seq = max
	}

	return &Repository{
		store:     st,
		publisher: publisher,
		offences:  offences,
		seq:       seq,
	}, nil
}

// Seed returns the fixed records installed when no persisted collection
// exists.
func Seed() []models.Offence {
	return []models.Offence{
		{
			ID:            "OFF001",
			OffenderName:  "Adewale Johnson",
			VehicleNumber: "LAG-123-AB",
			OffenceType:   "Speeding",
			Location:      "Lafia-Makurdi Road",
			DateTime:      "2025-01-10T14:30:00",
			FineAmount:    15000,
			PaymentStatus: models.PaymentPending,
		},
		{
			ID:            "OFF002",
			OffenderName:  "Fatima Mohammed",
			VehicleNumber: "NAS-456-CD",
			OffenceType:   "Seatbelt Violation",
			Location:      "Lafia Central Market",
			DateTime:      "2025-01-11T09:15:00",
			FineAmount:    5000,
			PaymentStatus: models.PaymentPaid,
		},
		{
			ID:            "OFF003",
			OffenderName:  "Chukwudi Okafor",
			VehicleNumber: "LAG-789-EF",
			OffenceType:   "Dangerous Driving",
			Location:      "Shabu Junction",
			DateTime:      "2025-01-11T16:45:00",
			FineAmount:    25000,
			PaymentStatus: models.PaymentPending,
		},
	}
}

// List returns all offences in insertion order.
func (r *Repository) List() []models.Offence {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Offence, len(r.offences))
	copy(out, r.offences)
	return out
}

// Get returns the offence with the given id.
func (r *Repository) Get(id string) (*models.Offence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.offences {
		if r.offences[i].ID == id {
			off := r.offences[i]
			return &off, nil
		}
	}
	return nil, ErrNotFound
}

// FindByVehicle returns all offences recorded against the given vehicle
// number, matched case-insensitively.
func (r *Repository) FindByVehicle(vehicleNumber string) []models.Offence {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Offence
	for _, off := range r.offences {
		if strings.EqualFold(off.VehicleNumber, vehicleNumber) {
			out = append(out, off)
		}
	}
	if out == nil {
		out = []models.Offence{}
	}
	return out
}

// Create validates the fields, assigns the next id, appends the record as
// Pending, and persists.
func (r *Repository) Create(ctx context.Context, req models.CreateOffenceRequest) (*models.Offence, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	off := models.Offence{
		ID:            fmt.Sprintf("OFF%03d", r.seq),
		OffenderName:  strings.TrimSpace(req.OffenderName),
		VehicleNumber: normalizeVehicle(req.VehicleNumber),
		OffenceType:   req.OffenceType,
		Location:      strings.TrimSpace(req.Location),
		DateTime:      req.DateTime,
		FineAmount:    req.FineAmount,
		PaymentStatus: models.PaymentPending,
	}
	r.offences = append(r.offences, off)

	if err := r.persistLocked(ctx); err != nil {
		r.offences = r.offences[:len(r.offences)-1]
		r.seq--
		return nil, err
	}
	if err := r.store.SaveSequence(ctx, r.seq); err != nil {
		return nil, fmt.Errorf("failed to persist id counter: %w", err)
	}

	r.notify(events.ActionCreated, off.ID)
	return &off, nil
}

// Update merges the non-nil fields into the matching record and persists.
// All other fields and records are left untouched.
func (r *Repository) Update(ctx context.Context, id string, req models.UpdateOffenceRequest) (*models.Offence, error) {
	if err := validateUpdate(req); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i := range r.offences {
		if r.offences[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrNotFound
	}

	prev := r.offences[idx]
	off := &r.offences[idx]
	if req.OffenderName != nil {
		off.OffenderName = strings.TrimSpace(*req.OffenderName)
	}
	if req.VehicleNumber != nil {
		off.VehicleNumber = normalizeVehicle(*req.VehicleNumber)
	}
	if req.OffenceType != nil {
		off.OffenceType = *req.OffenceType
	}
	if req.Location != nil {
		off.Location = strings.TrimSpace(*req.Location)
	}
	if req.DateTime != nil {
		off.DateTime = *req.DateTime
	}
	if req.FineAmount != nil {
		off.FineAmount = *req.FineAmount
	}

	if err := r.persistLocked(ctx); err != nil {
		r.offences[idx] = prev
		return nil, err
	}

	r.notify(events.ActionUpdated, id)
	updated := r.offences[idx]
	return &updated, nil
}

// Delete removes the matching record and persists. Deleting an unknown id is
// a no-op; the assigned id is never reissued.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i := range r.offences {
		if r.offences[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}

	prev := r.offences
	r.offences = append(r.offences[:idx:idx], r.offences[idx+1:]...)
	if err := r.persistLocked(ctx); err != nil {
		r.offences = prev
		return err
	}

	r.notify(events.ActionDeleted, id)
	return nil
}

// MarkPaid transitions the record to Paid and attaches the payment metadata
// and current timestamp. The status never reverts; marking an already-paid
// record overwrites the transaction metadata.
func (r *Repository) MarkPaid(ctx context.Context, id, transactionID, gatewayRef string) (*models.Offence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i := range r.offences {
		if r.offences[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrNotFound
	}

	prev := r.offences[idx]
	now := time.Now()
	off := &r.offences[idx]
	off.PaymentStatus = models.PaymentPaid
	off.TransactionID = transactionID
	off.GatewayRef = gatewayRef
	off.PaymentDate = &now

	if err := r.persistLocked(ctx); err != nil {
		r.offences[idx] = prev
		return nil, err
	}

	r.notify(events.ActionPaid, id)
	paid := r.offences[idx]
	return &paid, nil
}

// persistLocked rewrites the whole list to the store. Callers must hold the
// write lock.
func (r *Repository) persistLocked(ctx context.Context) error {
	out := make([]models.Offence, len(r.offences))
	copy(out, r.offences)
	if err := r.store.SaveOffences(ctx, out); err != nil {
		return fmt.Errorf("failed to persist offences: %w", err)
	}
	return nil
}

func (r *Repository) notify(action, id string) {
	if r.publisher == nil {
		return
	}
	if err := events.PublishChange(r.publisher, action, id); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"action":     action,
			"offence_id": id,
		}).Error("Failed to publish offence change")
	}
}

func normalizeVehicle(vehicleNumber string) string {
	return strings.ToUpper(strings.TrimSpace(vehicleNumber))
}

func highestSequence(offences []models.Offence) int {
	max := 0
	for _, off := range offences {
		var n int
		if _, err := fmt.Sscanf(off.ID, "OFF%d", &n); err == nil && n > max {
			max = n
		}
	}
	return max
}

func validDateTime(value string) bool {
	for _, layout := range dateTimeLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}

func validateCreate(req models.CreateOffenceRequest) error {
	if strings.TrimSpace(req.OffenderName) == "" {
		return errors.New("offender name is required")
	}
	if strings.TrimSpace(req.VehicleNumber) == "" {
		return errors.New("vehicle number is required")
	}
	if !models.IsValidOffenceType(req.OffenceType) {
		return errors.New("invalid offence type")
	}
	if strings.TrimSpace(req.Location) == "" {
		return errors.New("location is required")
	}
	if !validDateTime(req.DateTime) {
		return errors.New("date and time must be a valid timestamp")
	}
	if req.FineAmount < 0 {
		return errors.New("fine amount must not be negative")
	}
	return nil
}

func validateUpdate(req models.UpdateOffenceRequest) error {
	if req.OffenderName != nil && strings.TrimSpace(*req.OffenderName) == "" {
		return errors.New("offender name is required")
	}
	if req.VehicleNumber != nil && strings.TrimSpace(*req.VehicleNumber) == "" {
		return errors.New("vehicle number is required")
	}
	if req.OffenceType != nil && !models.IsValidOffenceType(*req.OffenceType) {
		return errors.New("invalid offence type")
	}
	if req.Location != nil && strings.TrimSpace(*req.Location) == "" {
		return errors.New("location is required")
	}
	if req.DateTime != nil && !validDateTime(*req.DateTime) {
		return errors.New("date and time must be a valid timestamp")
	}
	if req.FineAmount != nil && *req.FineAmount < 0 {
		return errors.New("fine amount must not be negative")
	}
	return nil
}
