package store

import (
	"context"
	"errors"

	"github.com/frscdev/offence-register/internal/models"
)

// Slot keys for the persisted state. The offence list and session identity
// are whole-value JSON documents; the sequence counter is persisted
// independently of the list so deleted ids are never reused.
const (
	OffencesKey = "frsc_offences"
	SessionKey  = "frsc_user"
	SequenceKey = "frsc_offence_seq"
)

// ErrNotFound is returned when a requested slot has never been written.
var ErrNotFound = errors.New("slot not found")

// Store is the durable key-value slot holding all persisted state.
// Every write replaces the whole value under its key; there are no partial
// updates at the storage level.
type Store interface {
	LoadOffences(ctx context.Context) ([]models.Offence, error)
	SaveOffences(ctx context.Context, offences []models.Offence) error

	LoadSession(ctx context.Context) (*models.Identity, error)
	SaveSession(ctx context.Context, identity models.Identity) error
	ClearSession(ctx context.Context) error

	LoadSequence(ctx context.Context) (int, error)
	SaveSequence(ctx context.Context, seq int) error

	Close(ctx context.Context) error
}
