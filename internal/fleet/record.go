package fleet

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Field length limits for record validation.
const (
	maxKindLength     = 50
	maxMakeLength     = 100
	maxModelLength    = 100
	maxLocationLength = 100
)

// Record is the persisted identity of a fleet machine.
//
// It deliberately stores no capability wiring: the kind names a factory
// bundle, and the live Machine is reconstructed from it on every
// operation. This keeps persisted data stable when bundles evolve.
type Record struct {
	// ID is the unique machine identifier (UUID, generated on create).
	ID string `json:"id"`

	// Kind names the factory bundle this machine is built from
	// (e.g. "basic", "grinder", "wifi", "grinder-wifi").
	Kind string `json:"kind"`

	// Make is the manufacturer name (e.g. "Acme").
	Make string `json:"make"`

	// Model is the model name (e.g. "X1").
	Model string `json:"model"`

	// Location is an optional free-form placement label
	// (e.g. "kitchen", "3rd floor break room").
	Location string `json:"location,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a copy of the record.
// Callers can safely modify the copy without affecting cached values.
func (r *Record) Clone() *Record {
	c := *r
	return &c
}

// GenerateID returns a new unique machine identifier.
func GenerateID() string {
	return uuid.NewString()
}

// ValidateRecord checks that a record is well formed.
// It does not check that the kind is registered with a factory; that is
// the Service's concern at operation time.
func ValidateRecord(r *Record) error {
	if r == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}
	if r.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidRecord)
	}
	if r.Kind == "" {
		return fmt.Errorf("%w: kind is required", ErrInvalidRecord)
	}
	if len(r.Kind) > maxKindLength {
		return fmt.Errorf("%w: kind exceeds %d characters", ErrInvalidRecord, maxKindLength)
	}
	if r.Make == "" {
		return fmt.Errorf("%w: make is required", ErrInvalidRecord)
	}
	if len(r.Make) > maxMakeLength {
		return fmt.Errorf("%w: make exceeds %d characters", ErrInvalidRecord, maxMakeLength)
	}
	if r.Model == "" {
		return fmt.Errorf("%w: model is required", ErrInvalidRecord)
	}
	if len(r.Model) > maxModelLength {
		return fmt.Errorf("%w: model exceeds %d characters", ErrInvalidRecord, maxModelLength)
	}
	if len(r.Location) > maxLocationLength {
		return fmt.Errorf("%w: location exceeds %d characters", ErrInvalidRecord, maxLocationLength)
	}
	return nil
}
