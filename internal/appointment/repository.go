package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrClientNotFound      = errors.New("client not found")
	ErrClinicianNotFound   = errors.New("clinician not found")
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrStartTaken is the persistence-level backstop for the
	// (clinician_id, start_time) uniqueness constraint. The validator
	// already rejects overlaps against its snapshot; this catches any
	// writer that slipped past a stale one.
	ErrStartTaken = errors.New("clinician already has an appointment at that start time")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	GetClientByID(ctx context.Context, id uuid.UUID) (*Client, error)
	GetClinicianByID(ctx context.Context, id uuid.UUID) (*Clinician, error)
	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// Snapshot and history reads
	ListByClinicianBetween(ctx context.Context, clinicianID uuid.UUID, from, to time.Time) ([]Appointment, error)
	ListByClientSince(ctx context.Context, clientID uuid.UUID, since time.Time) ([]Appointment, error)

	// Validated writes
	CreateAppointment(ctx context.Context, clinicianID, clientID uuid.UUID, start time.Time, duration time.Duration, urgent bool) (*Appointment, error)
	RescheduleAppointment(ctx context.Context, id uuid.UUID, start time.Time) (*Appointment, error)

	// Reminder worker
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]Appointment, error)

	// Event logging
	InsertEvent(ctx context.Context, ev EventLog) error
}
