package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/clinic-scheduling-assistant/internal/schedule"
)

type Client struct {
	ID        uuid.UUID
	Name      string
	Memo      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Clinician struct {
	ID        uuid.UUID
	Name      string
	Specialty *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Appointment struct {
	ID          uuid.UUID
	ClinicianID uuid.UUID
	ClientID    uuid.UUID
	StartTime   time.Time
	Duration    time.Duration
	Urgent      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Entry converts the persisted record into the engine's read-only view.
func (a Appointment) Entry() schedule.Entry {
	return schedule.Entry{
		ID:       a.ID,
		ClientID: a.ClientID,
		Start:    a.StartTime,
		Duration: a.Duration,
		Urgent:   a.Urgent,
	}
}

func (a Appointment) EndTime() time.Time {
	return a.StartTime.Add(a.Duration)
}

type EventLog struct {
	ID            int64
	EventType     string
	AppointmentID *uuid.UUID
	Payload       []byte
	CreatedAt     time.Time
}
