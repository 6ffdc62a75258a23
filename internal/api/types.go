package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/clinic-scheduling-assistant/internal/appointment"
	"github.com/hackgods/clinic-scheduling-assistant/internal/schedule"
)

type ScheduleRequestBody struct {
	ClinicianID    string   `json:"clinician_id"`
	ClientID       string   `json:"client_id"`
	Urgent         bool     `json:"urgent"`
	TimePreference string   `json:"time_preference,omitempty"`
	PreferredDays  []string `json:"preferred_days,omitempty"`
}

type AppointmentResponse struct {
	ID          uuid.UUID `json:"id"`
	ClinicianID uuid.UUID `json:"clinician_id"`
	ClientID    uuid.UUID `json:"client_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Urgent      bool      `json:"urgent"`
}

func toAppointmentResponse(a appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:          a.ID,
		ClinicianID: a.ClinicianID,
		ClientID:    a.ClientID,
		StartTime:   a.StartTime,
		EndTime:     a.EndTime(),
		Urgent:      a.Urgent,
	}
}

type OutcomeResponse struct {
	Action    string     `json:"action,omitempty"`
	StartTime *time.Time `json:"start_time,omitempty"`
	Accepted  bool       `json:"accepted"`
	Reason    string     `json:"reason,omitempty"`
}

func toOutcomeResponse(o schedule.Outcome) OutcomeResponse {
	resp := OutcomeResponse{
		Action:   string(o.Action.Kind),
		Accepted: o.Accepted,
		Reason:   string(o.Reason),
	}
	if !o.Action.Start.IsZero() {
		start := o.Action.Start
		resp.StartTime = &start
	}
	return resp
}

type ScheduleResultResponse struct {
	Outcomes     []OutcomeResponse     `json:"outcomes"`
	Appointments []AppointmentResponse `json:"appointments"`
}

type SlotResponse struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type AvailabilityResponse struct {
	ClinicianID uuid.UUID      `json:"clinician_id"`
	Slots       []SlotResponse `json:"slots"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
