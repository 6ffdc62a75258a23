package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hackgods/clinic-scheduling-assistant/internal/appointment"
	redisclient "github.com/hackgods/clinic-scheduling-assistant/internal/redis"
	"github.com/hackgods/clinic-scheduling-assistant/internal/suggest"
)

func scheduleRequestHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body ScheduleRequestBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		clinicianID, err := uuid.Parse(body.ClinicianID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_clinician_id", "clinician_id must be a valid UUID")
			return
		}

		clientID, err := uuid.Parse(body.ClientID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_client_id", "client_id must be a valid UUID")
			return
		}

		result, err := svc.HandleRequest(r.Context(), appointment.ScheduleRequest{
			ClinicianID:    clinicianID,
			ClientID:       clientID,
			Urgent:         body.Urgent,
			TimePreference: body.TimePreference,
			PreferredDays:  body.PreferredDays,
		})
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		resp := ScheduleResultResponse{
			Outcomes:     make([]OutcomeResponse, 0, len(result.Outcomes)),
			Appointments: make([]AppointmentResponse, 0, len(result.Committed)),
		}
		for _, o := range result.Outcomes {
			resp.Outcomes = append(resp.Outcomes, toOutcomeResponse(o))
		}
		for _, a := range result.Committed {
			resp.Appointments = append(resp.Appointments, toAppointmentResponse(a))
		}

		status := http.StatusCreated
		if len(result.Committed) == 0 {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, resp)
	}
}

func validateActionsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clinicianID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_clinician_id", "id must be a valid UUID")
			return
		}

		proposals, err := suggest.DecodeActions(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "body must be a JSON array of actions")
			return
		}

		outcomes, err := svc.ValidateProposals(r.Context(), clinicianID, proposals)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		resp := make([]OutcomeResponse, 0, len(outcomes))
		for _, o := range outcomes {
			resp = append(resp, toOutcomeResponse(o))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func availabilityHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clinicianID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_clinician_id", "id must be a valid UUID")
			return
		}

		from, to, err := parseRange(r, time.Now(), 7)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_range", err.Error())
			return
		}

		slots, err := svc.Availability(r.Context(), clinicianID, from, to)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		resp := AvailabilityResponse{
			ClinicianID: clinicianID,
			Slots:       make([]SlotResponse, 0, len(slots)),
		}
		for _, s := range slots {
			resp.Slots = append(resp.Slots, SlotResponse{StartTime: s.Start, EndTime: s.End})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func listCalendarHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clinicianID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_clinician_id", "id must be a valid UUID")
			return
		}

		from, to, err := parseRange(r, time.Now(), 30)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_range", err.Error())
			return
		}

		appts, err := svc.ListCalendar(r.Context(), clinicianID, from, to)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		resp := make([]AppointmentResponse, 0, len(appts))
		for _, a := range appts {
			resp = append(resp, toAppointmentResponse(a))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func getAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		appt, err := svc.GetAppointment(r.Context(), id)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(*appt))
	}
}

// parseRange reads optional from/to RFC 3339 query parameters, falling
// back to [now, now+defaultDays).
func parseRange(r *http.Request, now time.Time, defaultDays int) (time.Time, time.Time, error) {
	from := now
	to := now.AddDate(0, 0, defaultDays)

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("from must be an RFC 3339 timestamp")
		}
		from = parsed
		to = from.AddDate(0, 0, defaultDays)
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("to must be an RFC 3339 timestamp")
		}
		to = parsed
	}
	if !from.Before(to) {
		return time.Time{}, time.Time{}, errors.New("from must be before to")
	}

	return from, to, nil
}

func handleScheduleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appointment.ErrClientNotFound):
		writeError(w, http.StatusNotFound, "client_not_found", err.Error())
	case errors.Is(err, appointment.ErrClinicianNotFound):
		writeError(w, http.StatusNotFound, "clinician_not_found", err.Error())
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, appointment.ErrNoAvailability):
		writeError(w, http.StatusConflict, "no_availability", err.Error())
	case errors.Is(err, appointment.ErrCalendarBusy),
		errors.Is(err, redisclient.ErrLockNotAcquired):
		writeError(w, http.StatusConflict, "calendar_busy", "clinician calendar is being modified, please retry shortly")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
