package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/clinic-scheduling-assistant/internal/config"
	"github.com/hackgods/clinic-scheduling-assistant/internal/notify"
	redisclient "github.com/hackgods/clinic-scheduling-assistant/internal/redis"
	"github.com/hackgods/clinic-scheduling-assistant/internal/schedule"
	"github.com/hackgods/clinic-scheduling-assistant/internal/suggest"
)

const (
	EventAppointmentCreated = "APPOINTMENT_CREATED"
	EventAppointmentMoved   = "APPOINTMENT_MOVED"
	EventReminderSent       = "REMINDER_SENT"

	// How far back behavioural preference analysis looks.
	historyLookback = 6 * 7 * 24 * time.Hour
)

var (
	ErrNoAvailability = errors.New("no open slot inside the scheduling horizon")
	ErrCalendarBusy   = errors.New("clinician calendar is currently being modified, please retry")
)

// ScheduleRequest is one incoming booking request. TimePreference is
// "asap", a period name ("morning"), or an hour of the day ("14").
type ScheduleRequest struct {
	ClinicianID    uuid.UUID
	ClientID       uuid.UUID
	Urgent         bool
	TimePreference string
	PreferredDays  []string
}

// RequestResult reports what happened to each proposed action and which
// appointments were actually written.
type RequestResult struct {
	Outcomes  []schedule.Outcome
	Committed []Appointment
}

// Suggester proposes candidate actions for a request. The service
// treats whatever comes back as untrusted and runs it through the
// validator before committing anything.
type Suggester interface {
	Propose(ctx context.Context, req ScheduleRequest, snap *schedule.Snapshot, open []schedule.Slot, profile schedule.Profile) ([]schedule.Action, error)
}

type Service struct {
	repo      Repository
	locker    redisclient.Locker
	notifier  notify.Notifier
	suggester Suggester
	window    schedule.Window
	scoring   schedule.Scoring
	cfg       config.Config
}

// NewService wires the scheduling pipeline. A nil suggester falls back
// to the built-in selector-backed one.
func NewService(repo Repository, locker redisclient.Locker, notifier notify.Notifier, suggester Suggester, cfg config.Config) (*Service, error) {
	window, err := cfg.Window()
	if err != nil {
		return nil, err
	}

	scoring := cfg.Scoring()
	if suggester == nil {
		suggester = NewSlotSuggester(window, scoring)
	}

	return &Service{
		repo:      repo,
		locker:    locker,
		notifier:  notifier,
		suggester: suggester,
		window:    window,
		scoring:   scoring,
		cfg:       cfg,
	}, nil
}

func (s *Service) Window() schedule.Window {
	return s.window
}

// HandleRequest runs the full pipeline for one booking request:
// snapshot, enumerate, build the preference profile, obtain proposed
// actions, then validate and commit the survivors under the clinician's
// calendar lock so concurrent requests cannot both book from stale
// snapshots.
func (s *Service) HandleRequest(ctx context.Context, req ScheduleRequest) (*RequestResult, error) {
	client, err := s.repo.GetClientByID(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, ErrClientNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load client: %w", err)
	}
	if _, err := s.repo.GetClinicianByID(ctx, req.ClinicianID); err != nil {
		if errors.Is(err, ErrClinicianNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load clinician: %w", err)
	}

	now := time.Now().In(s.window.Location)
	from := now
	to := now.AddDate(0, 0, s.cfg.HorizonDays)

	snap, err := s.snapshot(ctx, req.ClinicianID, from, to)
	if err != nil {
		return nil, err
	}

	open := schedule.Enumerate(s.window, snap.Busy(), from, to, now)
	profile := s.buildProfile(ctx, req, client.Memo, now)

	actions, err := s.suggester.Propose(ctx, req, snap, open, profile)
	if err != nil {
		return nil, fmt.Errorf("propose actions: %w", err)
	}
	if len(actions) == 0 {
		return nil, ErrNoAvailability
	}

	var result *RequestResult

	err = s.locker.WithCalendarLock(ctx, req.ClinicianID, func(lockCtx context.Context) error {
		// Re-snapshot inside the critical section: the proposals were
		// built against a view that may already be stale.
		fresh, err := s.snapshot(lockCtx, req.ClinicianID, from, to)
		if err != nil {
			return err
		}

		outcomes := schedule.Validate(actions, fresh, now, s.window)
		committed, err := s.commit(lockCtx, req, outcomes)
		if err != nil {
			return err
		}

		result = &RequestResult{Outcomes: outcomes, Committed: committed}
		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrCalendarBusy
		}
		return nil, err
	}

	return result, nil
}

// ValidateProposals checks an externally supplied action batch against
// the clinician's current calendar without committing anything.
func (s *Service) ValidateProposals(ctx context.Context, clinicianID uuid.UUID, proposals []suggest.Proposal) ([]schedule.Outcome, error) {
	if _, err := s.repo.GetClinicianByID(ctx, clinicianID); err != nil {
		if errors.Is(err, ErrClinicianNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load clinician: %w", err)
	}

	now := time.Now().In(s.window.Location)
	snap, err := s.snapshot(ctx, clinicianID, now, now.AddDate(0, 0, s.cfg.HorizonDays))
	if err != nil {
		return nil, err
	}

	return suggest.ValidateProposals(proposals, snap, now, s.window), nil
}

// Availability enumerates the open slots for a clinician in [from, to).
func (s *Service) Availability(ctx context.Context, clinicianID uuid.UUID, from, to time.Time) ([]schedule.Slot, error) {
	if _, err := s.repo.GetClinicianByID(ctx, clinicianID); err != nil {
		if errors.Is(err, ErrClinicianNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load clinician: %w", err)
	}
	if !from.Before(to) {
		return nil, fmt.Errorf("invalid availability range: %s is not before %s", from, to)
	}

	snap, err := s.snapshot(ctx, clinicianID, from, to)
	if err != nil {
		return nil, err
	}

	now := time.Now().In(s.window.Location)
	return schedule.Enumerate(s.window, snap.Busy(), from, to, now), nil
}

// ListCalendar returns a clinician's appointments in [from, to).
func (s *Service) ListCalendar(ctx context.Context, clinicianID uuid.UUID, from, to time.Time) ([]Appointment, error) {
	if _, err := s.repo.GetClinicianByID(ctx, clinicianID); err != nil {
		if errors.Is(err, ErrClinicianNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load clinician: %w", err)
	}

	appts, err := s.repo.ListByClinicianBetween(ctx, clinicianID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list calendar: %w", err)
	}
	return appts, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return appt, nil
}

// SendUpcomingReminders is intended to be called by the worker
// periodically. The marker keeps repeated runs from re-notifying the
// same appointment.
func (s *Service) SendUpcomingReminders(ctx context.Context, marker redisclient.ReminderMarker) error {
	now := time.Now().In(s.window.Location)
	upcoming, err := s.repo.ListStartingBetween(ctx, now, now.Add(s.cfg.ReminderWindow))
	if err != nil {
		return fmt.Errorf("find upcoming appointments: %w", err)
	}

	for _, appt := range upcoming {
		first, err := marker.FirstReminder(ctx, appt.ID)
		if err != nil {
			log.Printf("reminder marker failed for appointment %s: %v", appt.ID, err)
			continue
		}
		if !first {
			continue
		}

		s.publish(ctx, appt.ClinicianID, notify.Event{
			Type:    notify.TypeReminder,
			Message: fmt.Sprintf("appointment at %s", appt.StartTime.In(s.window.Location).Format(time.RFC3339)),
			Data:    appointmentPayload(appt),
		})
		s.logEvent(ctx, appt.ID, EventReminderSent, appointmentPayload(appt))
	}

	return nil
}

// commit writes the accepted actions. A unique-constraint loss at this
// point means another writer got past a stale snapshot first; the
// outcome is flipped to a rejection instead of failing the batch.
func (s *Service) commit(ctx context.Context, req ScheduleRequest, outcomes []schedule.Outcome) ([]Appointment, error) {
	var committed []Appointment

	for i := range outcomes {
		if !outcomes[i].Accepted {
			continue
		}
		a := outcomes[i].Action

		switch a.Kind {
		case schedule.ActionCreate:
			urgent := req.Urgent && a.ClientID == req.ClientID
			appt, err := s.repo.CreateAppointment(ctx, a.ClinicianID, a.ClientID, a.Start, s.window.Duration, urgent)
			if err != nil {
				if errors.Is(err, ErrStartTaken) {
					outcomes[i].Accepted = false
					outcomes[i].Reason = schedule.ReasonOverlapWithExisting
					continue
				}
				return nil, fmt.Errorf("create appointment: %w", err)
			}

			committed = append(committed, *appt)
			s.logEvent(ctx, appt.ID, EventAppointmentCreated, appointmentPayload(*appt))
			s.publish(ctx, appt.ClinicianID, notify.Event{
				Type:    notify.TypeAppointmentCreated,
				Message: "appointment created",
				Data:    appointmentPayload(*appt),
			})

		case schedule.ActionUpdate:
			appt, err := s.repo.RescheduleAppointment(ctx, a.AppointmentID, a.Start)
			if err != nil {
				if errors.Is(err, ErrStartTaken) {
					outcomes[i].Accepted = false
					outcomes[i].Reason = schedule.ReasonOverlapWithExisting
					continue
				}
				return nil, fmt.Errorf("reschedule appointment: %w", err)
			}

			committed = append(committed, *appt)
			s.logEvent(ctx, appt.ID, EventAppointmentMoved, appointmentPayload(*appt))
			s.publish(ctx, appt.ClinicianID, notify.Event{
				Type:    notify.TypeAppointmentMoved,
				Message: "appointment moved",
				Data:    appointmentPayload(*appt),
			})
		}
	}

	return committed, nil
}

// buildProfile merges the request's explicit preferences, the client's
// memo text, and their recent booking history into one ranking profile.
func (s *Service) buildProfile(ctx context.Context, req ScheduleRequest, memo string, now time.Time) schedule.Profile {
	stated := schedule.ParseMemo(memo)

	profile := schedule.Profile{
		Urgent:   req.Urgent || strings.EqualFold(strings.TrimSpace(req.TimePreference), "asap"),
		Weekdays: stated.Weekdays,
		Periods:  stated.Periods,
		Hours:    stated.Hours,
	}

	for _, name := range req.PreferredDays {
		if day, ok := schedule.ParseWeekday(name); ok {
			profile.Weekdays[day] = true
		}
	}

	if pref := strings.TrimSpace(req.TimePreference); pref != "" && !profile.Urgent {
		if period, ok := schedule.ParsePeriod(pref); ok {
			profile.Periods[period] = true
		} else if hour, err := strconv.Atoi(pref); err == nil && hour >= 0 && hour < 24 {
			profile.Hours[hour] = true
			profile.Periods[schedule.PeriodOf(hour)] = true
		}
	}

	history, err := s.repo.ListByClientSince(ctx, req.ClientID, now.Add(-historyLookback))
	if err != nil {
		log.Printf("failed to load history for client %s: %v", req.ClientID, err)
		return profile
	}

	starts := make([]time.Time, 0, len(history))
	for _, appt := range history {
		starts = append(starts, appt.StartTime)
	}
	profile.History = schedule.AnalyzeHistory(starts, s.window.Location)

	return profile
}

func (s *Service) snapshot(ctx context.Context, clinicianID uuid.UUID, from, to time.Time) (*schedule.Snapshot, error) {
	appts, err := s.repo.ListByClinicianBetween(ctx, clinicianID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load calendar snapshot: %w", err)
	}

	entries := make([]schedule.Entry, 0, len(appts))
	for _, appt := range appts {
		entries = append(entries, appt.Entry())
	}
	return schedule.NewSnapshot(clinicianID, entries), nil
}

func (s *Service) publish(ctx context.Context, clinicianID uuid.UUID, ev notify.Event) {
	if err := s.notifier.Publish(ctx, clinicianID, ev); err != nil {
		log.Printf("failed to publish %s event for clinician %s: %v", ev.Type, clinicianID, err)
	}
}

func (s *Service) logEvent(ctx context.Context, appointmentID uuid.UUID, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("failed to marshal event payload for %s: %v", eventType, err)
		data = nil
	}

	apptID := appointmentID

	ev := EventLog{
		EventType:     eventType,
		AppointmentID: &apptID,
		Payload:       data,
		CreatedAt:     time.Now(),
	}

	if err := s.repo.InsertEvent(ctx, ev); err != nil {
		log.Printf("failed to insert event log %s for appointment %s: %v", eventType, appointmentID, err)
	}
}

func appointmentPayload(a Appointment) map[string]any {
	return map[string]any{
		"appointment_id": a.ID.String(),
		"clinician_id":   a.ClinicianID.String(),
		"client_id":      a.ClientID.String(),
		"start_time":     a.StartTime.Format(time.RFC3339),
		"end_time":       a.EndTime().Format(time.RFC3339),
		"urgent":         a.Urgent,
	}
}
