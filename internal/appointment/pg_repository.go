package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanClient(row pgx.Row) (*Client, error) {
	var c Client

	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Memo,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	return &c, nil
}

func scanClinician(row pgx.Row) (*Clinician, error) {
	var c Clinician
	var specialty *string

	err := row.Scan(
		&c.ID,
		&c.Name,
		&specialty,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClinicianNotFound
		}
		return nil, err
	}

	c.Specialty = specialty
	return &c, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var durationMinutes int

	err := row.Scan(
		&a.ID,
		&a.ClinicianID,
		&a.ClientID,
		&a.StartTime,
		&durationMinutes,
		&a.Urgent,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	a.Duration = time.Duration(durationMinutes) * time.Minute
	return &a, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Interface methods

func (r *PgRepository) GetClientByID(ctx context.Context, id uuid.UUID) (*Client, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, memo, created_at, updated_at
		FROM clients
		WHERE id = $1
	`, id)
	return scanClient(row)
}

func (r *PgRepository) GetClinicianByID(ctx context.Context, id uuid.UUID) (*Clinician, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, specialty, created_at, updated_at
		FROM clinicians
		WHERE id = $1
	`, id)
	return scanClinician(row)
}

func (r *PgRepository) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, clinician_id, client_id, start_time, duration_minutes, urgent, created_at, updated_at
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) ListByClinicianBetween(ctx context.Context, clinicianID uuid.UUID, from, to time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, clinician_id, client_id, start_time, duration_minutes, urgent, created_at, updated_at
		FROM appointments
		WHERE clinician_id = $1
		  AND start_time >= $2
		  AND start_time < $3
		ORDER BY start_time
	`, clinicianID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func (r *PgRepository) ListByClientSince(ctx context.Context, clientID uuid.UUID, since time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, clinician_id, client_id, start_time, duration_minutes, urgent, created_at, updated_at
		FROM appointments
		WHERE client_id = $1
		  AND start_time >= $2
		ORDER BY start_time
	`, clientID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func (r *PgRepository) CreateAppointment(ctx context.Context, clinicianID, clientID uuid.UUID, start time.Time, duration time.Duration, urgent bool) (*Appointment, error) {
	id := uuid.New()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (id, clinician_id, client_id, start_time, duration_minutes, urgent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING id, clinician_id, client_id, start_time, duration_minutes, urgent, created_at, updated_at
	`, id, clinicianID, clientID, start, int(duration.Minutes()), urgent)

	appt, err := scanAppointment(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrStartTaken
		}
		return nil, err
	}
	return appt, nil
}

func (r *PgRepository) RescheduleAppointment(ctx context.Context, id uuid.UUID, start time.Time) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET start_time = $2,
		    updated_at = now()
		WHERE id = $1
		RETURNING id, clinician_id, client_id, start_time, duration_minutes, urgent, created_at, updated_at
	`, id, start)

	appt, err := scanAppointment(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrStartTaken
		}
		return nil, err
	}
	return appt, nil
}

func (r *PgRepository) ListStartingBetween(ctx context.Context, from, to time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, clinician_id, client_id, start_time, duration_minutes, urgent, created_at, updated_at
		FROM appointments
		WHERE start_time >= $1
		  AND start_time < $2
		ORDER BY start_time
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func (r *PgRepository) InsertEvent(ctx context.Context, ev EventLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO event_logs (event_type, appointment_id, payload, created_at)
		VALUES ($1, $2, $3, COALESCE($4, now()))
	`, ev.EventType, ev.AppointmentID, ev.Payload, nullableTime(ev.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert event log: %w", err)
	}

	return nil
}

func collectAppointments(rows pgx.Rows) ([]Appointment, error) {
	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
