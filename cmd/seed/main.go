package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hackgods/clinic-scheduling-assistant/internal/db"
	"github.com/hackgods/clinic-scheduling-assistant/internal/schedule"
)

const (
	clinicianCount   = 3
	clientsPerDoctor = 8
	historyWeeks     = 5
	futureWeeks      = 2
)

// preferenceTemplate pairs the memo text a client would write with the
// concrete pattern their historical appointments follow.
type preferenceTemplate struct {
	memo  string
	days  []time.Weekday
	hours []int
}

var preferenceTemplates = []preferenceTemplate{
	{"tuesday mornings or Fridays at 2PM", []time.Weekday{time.Tuesday, time.Friday}, []int{9, 10, 14}},
	{"monday afternoons work best", []time.Weekday{time.Monday}, []int{13, 14, 15}},
	{"prefers wednesdays at 11am", []time.Weekday{time.Wednesday}, []int{11}},
	{"mornings only, any weekday", []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}, []int{9, 10, 11}},
	{"thursday or friday afternoons", []time.Weekday{time.Thursday, time.Friday}, []int{13, 14, 15, 16}},
	{"late afternoons, usually 4pm", []time.Weekday{time.Monday, time.Wednesday}, []int{16}},
	{"fri mornings around 10a", []time.Weekday{time.Friday}, []int{10}},
	{"", []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}, []int{9, 10, 11, 13, 14, 15, 16}},
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn, "seed")
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	loc, err := time.LoadLocation(os.Getenv("BUSINESS_TIMEZONE"))
	if err != nil || os.Getenv("BUSINESS_TIMEZONE") == "" {
		loc, _ = time.LoadLocation("America/New_York")
	}
	window := schedule.DefaultWindow(loc)

	clinicians, err := seedClinicians(context.Background(), pool)
	if err != nil {
		log.Fatalf("seed clinicians: %v", err)
	}

	for _, clinicianID := range clinicians {
		if err := seedClientsWithCalendars(context.Background(), pool, clinicianID, window); err != nil {
			log.Fatalf("seed clients for clinician %s: %v", clinicianID, err)
		}
	}

	log.Println("seed complete")
}

func seedClinicians(ctx context.Context, pool *pgxpool.Pool) ([]uuid.UUID, error) {
	log.Printf("seeding %d clinicians", clinicianCount)

	specialties := []string{
		"Clinical Psychology",
		"Psychiatry",
		"Family Therapy",
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, clinicianCount)
	for i := 0; i < clinicianCount; i++ {
		id := uuid.New()
		name := gofakeit.Name()
		spec := specialties[i%len(specialties)]

		_, err := tx.Exec(ctx, `
			INSERT INTO clinicians (id, name, specialty, created_at, updated_at)
			VALUES ($1, $2, $3, now(), now())
		`, id, name, spec)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Println("clinicians seeded")
	return ids, nil
}

// seedClientsWithCalendars creates a caseload of clients for one
// clinician plus weekly recurring appointments matching each client's
// preference template, spanning historyWeeks back and futureWeeks
// forward. Collisions on the clinician's calendar are skipped rather
// than shifted, which leaves realistic gaps.
func seedClientsWithCalendars(ctx context.Context, pool *pgxpool.Pool, clinicianID uuid.UUID, window schedule.Window) error {
	log.Printf("seeding %d clients for clinician %s", clientsPerDoctor, clinicianID)

	taken := make(map[time.Time]bool)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	weekAnchor := time.Now().In(window.Location).AddDate(0, 0, -7*historyWeeks)

	for i := 0; i < clientsPerDoctor; i++ {
		clientID := uuid.New()
		tmpl := preferenceTemplates[i%len(preferenceTemplates)]
		name := gofakeit.Name()

		_, err := tx.Exec(ctx, `
			INSERT INTO clients (id, name, memo, created_at, updated_at)
			VALUES ($1, $2, $3, now(), now())
		`, clientID, name, tmpl.memo)
		if err != nil {
			return err
		}

		for week := 0; week < historyWeeks+futureWeeks; week++ {
			day := tmpl.days[gofakeit.Number(0, len(tmpl.days)-1)]
			hour := tmpl.hours[gofakeit.Number(0, len(tmpl.hours)-1)]

			start := weeklySlot(weekAnchor.AddDate(0, 0, 7*week), day, hour, window.Location)
			if taken[start] {
				continue
			}
			taken[start] = true

			_, err := tx.Exec(ctx, `
				INSERT INTO appointments (id, clinician_id, client_id, start_time, duration_minutes, urgent, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, false, now(), now())
			`, uuid.New(), clinicianID, clientID, start, int(window.Duration.Minutes()))
			if err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Printf("clients seeded for clinician %s", clinicianID)
	return nil
}

// weeklySlot finds the given weekday within the week containing anchor
// and pins it to the requested hour.
func weeklySlot(anchor time.Time, day time.Weekday, hour int, loc *time.Location) time.Time {
	local := anchor.In(loc)
	monday := local.AddDate(0, 0, -int((local.Weekday()+6)%7))
	target := monday.AddDate(0, 0, int((day+6)%7))
	return time.Date(target.Year(), target.Month(), target.Day(), hour, 0, 0, 0, loc)
}
