package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hackgods/clinic-scheduling-assistant/internal/config"
	"github.com/hackgods/clinic-scheduling-assistant/internal/db"
)

type SimConfig struct {
	APIBaseURL     string
	Duration       time.Duration
	Workers        int
	RequestRatio   float64
	AvailRatio     float64
	ReadRatio      float64
	UrgentFraction float64
	ClientLimit    int
	PostgresDSN    string
}

type DataPool struct {
	Clients    []uuid.UUID
	Clinicians []uuid.UUID
	mu         sync.RWMutex
	booked     []uuid.UUID // Thread-safe list of appointment IDs created during the run
}

func (dp *DataPool) AddAppointment(id uuid.UUID) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.booked = append(dp.booked, id)
}

func (dp *DataPool) GetRandomAppointment() (uuid.UUID, bool) {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	if len(dp.booked) == 0 {
		return uuid.Nil, false
	}
	idx := rand.Intn(len(dp.booked))
	return dp.booked[idx], true
}

type OperationMetrics struct {
	Total     int64
	Success   int64
	Conflict  int64
	Error     int64
	Latencies []time.Duration
	mu        sync.Mutex
}

func (om *OperationMetrics) Record(latency time.Duration, success bool, conflict bool) {
	atomic.AddInt64(&om.Total, 1)
	if success {
		atomic.AddInt64(&om.Success, 1)
	} else if conflict {
		atomic.AddInt64(&om.Conflict, 1)
	} else {
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.Latencies = append(om.Latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (avg, min, max, p50, p95 time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if len(om.Latencies) == 0 {
		return 0, 0, 0, 0, 0
	}

	latencies := make([]time.Duration, len(om.Latencies))
	copy(latencies, om.Latencies)

	sort.Slice(latencies, func(i, j int) bool {
		return latencies[i] < latencies[j]
	})

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	avg = sum / time.Duration(len(latencies))
	min = latencies[0]
	max = latencies[len(latencies)-1]

	p50Idx := len(latencies) * 50 / 100
	if p50Idx >= len(latencies) {
		p50Idx = len(latencies) - 1
	}
	p50 = latencies[p50Idx]

	p95Idx := len(latencies) * 95 / 100
	if p95Idx >= len(latencies) {
		p95Idx = len(latencies) - 1
	}
	p95 = latencies[p95Idx]

	return avg, min, max, p50, p95
}

type Metrics struct {
	Schedule     OperationMetrics
	Availability OperationMetrics
	ReadByID     OperationMetrics
	ListCalendar OperationMetrics
}

type Simulator struct {
	config  SimConfig
	pool    *DataPool
	client  *http.Client
	metrics Metrics
}

// timePreferences mirrors the values real request payloads carry.
var timePreferences = []string{"", "morning", "afternoon", "9", "11", "14", "16"}

var preferredDayChoices = [][]string{
	nil,
	{"monday"},
	{"tuesday", "thursday"},
	{"friday"},
	{"wednesday", "friday"},
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("simulator starting")

	cfg := loadConfig()
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	log.Printf("config: duration=%s workers=%d request=%.2f avail=%.2f read=%.2f urgent=%.2f",
		cfg.Duration, cfg.Workers, cfg.RequestRatio, cfg.AvailRatio, cfg.ReadRatio, cfg.UrgentFraction)

	// Load data from Postgres
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pgPool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN, "simulate")
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pgPool.Close()

	dataPool, err := loadDataPool(ctx, pgPool, cfg)
	if err != nil {
		log.Fatalf("load data pool: %v", err)
	}

	log.Printf("loaded: %d clients, %d clinicians", len(dataPool.Clients), len(dataPool.Clinicians))

	sim := &Simulator{
		config: cfg,
		pool:   dataPool,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	// Run simulation
	sim.Run()

	// Print report
	sim.PrintReport()
}

func loadConfig() SimConfig {
	baseCfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load base config: %v", err)
	}

	cfg := SimConfig{
		APIBaseURL:     getEnv("SIM_API_BASE_URL", "http://localhost:8080"),
		Duration:       getDuration("SIM_DURATION", 30*time.Second),
		Workers:        getInt("SIM_WORKERS", 10),
		RequestRatio:   getFloat("SIM_REQUEST_RATIO", 0.4),
		AvailRatio:     getFloat("SIM_AVAIL_RATIO", 0.3),
		ReadRatio:      getFloat("SIM_READ_RATIO", 0.3),
		UrgentFraction: getFloat("SIM_URGENT_FRACTION", 0.2),
		ClientLimit:    getInt("SIM_CLIENT_LIMIT", 4000),
		PostgresDSN:    baseCfg.PostgresDSN,
	}

	// Normalize ratios
	total := cfg.RequestRatio + cfg.AvailRatio + cfg.ReadRatio
	if total > 0 {
		cfg.RequestRatio /= total
		cfg.AvailRatio /= total
		cfg.ReadRatio /= total
	}

	return cfg
}

func validateConfig(cfg SimConfig) error {
	if cfg.PostgresDSN == "" {
		return fmt.Errorf("POSTGRES_DSN is required (set in .env or environment)")
	}
	if cfg.Workers <= 0 {
		return fmt.Errorf("SIM_WORKERS must be > 0")
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("SIM_DURATION must be > 0")
	}
	if cfg.UrgentFraction < 0 || cfg.UrgentFraction > 1 {
		return fmt.Errorf("SIM_URGENT_FRACTION must be in [0, 1]")
	}
	return nil
}

func loadDataPool(ctx context.Context, pool *pgxpool.Pool, cfg SimConfig) (*DataPool, error) {
	dataPool := &DataPool{}

	// Load clients
	rows, err := pool.Query(ctx, `
		SELECT id FROM clients LIMIT $1
	`, cfg.ClientLimit)
	if err != nil {
		return nil, fmt.Errorf("load clients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		dataPool.Clients = append(dataPool.Clients, id)
	}

	// Load clinicians
	rows, err = pool.Query(ctx, `
		SELECT id FROM clinicians
	`)
	if err != nil {
		return nil, fmt.Errorf("load clinicians: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		dataPool.Clinicians = append(dataPool.Clinicians, id)
	}

	if len(dataPool.Clients) == 0 {
		return nil, fmt.Errorf("no clients loaded")
	}
	if len(dataPool.Clinicians) == 0 {
		return nil, fmt.Errorf("no clinicians loaded")
	}

	return dataPool, nil
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	log.Printf("starting simulation for %s with %d workers", s.config.Duration, s.config.Workers)

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	log.Println("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

	for {
		select {
		case <-ctx.Done():
			return
		default:
			// Select operation based on ratios
			r := rng.Float64()
			if r < s.config.RequestRatio {
				s.doScheduleRequest(ctx, rng)
			} else if r < s.config.RequestRatio+s.config.AvailRatio {
				s.doAvailability(ctx, rng)
			} else {
				// Read operations - distribute evenly
				if rng.Intn(2) == 0 {
					s.doReadByID(ctx, rng)
				} else {
					s.doListCalendar(ctx, rng)
				}
			}
		}
	}
}

func (s *Simulator) doScheduleRequest(ctx context.Context, rng *rand.Rand) {
	clinicianID := s.pool.Clinicians[rng.Intn(len(s.pool.Clinicians))]
	clientID := s.pool.Clients[rng.Intn(len(s.pool.Clients))]

	urgent := rng.Float64() < s.config.UrgentFraction
	pref := timePreferences[rng.Intn(len(timePreferences))]
	if urgent {
		pref = "asap"
	}

	start := time.Now()

	reqBody := map[string]any{
		"clinician_id":    clinicianID.String(),
		"client_id":       clientID.String(),
		"urgent":          urgent,
		"time_preference": pref,
		"preferred_days":  preferredDayChoices[rng.Intn(len(preferredDayChoices))],
	}
	body, _ := json.Marshal(reqBody)

	req, _ := http.NewRequestWithContext(ctx, "POST", s.config.APIBaseURL+"/scheduling-requests", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	latency := time.Since(start)

	success := false
	conflict := false

	if err == nil {
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusCreated {
			success = true
			// Parse response to remember committed appointment IDs
			var result struct {
				Appointments []struct {
					ID uuid.UUID `json:"id"`
				} `json:"appointments"`
			}
			bodyBytes, _ := io.ReadAll(resp.Body)
			if len(bodyBytes) > 0 {
				json.Unmarshal(bodyBytes, &result)
				for _, a := range result.Appointments {
					if a.ID != uuid.Nil {
						s.pool.AddAppointment(a.ID)
					}
				}
			}
		} else if resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity {
			conflict = true
		}
	}

	s.metrics.Schedule.Record(latency, success, conflict)
}

func (s *Simulator) doAvailability(ctx context.Context, rng *rand.Rand) {
	clinicianID := s.pool.Clinicians[rng.Intn(len(s.pool.Clinicians))]

	start := time.Now()

	req, _ := http.NewRequestWithContext(ctx, "GET",
		fmt.Sprintf("%s/clinicians/%s/availability", s.config.APIBaseURL, clinicianID.String()), nil)

	resp, err := s.client.Do(req)
	latency := time.Since(start)

	success := false
	if err == nil {
		defer resp.Body.Close()
		success = resp.StatusCode == http.StatusOK
	}

	s.metrics.Availability.Record(latency, success, false)
}

func (s *Simulator) doReadByID(ctx context.Context, rng *rand.Rand) {
	apptID, ok := s.pool.GetRandomAppointment()
	if !ok {
		return
	}

	start := time.Now()

	req, _ := http.NewRequestWithContext(ctx, "GET",
		fmt.Sprintf("%s/appointments/%s", s.config.APIBaseURL, apptID.String()), nil)

	resp, err := s.client.Do(req)
	latency := time.Since(start)

	success := false
	if err == nil {
		defer resp.Body.Close()
		success = resp.StatusCode == http.StatusOK
	}

	s.metrics.ReadByID.Record(latency, success, false)
}

func (s *Simulator) doListCalendar(ctx context.Context, rng *rand.Rand) {
	clinicianID := s.pool.Clinicians[rng.Intn(len(s.pool.Clinicians))]

	start := time.Now()

	req, _ := http.NewRequestWithContext(ctx, "GET",
		fmt.Sprintf("%s/clinicians/%s/appointments", s.config.APIBaseURL, clinicianID.String()), nil)

	resp, err := s.client.Do(req)
	latency := time.Since(start)

	success := false
	if err == nil {
		defer resp.Body.Close()
		success = resp.StatusCode == http.StatusOK
	}

	s.metrics.ListCalendar.Record(latency, success, false)
}

func (s *Simulator) PrintReport() {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("SIMULATION REPORT")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Duration: %s\n", s.config.Duration)
	fmt.Printf("Workers: %d\n", s.config.Workers)
	fmt.Println()

	printOperationReport("Scheduling Request", &s.metrics.Schedule)
	printOperationReport("Availability", &s.metrics.Availability)
	printOperationReport("Read by ID", &s.metrics.ReadByID)
	printOperationReport("List Calendar", &s.metrics.ListCalendar)
}

func printOperationReport(name string, om *OperationMetrics) {
	total := atomic.LoadInt64(&om.Total)
	if total == 0 {
		return
	}

	success := atomic.LoadInt64(&om.Success)
	conflict := atomic.LoadInt64(&om.Conflict)
	errorCount := atomic.LoadInt64(&om.Error)

	avg, min, max, p50, p95 := om.Stats()

	fmt.Printf("%s:\n", name)
	fmt.Printf("  Total: %d\n", total)
	fmt.Printf("  Success: %d (%.1f%%)\n", success, float64(success)/float64(total)*100)
	if conflict > 0 {
		fmt.Printf("  Conflicts: %d (%.1f%%)\n", conflict, float64(conflict)/float64(total)*100)
	}
	if errorCount > 0 {
		fmt.Printf("  Errors: %d (%.1f%%)\n", errorCount, float64(errorCount)/float64(total)*100)
	}
	fmt.Printf("  Latency: avg=%s min=%s max=%s p50=%s p95=%s\n",
		avg.Round(time.Millisecond), min.Round(time.Millisecond), max.Round(time.Millisecond),
		p50.Round(time.Millisecond), p95.Round(time.Millisecond))
	fmt.Println()
}

// Helper functions

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
