package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/hackgods/clinic-scheduling-assistant/internal/appointment"
)

type RouterConfig struct {
	Service *appointment.Service
	PgPool  *pgxpool.Pool
	Redis   *redis.Client
	Env     string
	Version string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Scheduling endpoints
	r.Post("/scheduling-requests", scheduleRequestHandler(cfg.Service))
	r.Post("/clinicians/{id}/actions/validate", validateActionsHandler(cfg.Service))
	r.Get("/clinicians/{id}/availability", availabilityHandler(cfg.Service))
	r.Get("/clinicians/{id}/appointments", listCalendarHandler(cfg.Service))
	r.Get("/appointments/{id}", getAppointmentHandler(cfg.Service))

	return r
}
