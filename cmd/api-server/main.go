package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/hackgods/clinic-scheduling-assistant/internal/api"
	"github.com/hackgods/clinic-scheduling-assistant/internal/appointment"
	"github.com/hackgods/clinic-scheduling-assistant/internal/config"
	"github.com/hackgods/clinic-scheduling-assistant/internal/db"
	"github.com/hackgods/clinic-scheduling-assistant/internal/notify"
	redisclient "github.com/hackgods/clinic-scheduling-assistant/internal/redis"
)

const version = "0.3.0"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running in env=%s http_port=%s business_hours=%d-%d duration=%s",
		cfg.Env, cfg.HTTPPort, cfg.BusinessStartHour, cfg.BusinessEndHour, cfg.AppointmentDuration)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN, "api-server")
	cancelPg()
	if err != nil {
		log.Fatalf("postgres connection error: %v", err)
	}
	defer pgPool.Close()
	log.Println("connected to Postgres")

	// Connect Redis
	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword, "api-server")
	if err != nil {
		log.Fatalf("redis connection error: %v", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Printf("error closing redis: %v", err)
		}
	}()
	log.Println("connected to Redis")

	repo := appointment.NewPgRepository(pgPool)
	locker := redisclient.NewRedisCalendarLocker(rdb, cfg.LockTTL)
	notifier := notify.NewRedisNotifier(rdb)

	svc, err := appointment.NewService(repo, locker, notifier, nil, cfg)
	if err != nil {
		log.Fatalf("service init error: %v", err)
	}

	router := api.NewRouter(api.RouterConfig{
		Service: svc,
		PgPool:  pgPool,
		Redis:   rdb,
		Env:     cfg.Env,
		Version: version,
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  time.Minute,
	}

	go func() {
		log.Printf("listening on :%s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-rootCtx.Done()
	log.Println("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
