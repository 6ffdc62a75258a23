package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/hackgods/clinic-scheduling-assistant/internal/appointment"
	"github.com/hackgods/clinic-scheduling-assistant/internal/config"
	"github.com/hackgods/clinic-scheduling-assistant/internal/db"
	"github.com/hackgods/clinic-scheduling-assistant/internal/notify"
	redisclient "github.com/hackgods/clinic-scheduling-assistant/internal/redis"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("reminder-worker starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running reminder worker in env=%s interval=%s window=%s",
		cfg.Env, cfg.WorkerInterval, cfg.ReminderWindow)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN, "reminder-worker")
	cancelPg()
	if err != nil {
		log.Fatalf("postgres connection error: %v", err)
	}
	defer pgPool.Close()
	log.Println("connected to Postgres")

	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword, "reminder-worker")
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

	// Marker TTL outlives the lookahead window so a restarted worker
	// does not re-notify appointments it already covered.
	marker := redisclient.NewRedisReminderMarker(rdb, cfg.ReminderWindow*2)

	// Run once at startup
	runOnce(rootCtx, svc, marker)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			log.Println("shutdown signal received, stopping reminder worker")
			return
		case <-ticker.C:
			runOnce(rootCtx, svc, marker)
		}
	}
}

func runOnce(ctx context.Context, svc *appointment.Service, marker redisclient.ReminderMarker) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()
	if err := svc.SendUpcomingReminders(runCtx, marker); err != nil {
		log.Printf("reminder run error: %v", err)
		return
	}
	log.Printf("reminder run complete in %s", time.Since(start))
}
