package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrLockNotAcquired = errors.New("clinician calendar lock not acquired")
)

// Locker serializes the validate-then-commit step per clinician. Two
// concurrent requests against the same calendar must not both commit
// from independently validated snapshots.
type Locker interface {
	WithCalendarLock(ctx context.Context, clinicianID uuid.UUID, fn func(ctx context.Context) error) error
}

type redisCalendarLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCalendarLocker creates a locker that uses a per clinician Redis key
func NewRedisCalendarLocker(client *redis.Client, ttl time.Duration) Locker {
	return &redisCalendarLocker{
		client: client,
		ttl:    ttl,
	}
}

func (l *redisCalendarLocker) WithCalendarLock(ctx context.Context, clinicianID uuid.UUID, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("lock:clinician:%s", clinicianID.String())
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire calendar lock: %w", err)
	}
	if !ok {
		return ErrLockNotAcquired
	}

	defer func() {
		_ = l.release(ctx, key, token)
	}()

	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *redisCalendarLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release calendar lock: %w", err)
	}
	return nil
}
