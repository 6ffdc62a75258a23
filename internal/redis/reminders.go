package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ReminderMarker records which appointments have already been reminded
// about, so repeated worker runs do not spam subscribers.
type ReminderMarker interface {
	// FirstReminder reports true exactly once per appointment within
	// the marker TTL.
	FirstReminder(ctx context.Context, appointmentID uuid.UUID) (bool, error)
}

type redisReminderMarker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisReminderMarker(client *redis.Client, ttl time.Duration) ReminderMarker {
	return &redisReminderMarker{client: client, ttl: ttl}
}

func (m *redisReminderMarker) FirstReminder(ctx context.Context, appointmentID uuid.UUID) (bool, error) {
	key := fmt.Sprintf("reminder:appointment:%s", appointmentID.String())

	ok, err := m.client.SetNX(ctx, key, "1", m.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("mark reminder: %w", err)
	}
	return ok, nil
}
