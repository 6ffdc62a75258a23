package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	TypeAppointmentCreated = "appointment_created"
	TypeAppointmentMoved   = "appointment_moved"
	TypeReminder           = "appointment_reminder"
)

// Event is the payload fanned out to a clinician's subscribers.
type Event struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Notifier publishes calendar events for a clinician. Transports that
// push to end clients (websocket gateways etc.) subscribe downstream;
// the service itself only publishes.
type Notifier interface {
	Publish(ctx context.Context, clinicianID uuid.UUID, ev Event) error
}

type redisNotifier struct {
	client *redis.Client
}

// NewRedisNotifier publishes events on a per-clinician pub/sub channel.
func NewRedisNotifier(client *redis.Client) Notifier {
	return &redisNotifier{client: client}
}

// ChannelFor returns the pub/sub channel name for a clinician's events.
func ChannelFor(clinicianID uuid.UUID) string {
	return fmt.Sprintf("clinician:%s:events", clinicianID)
}

func (n *redisNotifier) Publish(ctx context.Context, clinicianID uuid.UUID, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := n.client.Publish(ctx, ChannelFor(clinicianID), payload).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

type noop struct{}

// NewNoop returns a notifier that drops every event. Used in tests and
// in tools that have no subscriber fan-out.
func NewNoop() Notifier {
	return noop{}
}

func (noop) Publish(context.Context, uuid.UUID, Event) error { return nil }
