package mq

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/metrics"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/types"
)

const kindAttribute = "kind"

// EventBus publishes and consumes JSON-encoded domain events on one channel.
type EventBus struct {
	backend Backend
	channel string
}

func NewEventBus(backend Backend, channel string) *EventBus {
	return &EventBus{backend: backend, channel: strings.TrimSpace(channel)}
}

// Publish assigns the event an id and hands it to the broker.
func (b *EventBus) Publish(ctx context.Context, event types.Event) error {
	if b.backend == nil {
		return errors.New("mq backend is not configured")
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = b.backend.Publish(ctx, b.channel, data, map[string]string{kindAttribute: event.Kind})
	if err != nil {
		metrics.EventsPublished.WithLabelValues(metrics.Failure).Inc()
		return err
	}
	metrics.EventsPublished.WithLabelValues(metrics.Success).Inc()
	return nil
}

// Subscribe blocks delivering decoded events to fn until ctx is done.
// Undecodable messages are acknowledged and dropped.
func (b *EventBus) Subscribe(ctx context.Context, fn func(ctx context.Context, event types.Event) error) error {
	if b.backend == nil {
		return errors.New("mq backend is not configured")
	}
	return b.backend.Subscribe(ctx, b.channel, func(ctx context.Context, msg Message) error {
		var event types.Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			return nil
		}
		return fn(ctx, event)
	})
}

// Close closes the underlying backend.
func (b *EventBus) Close() error {
	if b.backend == nil {
		return nil
	}
	return b.backend.Close()
}
