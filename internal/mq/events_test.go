package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/vuongdotheanh/Website-EduManager7.github.io/config"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/types"
)

type fakeBackend struct {
	channel   string
	published []Message
	err       error
}

func (f *fakeBackend) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.channel = channel
	f.published = append(f.published, Message{ID: "m", Data: data, Attributes: attrs})
	return "m", nil
}

func (f *fakeBackend) Subscribe(ctx context.Context, channel string, handler Handler) error {
	for _, msg := range f.published {
		if err := handler(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeBackend) Close() error { return nil }

func TestEventBusPublish(t *testing.T) {
	backend := &fakeBackend{}
	bus := NewEventBus(backend, "edumanager.events")

	err := bus.Publish(context.Background(), types.Event{Kind: types.EventBookingCreated, ActorID: 2, SubjectID: 7})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if backend.channel != "edumanager.events" || len(backend.published) != 1 {
		t.Fatalf("unexpected publish state %+v", backend)
	}

	msg := backend.published[0]
	if msg.Attributes["kind"] != types.EventBookingCreated {
		t.Fatalf("expected kind attribute, got %v", msg.Attributes)
	}
	var decoded types.Event
	if err := json.Unmarshal(msg.Data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.ID == "" || decoded.OccurredAt.IsZero() || decoded.SubjectID != 7 {
		t.Fatalf("unexpected event %+v", decoded)
	}
}

func TestEventBusSubscribeSkipsGarbage(t *testing.T) {
	backend := &fakeBackend{}
	bus := NewEventBus(backend, "events")
	_ = bus.Publish(context.Background(), types.Event{Kind: types.EventRoomCreated, SubjectID: 1})
	backend.published = append(backend.published, Message{Data: []byte("not json")})

	var got []types.Event
	err := bus.Subscribe(context.Background(), func(ctx context.Context, event types.Event) error {
		got = append(got, event)
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if len(got) != 1 || got[0].Kind != types.EventRoomCreated {
		t.Fatalf("unexpected events %+v", got)
	}
}

func TestEventBusWithoutBackend(t *testing.T) {
	bus := NewEventBus(nil, "events")
	if err := bus.Publish(context.Background(), types.Event{}); err == nil {
		t.Fatalf("expected error without backend")
	}
	if err := bus.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestEventBusPublishFailure(t *testing.T) {
	bus := NewEventBus(&fakeBackend{err: errors.New("broker down")}, "events")
	if err := bus.Publish(context.Background(), types.Event{Kind: types.EventRoomDeleted}); err == nil {
		t.Fatalf("expected broker error")
	}
}

func TestOpen(t *testing.T) {
	backend, err := Open(context.Background(), config.MQConfig{Backend: "none"})
	if err != nil || backend != nil {
		t.Fatalf("expected disabled backend, got %v %v", backend, err)
	}
	if _, err := Open(context.Background(), config.MQConfig{Backend: "kafka"}); err == nil {
		t.Fatalf("expected unknown backend error")
	}
	if _, err := Open(context.Background(), config.MQConfig{Backend: "rabbitmq"}); err == nil {
		t.Fatalf("expected missing url error")
	}
	if _, err := Open(context.Background(), config.MQConfig{Backend: "pubsub"}); err == nil {
		t.Fatalf("expected missing project error")
	}
}
