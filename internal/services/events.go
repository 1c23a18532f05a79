package services

import (
	"context"
	"log"
	"time"

	"github.com/vuongdotheanh/Website-EduManager7.github.io/types"
)

// EventPublisher hands domain events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event types.Event) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, types.Event) error { return nil }

// publishEvent is best-effort: a failed publish is logged and never
// reported to the caller of the mutation.
func publishEvent(ctx context.Context, p EventPublisher, kind string, actorID, subjectID int, summary string) {
	if p == nil {
		return
	}
	event := types.Event{
		Kind:       kind,
		ActorID:    actorID,
		SubjectID:  subjectID,
		Summary:    summary,
		OccurredAt: time.Now().UTC(),
	}
	if err := p.Publish(ctx, event); err != nil {
		log.Printf("publish %s event for %d failed: %v", kind, subjectID, err)
	}
}
