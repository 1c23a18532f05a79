package types

import "time"

// Event kinds published after successful mutations.
const (
	EventRoomCreated    = "room.created"
	EventRoomUpdated    = "room.updated"
	EventRoomDeleted    = "room.deleted"
	EventBookingCreated = "booking.created"
	EventBookingDeleted = "booking.deleted"
	EventUserRegistered = "user.registered"
	EventUserUpdated    = "user.updated"
	EventUserDeleted    = "user.deleted"
)

// Event describes a change to the domain for downstream consumers.
type Event struct {
	// ID is assigned when the event is published.
	ID string `json:"id"`

	// Kind is one of the Event* constants.
	Kind string `json:"kind"`

	// ActorID is the user that caused the change, zero for anonymous actions.
	ActorID int `json:"actor_id,omitempty"`

	// SubjectID is the id of the changed row.
	SubjectID int `json:"subject_id"`

	// Summary is a short human readable description.
	Summary string `json:"summary,omitempty"`

	// OccurredAt is the time the change was committed.
	OccurredAt time.Time `json:"occurred_at"`
}
