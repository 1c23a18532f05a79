package types

import "time"

// BookingConfirmed is the only status a booking takes in this system.
const BookingConfirmed = "Confirmed"

// UnknownRoom is reported in place of a room name when the referenced
// classroom no longer exists.
const UnknownRoom = "Unknown"

// Booking represents a reservation of a classroom by a user.
// RoomID and UserID are weak references: the referenced rows may
// have been deleted since the booking was made.
type Booking struct {
	// ID is the unique identifier of the booking.
	ID int `json:"id" db:"id"`

	// RoomID identifies the booked classroom.
	RoomID int `json:"room_id" db:"room_id"`

	// UserID identifies the user who owns the booking.
	UserID int `json:"user_id" db:"user_id"`

	// BookerName is a snapshot of the owner's display name at booking
	// time. It is not updated when the user's profile changes.
	BookerName string `json:"booker_name" db:"booker_name"`

	// StartTime is the free-form start time entered by the booker.
	StartTime string `json:"start_time" db:"start_time"`

	// Duration is the free-form display duration entered by the booker.
	Duration string `json:"duration_hours" db:"duration"`

	// Status is the booking status, "Confirmed" by default.
	Status string `json:"status" db:"status"`

	// CreatedAt is the timestamp when the booking was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
