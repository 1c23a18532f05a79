package types

import "time"

const (
	RoomAvailable   = "Available"
	RoomMaintenance = "Maintenance"
)

// Classroom represents a bookable room.
type Classroom struct {
	// ID is the unique identifier of the classroom.
	ID int `json:"id" db:"id"`

	// RoomName is the unique, human readable room name.
	RoomName string `json:"room_name" db:"room_name"`

	// Capacity is the number of seats in the room.
	Capacity int `json:"capacity" db:"capacity"`

	// Equipment is a free text description of the room's equipment.
	Equipment string `json:"equipment" db:"equipment"`

	// Status is either "Available" or "Maintenance". Rooms under
	// maintenance cannot be booked.
	Status string `json:"status" db:"status"`

	// CreatedAt is the timestamp when the classroom was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the classroom.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Bookable reports whether new bookings may be placed on the room.
func (c Classroom) Bookable() bool {
	return c.Status != RoomMaintenance
}

// ValidRoomStatus reports whether status is one of the known room states.
func ValidRoomStatus(status string) bool {
	return status == RoomAvailable || status == RoomMaintenance
}
