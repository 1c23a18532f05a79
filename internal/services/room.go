package services

import (
	"context"
	"errors"
	"strings"

	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/store"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/types"
)

const msgRoomNotFound = "Không tìm thấy phòng!"

// ClassroomRepository defines persistence operations for classrooms.
type ClassroomRepository interface {
	List(ctx context.Context) ([]types.Classroom, error)
	Get(ctx context.Context, id int) (types.Classroom, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, room types.Classroom) (types.Classroom, error)
	Update(ctx context.Context, room types.Classroom) (types.Classroom, error)
	Delete(ctx context.Context, id int) error
}

// RoomPatch carries the supplied room fields of an update.
type RoomPatch struct {
	RoomName  *string
	Capacity  *int
	Equipment *string
	Status    *string
}

// RoomService encapsulates classroom use-cases.
type RoomService struct {
	repo   ClassroomRepository
	events EventPublisher
}

func NewRoomService(repo ClassroomRepository, events EventPublisher) *RoomService {
	if events == nil {
		events = nopPublisher{}
	}
	return &RoomService{repo: repo, events: events}
}

func (s *RoomService) List(ctx context.Context) ([]types.Classroom, error) {
	return s.repo.List(ctx)
}

func (s *RoomService) Get(ctx context.Context, id int) (types.Classroom, error) {
	room, err := s.repo.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return types.Classroom{}, notFoundError(msgRoomNotFound)
	}
	return room, err
}

// Create inserts a room. Name uniqueness is enforced by the store.
func (s *RoomService) Create(ctx context.Context, actorID int, room types.Classroom) (types.Classroom, error) {
	room.RoomName = strings.TrimSpace(room.RoomName)
	if room.Status == "" {
		room.Status = types.RoomAvailable
	}
	if err := validateRoom(room); err != nil {
		return types.Classroom{}, err
	}

	created, err := s.repo.Create(ctx, room)
	if errors.Is(err, store.ErrConflict) {
		return types.Classroom{}, conflictError("Tên phòng đã tồn tại")
	}
	if err != nil {
		return types.Classroom{}, err
	}

	publishEvent(ctx, s.events, types.EventRoomCreated, actorID, created.ID, created.RoomName)
	return created, nil
}

// Update applies only the supplied fields.
func (s *RoomService) Update(ctx context.Context, actorID, id int, patch RoomPatch) (types.Classroom, error) {
	room, err := s.Get(ctx, id)
	if err != nil {
		return types.Classroom{}, err
	}

	if patch.RoomName != nil {
		room.RoomName = strings.TrimSpace(*patch.RoomName)
	}
	if patch.Capacity != nil {
		room.Capacity = *patch.Capacity
	}
	if patch.Equipment != nil {
		room.Equipment = *patch.Equipment
	}
	if patch.Status != nil {
		room.Status = *patch.Status
	}
	if err := validateRoom(room); err != nil {
		return types.Classroom{}, err
	}

	updated, err := s.repo.Update(ctx, room)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return types.Classroom{}, notFoundError(msgRoomNotFound)
	case errors.Is(err, store.ErrConflict):
		return types.Classroom{}, conflictError("Tên phòng đã tồn tại")
	case err != nil:
		return types.Classroom{}, err
	}

	publishEvent(ctx, s.events, types.EventRoomUpdated, actorID, updated.ID, updated.RoomName)
	return updated, nil
}

// Delete removes the room. Bookings that reference it are kept and show
// the room as unknown.
func (s *RoomService) Delete(ctx context.Context, actorID, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFoundError(msgRoomNotFound)
		}
		return err
	}
	publishEvent(ctx, s.events, types.EventRoomDeleted, actorID, id, "")
	return nil
}

func validateRoom(room types.Classroom) error {
	if room.RoomName == "" {
		return validationError("Tên phòng không được để trống")
	}
	if room.Capacity < 0 {
		return validationError("Sức chứa không hợp lệ")
	}
	if !types.ValidRoomStatus(room.Status) {
		return validationError("Trạng thái phòng không hợp lệ")
	}
	return nil
}
