package services

import (
	"context"
	"errors"
	"strings"

	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/metrics"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/store"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/types"
)

// BookingRepository defines persistence operations for bookings.
type BookingRepository interface {
	List(ctx context.Context) ([]types.Booking, error)
	ListRecent(ctx context.Context, limit int) ([]types.Booking, error)
	ListByUser(ctx context.Context, userID int) ([]types.Booking, error)
	Count(ctx context.Context) (int, error)
	CountByUser(ctx context.Context, userID int) (int, error)
	Get(ctx context.Context, id int) (types.Booking, error)
	Create(ctx context.Context, booking types.Booking) (types.Booking, error)
	Delete(ctx context.Context, id int) error
}

// BookingRequest is a reservation as entered by the booker. StartTime and
// Duration are free-form display strings.
type BookingRequest struct {
	RoomID    int
	StartTime string
	Duration  string
}

// BookingService encapsulates booking use-cases.
type BookingService struct {
	repo   BookingRepository
	rooms  ClassroomRepository
	events EventPublisher
}

func NewBookingService(repo BookingRepository, rooms ClassroomRepository, events EventPublisher) *BookingService {
	if events == nil {
		events = nopPublisher{}
	}
	return &BookingService{repo: repo, rooms: rooms, events: events}
}

// Create books a room for the actor. Existing bookings of the same room are
// not checked for overlap.
func (s *BookingService) Create(ctx context.Context, actor types.User, req BookingRequest) (types.Booking, error) {
	if !actor.IsStaff() {
		return types.Booking{}, forbiddenError("Chỉ Giáo viên hoặc Admin mới có quyền này.")
	}
	room, err := s.rooms.Get(ctx, req.RoomID)
	if errors.Is(err, store.ErrNotFound) {
		return types.Booking{}, notFoundError("Không tìm thấy phòng học.")
	}
	if err != nil {
		return types.Booking{}, err
	}
	if !room.Bookable() {
		return types.Booking{}, conflictError("Phòng đang bảo trì!")
	}

	booking, err := s.repo.Create(ctx, types.Booking{
		RoomID:     room.ID,
		UserID:     actor.ID,
		BookerName: actor.DisplayName(),
		StartTime:  req.StartTime,
		Duration:   strings.TrimSpace(req.Duration),
		Status:     types.BookingConfirmed,
	})
	if err != nil {
		return types.Booking{}, err
	}

	metrics.BookingsCreated.Inc()
	publishEvent(ctx, s.events, types.EventBookingCreated, actor.ID, booking.ID, room.RoomName)
	return booking, nil
}

// Delete cancels a booking. Only its owner or an admin may do so.
func (s *BookingService) Delete(ctx context.Context, actor types.User, id int) error {
	const missing = "Không tìm thấy lịch đặt."

	booking, err := s.repo.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return notFoundError(missing)
	}
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && booking.UserID != actor.ID {
		return forbiddenError("Không thể xóa lịch của người khác.")
	}

	if err := s.repo.Delete(ctx, booking.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFoundError(missing)
		}
		return err
	}

	metrics.BookingsDeleted.Inc()
	publishEvent(ctx, s.events, types.EventBookingDeleted, actor.ID, booking.ID, "")
	return nil
}
