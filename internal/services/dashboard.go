package services

import (
	"context"

	"github.com/vuongdotheanh/Website-EduManager7.github.io/types"
)

const recentBookingsLimit = 10

// BookingView is a booking with its room name resolved.
type BookingView struct {
	ID         int    `json:"id"`
	RoomID     int    `json:"room_id"`
	RoomName   string `json:"room_name"`
	UserID     int    `json:"user_id"`
	BookerName string `json:"booker_name"`
	StartTime  string `json:"start_time"`
	Duration   string `json:"duration_hours"`
	Status     string `json:"status"`
}

// Dashboard is the landing page summary.
type Dashboard struct {
	TotalTeachers int
	TotalRooms    int
	ActiveRooms   int
	BookingCount  int
	Classrooms    []types.Classroom
	Recent        []BookingView
}

// Scheduler lists every room and every booking.
type Scheduler struct {
	Classrooms []types.Classroom
	Bookings   []BookingView
}

// Profile is the signed-in user's own page.
type Profile struct {
	User    types.User
	History []BookingView
}

// DashboardService assembles read-only page projections.
type DashboardService struct {
	users    UserRepository
	rooms    ClassroomRepository
	bookings BookingRepository
}

func NewDashboardService(users UserRepository, rooms ClassroomRepository, bookings BookingRepository) *DashboardService {
	return &DashboardService{users: users, rooms: rooms, bookings: bookings}
}

// Dashboard counts all bookings for admins and only their own for teachers.
// The recent list always covers every user.
func (s *DashboardService) Dashboard(ctx context.Context, viewer types.User) (Dashboard, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	teachers, err := s.users.CountByRole(ctx, types.RoleTeacher)
	if err != nil {
		return Dashboard{}, err
	}

	var count int
	if viewer.IsAdmin() {
		count, err = s.bookings.Count(ctx)
	} else {
		count, err = s.bookings.CountByUser(ctx, viewer.ID)
	}
	if err != nil {
		return Dashboard{}, err
	}

	recent, err := s.bookings.ListRecent(ctx, recentBookingsLimit)
	if err != nil {
		return Dashboard{}, err
	}

	active := 0
	for _, room := range rooms {
		if room.Status == types.RoomAvailable {
			active++
		}
	}

	return Dashboard{
		TotalTeachers: teachers,
		TotalRooms:    len(rooms),
		ActiveRooms:   active,
		BookingCount:  count,
		Classrooms:    rooms,
		Recent:        resolveRooms(recent, rooms),
	}, nil
}

func (s *DashboardService) Scheduler(ctx context.Context) (Scheduler, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return Scheduler{}, err
	}
	bookings, err := s.bookings.List(ctx)
	if err != nil {
		return Scheduler{}, err
	}
	return Scheduler{Classrooms: rooms, Bookings: resolveRooms(bookings, rooms)}, nil
}

func (s *DashboardService) Profile(ctx context.Context, viewer types.User) (Profile, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return Profile{}, err
	}
	bookings, err := s.bookings.ListByUser(ctx, viewer.ID)
	if err != nil {
		return Profile{}, err
	}
	return Profile{User: viewer, History: resolveRooms(bookings, rooms)}, nil
}

func resolveRooms(bookings []types.Booking, rooms []types.Classroom) []BookingView {
	names := make(map[int]string, len(rooms))
	for _, room := range rooms {
		names[room.ID] = room.RoomName
	}

	views := make([]BookingView, 0, len(bookings))
	for _, b := range bookings {
		name, ok := names[b.RoomID]
		if !ok {
			name = types.UnknownRoom
		}
		views = append(views, BookingView{
			ID:         b.ID,
			RoomID:     b.RoomID,
			RoomName:   name,
			UserID:     b.UserID,
			BookerName: b.BookerName,
			StartTime:  b.StartTime,
			Duration:   b.Duration,
			Status:     b.Status,
		})
	}
	return views
}
