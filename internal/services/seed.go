package services

import (
	"context"
	"errors"
	"strings"

	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/store"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/types"
)

// DefaultClassrooms are created when the catalog is empty.
var DefaultClassrooms = []types.Classroom{
	{RoomName: "Phòng A101", Capacity: 40, Equipment: "Máy chiếu", Status: types.RoomAvailable},
	{RoomName: "Phòng A102", Capacity: 40, Equipment: "Máy chiếu", Status: types.RoomAvailable},
	{RoomName: "Phòng B201", Capacity: 50, Equipment: "Loa, Mic", Status: types.RoomAvailable},
	{RoomName: "Phòng Lab 1", Capacity: 30, Equipment: "PC", Status: types.RoomAvailable},
	{RoomName: "Hội trường", Capacity: 100, Equipment: "Full", Status: types.RoomAvailable},
}

const seedAdminFullName = "Quản Trị Viên"

// SeedResult reports what a seeding run created.
type SeedResult struct {
	AdminCreated bool
	RoomsCreated int
}

// Seeder bootstraps an empty store. Each part is skipped when its rows
// already exist, so running it repeatedly is safe.
type Seeder struct {
	users UserRepository
	rooms ClassroomRepository
}

func NewSeeder(users UserRepository, rooms ClassroomRepository) *Seeder {
	return &Seeder{users: users, rooms: rooms}
}

func (s *Seeder) Seed(ctx context.Context, adminUsername, adminPassword string) (SeedResult, error) {
	var result SeedResult

	adminUsername = strings.TrimSpace(adminUsername)
	if adminUsername == "" {
		return result, errors.New("seed admin username is required")
	}

	_, err := s.users.GetByUsername(ctx, adminUsername)
	switch {
	case errors.Is(err, store.ErrNotFound):
		hash, err := HashPassword(adminPassword)
		if err != nil {
			return result, err
		}
		_, err = s.users.Create(ctx, types.User{
			Username:     adminUsername,
			PasswordHash: hash,
			Role:         types.RoleAdmin,
			FullName:     seedAdminFullName,
		})
		if err != nil && !errors.Is(err, store.ErrConflict) {
			return result, err
		}
		result.AdminCreated = err == nil
	case err != nil:
		return result, err
	}

	count, err := s.rooms.Count(ctx)
	if err != nil {
		return result, err
	}
	if count > 0 {
		return result, nil
	}
	for _, room := range DefaultClassrooms {
		if _, err := s.rooms.Create(ctx, room); err != nil {
			if errors.Is(err, store.ErrConflict) {
				continue
			}
			return result, err
		}
		result.RoomsCreated++
	}
	return result, nil
}
