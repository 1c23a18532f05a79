package services

import (
	"context"
	"errors"
	"strings"

	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/store"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByUsername(ctx context.Context, username string) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	List(ctx context.Context) ([]types.User, error)
	CountByRole(ctx context.Context, role string) (int, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	Update(ctx context.Context, user types.User) (types.User, error)
	SetVerificationCode(ctx context.Context, id int, code *string) error
	ConsumeVerificationCode(ctx context.Context, id int, code string) (bool, error)
	UpdateWithCode(ctx context.Context, user types.User, code string) (types.User, error)
	Delete(ctx context.Context, id int) error
}

// UserPatch carries the fields an admin may override. Nil fields are
// left unchanged; an empty NewPassword is ignored.
type UserPatch struct {
	Email       *string
	Phone       *string
	Role        *string
	NewPassword *string
}

// UserService encapsulates identity lookup and admin user management.
type UserService struct {
	repo   UserRepository
	events EventPublisher
}

func NewUserService(repo UserRepository, events EventPublisher) *UserService {
	if events == nil {
		events = nopPublisher{}
	}
	return &UserService{repo: repo, events: events}
}

// GetByUsername resolves a session identity. store.ErrNotFound means the
// caller is anonymous.
func (s *UserService) GetByUsername(ctx context.Context, username string) (types.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *UserService) List(ctx context.Context) ([]types.User, error) {
	return s.repo.List(ctx)
}

// Update applies an admin patch to another account. Email uniqueness is
// left to the store constraint.
func (s *UserService) Update(ctx context.Context, actor types.User, id int, patch UserPatch) (types.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return types.User{}, notFoundError("Không tìm thấy user!")
	}
	if err != nil {
		return types.User{}, err
	}

	if patch.Email != nil {
		user.Email = strings.TrimSpace(*patch.Email)
	}
	if patch.Phone != nil {
		user.Phone = strings.TrimSpace(*patch.Phone)
	}
	if patch.Role != nil {
		if !types.ValidRole(*patch.Role) {
			return types.User{}, validationError("Vai trò không hợp lệ")
		}
		user.Role = *patch.Role
	}
	if patch.NewPassword != nil && *patch.NewPassword != "" {
		hash, err := HashPassword(*patch.NewPassword)
		if err != nil {
			return types.User{}, err
		}
		user.PasswordHash = hash
	}

	updated, err := s.repo.Update(ctx, user)
	if errors.Is(err, store.ErrConflict) {
		return types.User{}, conflictError("Email này đã được sử dụng")
	}
	if err != nil {
		return types.User{}, err
	}

	publishEvent(ctx, s.events, types.EventUserUpdated, actor.ID, updated.ID, updated.Username)
	return updated, nil
}

// Delete removes another account. The account's bookings are kept.
func (s *UserService) Delete(ctx context.Context, actor types.User, id int) error {
	user, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return notFoundError("User không tồn tại.")
	}
	if err != nil {
		return err
	}
	if user.ID == actor.ID {
		return forbiddenError("Không thể xóa chính mình!")
	}

	if err := s.repo.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFoundError("User không tồn tại.")
		}
		return err
	}

	publishEvent(ctx, s.events, types.EventUserDeleted, actor.ID, user.ID, user.Username)
	return nil
}
