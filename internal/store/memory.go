package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vuongdotheanh/Website-EduManager7.github.io/types"
)

// MemoryStore keeps every table in process memory. It enforces the same
// unique constraints as the SQL schema and is used for local development
// (USE_MEMORY_STORE=true) and tests.
type MemoryStore struct {
	Users      *MemoryUserRepository
	Classrooms *MemoryClassroomRepository
	Bookings   *MemoryBookingRepository
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Users:      &MemoryUserRepository{rows: make(map[int]types.User)},
		Classrooms: &MemoryClassroomRepository{rows: make(map[int]types.Classroom)},
		Bookings:   &MemoryBookingRepository{rows: make(map[int]types.Booking)},
	}
}

// MemoryUserRepository is the in-memory counterpart of UserRepository.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	rows    map[int]types.User
	counter int
}

func copyUser(user types.User) types.User {
	if user.VerificationCode != nil {
		code := *user.VerificationCode
		user.VerificationCode = &code
	}
	return user
}

func (m *MemoryUserRepository) find(match func(types.User) bool) (types.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.rows {
		if match(user) {
			return copyUser(user), nil
		}
	}
	return types.User{}, ErrNotFound
}

// conflicts reports whether another row already holds the username or email.
func (m *MemoryUserRepository) conflicts(user types.User) bool {
	for id, existing := range m.rows {
		if id == user.ID {
			continue
		}
		if existing.Username == user.Username {
			return true
		}
		if user.Email != "" && existing.Email == user.Email {
			return true
		}
	}
	return false
}

func (m *MemoryUserRepository) GetByID(ctx context.Context, id int) (types.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, exists := m.rows[id]
	if !exists {
		return types.User{}, ErrNotFound
	}
	return copyUser(user), nil
}

func (m *MemoryUserRepository) GetByUsername(ctx context.Context, username string) (types.User, error) {
	return m.find(func(u types.User) bool { return u.Username == username })
}

func (m *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	if email == "" {
		return types.User{}, ErrNotFound
	}
	return m.find(func(u types.User) bool { return u.Email == email })
}

func (m *MemoryUserRepository) List(ctx context.Context) ([]types.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]types.User, 0, len(m.rows))
	for _, user := range m.rows {
		users = append(users, copyUser(user))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *MemoryUserRepository) CountByRole(ctx context.Context, role string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := 0
	for _, user := range m.rows {
		if user.Role == role {
			total++
		}
	}
	return total, nil
}

func (m *MemoryUserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user.ID = 0
	if m.conflicts(user) {
		return types.User{}, ErrConflict
	}

	m.counter++
	now := time.Now()
	user.ID = m.counter
	user.CreatedAt = now
	user.UpdatedAt = now
	m.rows[user.ID] = copyUser(user)
	return copyUser(user), nil
}

func (m *MemoryUserRepository) Update(ctx context.Context, user types.User) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.rows[user.ID]
	if !exists {
		return types.User{}, ErrNotFound
	}
	if m.conflicts(user) {
		return types.User{}, ErrConflict
	}

	user.VerificationCode = existing.VerificationCode
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = time.Now()
	m.rows[user.ID] = copyUser(user)
	return copyUser(user), nil
}

func (m *MemoryUserRepository) UpdateWithCode(ctx context.Context, user types.User, code string) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.rows[user.ID]
	if !exists || existing.VerificationCode == nil || *existing.VerificationCode != code {
		return types.User{}, ErrCodeMismatch
	}
	if m.conflicts(user) {
		return types.User{}, ErrConflict
	}

	user.VerificationCode = nil
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = time.Now()
	m.rows[user.ID] = copyUser(user)
	return copyUser(user), nil
}

func (m *MemoryUserRepository) SetVerificationCode(ctx context.Context, id int, code *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, exists := m.rows[id]
	if !exists {
		return ErrNotFound
	}
	user.VerificationCode = nil
	if code != nil {
		value := *code
		user.VerificationCode = &value
	}
	user.UpdatedAt = time.Now()
	m.rows[id] = user
	return nil
}

func (m *MemoryUserRepository) ConsumeVerificationCode(ctx context.Context, id int, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, exists := m.rows[id]
	if !exists || user.VerificationCode == nil || *user.VerificationCode != code {
		return false, nil
	}
	user.VerificationCode = nil
	user.UpdatedAt = time.Now()
	m.rows[id] = user
	return true, nil
}

func (m *MemoryUserRepository) Delete(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.rows[id]; !exists {
		return ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

// MemoryClassroomRepository is the in-memory counterpart of ClassroomRepository.
type MemoryClassroomRepository struct {
	mu      sync.RWMutex
	rows    map[int]types.Classroom
	counter int
}

func (m *MemoryClassroomRepository) nameTaken(room types.Classroom) bool {
	for id, existing := range m.rows {
		if id != room.ID && existing.RoomName == room.RoomName {
			return true
		}
	}
	return false
}

func (m *MemoryClassroomRepository) List(ctx context.Context) ([]types.Classroom, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rooms := make([]types.Classroom, 0, len(m.rows))
	for _, room := range m.rows {
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms, nil
}

func (m *MemoryClassroomRepository) Get(ctx context.Context, id int) (types.Classroom, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	room, exists := m.rows[id]
	if !exists {
		return types.Classroom{}, ErrNotFound
	}
	return room, nil
}

func (m *MemoryClassroomRepository) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows), nil
}

func (m *MemoryClassroomRepository) Create(ctx context.Context, room types.Classroom) (types.Classroom, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	room.ID = 0
	if m.nameTaken(room) {
		return types.Classroom{}, ErrConflict
	}

	m.counter++
	now := time.Now()
	room.ID = m.counter
	room.CreatedAt = now
	room.UpdatedAt = now
	m.rows[room.ID] = room
	return room, nil
}

func (m *MemoryClassroomRepository) Update(ctx context.Context, room types.Classroom) (types.Classroom, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.rows[room.ID]
	if !exists {
		return types.Classroom{}, ErrNotFound
	}
	if m.nameTaken(room) {
		return types.Classroom{}, ErrConflict
	}

	room.CreatedAt = existing.CreatedAt
	room.UpdatedAt = time.Now()
	m.rows[room.ID] = room
	return room, nil
}

func (m *MemoryClassroomRepository) Delete(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.rows[id]; !exists {
		return ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

// MemoryBookingRepository is the in-memory counterpart of BookingRepository.
type MemoryBookingRepository struct {
	mu      sync.RWMutex
	rows    map[int]types.Booking
	counter int
}

func (m *MemoryBookingRepository) filter(match func(types.Booking) bool) []types.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bookings := make([]types.Booking, 0)
	for _, booking := range m.rows {
		if match(booking) {
			bookings = append(bookings, booking)
		}
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].ID < bookings[j].ID })
	return bookings
}

func (m *MemoryBookingRepository) List(ctx context.Context) ([]types.Booking, error) {
	return m.filter(func(types.Booking) bool { return true }), nil
}

func (m *MemoryBookingRepository) ListRecent(ctx context.Context, limit int) ([]types.Booking, error) {
	if limit < 1 {
		limit = 10
	}
	all := m.filter(func(types.Booking) bool { return true })
	recent := make([]types.Booking, 0, limit)
	for i := len(all) - 1; i >= 0 && len(recent) < limit; i-- {
		recent = append(recent, all[i])
	}
	return recent, nil
}

func (m *MemoryBookingRepository) ListByUser(ctx context.Context, userID int) ([]types.Booking, error) {
	return m.filter(func(b types.Booking) bool { return b.UserID == userID }), nil
}

func (m *MemoryBookingRepository) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows), nil
}

func (m *MemoryBookingRepository) CountByUser(ctx context.Context, userID int) (int, error) {
	return len(m.filter(func(b types.Booking) bool { return b.UserID == userID })), nil
}

func (m *MemoryBookingRepository) Get(ctx context.Context, id int) (types.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	booking, exists := m.rows[id]
	if !exists {
		return types.Booking{}, ErrNotFound
	}
	return booking, nil
}

func (m *MemoryBookingRepository) Create(ctx context.Context, booking types.Booking) (types.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counter++
	booking.ID = m.counter
	booking.CreatedAt = time.Now()
	m.rows[booking.ID] = booking
	return booking, nil
}

func (m *MemoryBookingRepository) Delete(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.rows[id]; !exists {
		return ErrNotFound
	}
	delete(m.rows, id)
	return nil
}
