package store

import (
	"context"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/types"
)

func TestMemoryUserUniqueness(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryStore().Users

	if _, err := users.Create(ctx, types.User{Username: "alice", Email: "alice@example.com"}); err != nil {
		t.Fatalf("create alice: %v", err)
	}
	if _, err := users.Create(ctx, types.User{Username: "alice", Email: "other@example.com"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected username conflict, got %v", err)
	}
	if _, err := users.Create(ctx, types.User{Username: "bob", Email: "alice@example.com"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected email conflict, got %v", err)
	}

	// Accounts without email never collide on it.
	if _, err := users.Create(ctx, types.User{Username: "admin"}); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if _, err := users.Create(ctx, types.User{Username: "admin2"}); err != nil {
		t.Fatalf("create admin2: %v", err)
	}
	if _, err := users.GetByEmail(ctx, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected empty email lookup to miss, got %v", err)
	}
}

func TestMemoryConsumeVerificationCode(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryStore().Users

	code := "123456"
	user, err := users.Create(ctx, types.User{Username: "alice", VerificationCode: &code})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Mutating the caller's string must not leak into the store.
	code = "999999"

	ok, err := users.ConsumeVerificationCode(ctx, user.ID, "000000")
	if err != nil || ok {
		t.Fatalf("expected mismatch, got ok=%v err=%v", ok, err)
	}
	ok, err = users.ConsumeVerificationCode(ctx, user.ID, "123456")
	if err != nil || !ok {
		t.Fatalf("expected match, got ok=%v err=%v", ok, err)
	}
	ok, err = users.ConsumeVerificationCode(ctx, user.ID, "123456")
	if err != nil || ok {
		t.Fatalf("expected replay to fail, got ok=%v err=%v", ok, err)
	}

	stored, err := users.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.HasPendingCode() {
		t.Fatalf("expected code cleared")
	}
}

func TestMemoryUpdateKeepsVerificationCode(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryStore().Users

	code := "654321"
	user, _ := users.Create(ctx, types.User{Username: "alice", VerificationCode: &code})
	user.VerificationCode = nil
	user.Phone = "0900"
	if _, err := users.Update(ctx, user); err != nil {
		t.Fatalf("update: %v", err)
	}

	stored, _ := users.GetByID(ctx, user.ID)
	if stored.Phone != "0900" {
		t.Fatalf("expected phone updated, got %q", stored.Phone)
	}
	if !stored.HasPendingCode() || *stored.VerificationCode != "654321" {
		t.Fatalf("expected pending code to survive profile update")
	}
}

func TestMemoryBookingsRecentFirst(t *testing.T) {
	ctx := context.Background()
	bookings := NewMemoryStore().Bookings

	for i := 0; i < 12; i++ {
		if _, err := bookings.Create(ctx, types.Booking{RoomID: 1, UserID: 1 + i%2}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	recent, _ := bookings.ListRecent(ctx, 10)
	if len(recent) != 10 {
		t.Fatalf("expected 10 recent bookings, got %d", len(recent))
	}
	if recent[0].ID != 12 || recent[9].ID != 3 {
		t.Fatalf("unexpected order: first=%d last=%d", recent[0].ID, recent[9].ID)
	}

	count, _ := bookings.CountByUser(ctx, 2)
	if count != 6 {
		t.Fatalf("expected 6 bookings for user 2, got %d", count)
	}
	if err := bookings.Delete(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMemoryClassroomNameConflict(t *testing.T) {
	ctx := context.Background()
	rooms := NewMemoryStore().Classrooms

	a, _ := rooms.Create(ctx, types.Classroom{RoomName: "A101"})
	b, _ := rooms.Create(ctx, types.Classroom{RoomName: "A102"})
	if _, err := rooms.Create(ctx, types.Classroom{RoomName: "A101"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	b.RoomName = a.RoomName
	if _, err := rooms.Update(ctx, b); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected rename conflict, got %v", err)
	}
	if _, err := rooms.Update(ctx, types.Classroom{ID: 42, RoomName: "X"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMapError(t *testing.T) {
	if err := mapError(&pq.Error{Code: "23505"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected unique violation to map to conflict, got %v", err)
	}
	other := &pq.Error{Code: "23502"}
	if err := mapError(other); err != other {
		t.Fatalf("expected other errors to pass through, got %v", err)
	}
}

func TestMemoryUpdateWithCode(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryStore().Users

	if _, err := users.Create(ctx, types.User{Username: "bob", Email: "bob@example.com"}); err != nil {
		t.Fatalf("create bob: %v", err)
	}
	code := "123456"
	alice, err := users.Create(ctx, types.User{Username: "alice", Email: "alice@example.com", VerificationCode: &code})
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}

	wrong := alice
	wrong.Phone = "0999"
	if _, err := users.UpdateWithCode(ctx, wrong, "000000"); !errors.Is(err, ErrCodeMismatch) {
		t.Fatalf("expected ErrCodeMismatch, got %v", err)
	}

	taken := alice
	taken.Email = "bob@example.com"
	if _, err := users.UpdateWithCode(ctx, taken, code); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	stored, _ := users.GetByID(ctx, alice.ID)
	if stored.Email != "alice@example.com" || !stored.HasPendingCode() {
		t.Fatalf("conflicting write must leave the row and its code untouched, got %+v", stored)
	}

	changed := alice
	changed.Email = "alice@new.example.com"
	updated, err := users.UpdateWithCode(ctx, changed, code)
	if err != nil {
		t.Fatalf("update with code: %v", err)
	}
	if updated.HasPendingCode() {
		t.Fatalf("expected returned user without pending code")
	}
	stored, _ = users.GetByID(ctx, alice.ID)
	if stored.Email != "alice@new.example.com" || stored.HasPendingCode() {
		t.Fatalf("expected applied change and cleared code, got %+v", stored)
	}

	if _, err := users.UpdateWithCode(ctx, changed, code); !errors.Is(err, ErrCodeMismatch) {
		t.Fatalf("expected redeemed code to be rejected, got %v", err)
	}
}
