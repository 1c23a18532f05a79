package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vuongdotheanh/Website-EduManager7.github.io/types"
)

const bookingColumns = `id, room_id, user_id, booker_name, start_time, duration, status, created_at`

// BookingRepository handles persistence for bookings.
type BookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func scanBooking(row rowScanner) (types.Booking, error) {
	var booking types.Booking
	err := row.Scan(
		&booking.ID,
		&booking.RoomID,
		&booking.UserID,
		&booking.BookerName,
		&booking.StartTime,
		&booking.Duration,
		&booking.Status,
		&booking.CreatedAt,
	)
	return booking, err
}

func (r *BookingRepository) query(ctx context.Context, query string, args ...any) ([]types.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]types.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepository) List(ctx context.Context) ([]types.Booking, error) {
	return r.query(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY id`)
}

// ListRecent returns the newest bookings first.
func (r *BookingRepository) ListRecent(ctx context.Context, limit int) ([]types.Booking, error) {
	if limit < 1 {
		limit = 10
	}
	return r.query(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY id DESC LIMIT $1`, limit)
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID int) ([]types.Booking, error) {
	return r.query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id = $1 ORDER BY id`, userID)
}

func (r *BookingRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM bookings`).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *BookingRepository) CountByUser(ctx context.Context, userID int) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM bookings WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *BookingRepository) Get(ctx context.Context, id int) (types.Booking, error) {
	booking, err := scanBooking(r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Booking{}, ErrNotFound
		}
		return types.Booking{}, err
	}
	return booking, nil
}

func (r *BookingRepository) Create(ctx context.Context, booking types.Booking) (types.Booking, error) {
	booking.CreatedAt = time.Now()

	const query = `
		INSERT INTO bookings (room_id, user_id, booker_name, start_time, duration, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		booking.RoomID,
		booking.UserID,
		booking.BookerName,
		booking.StartTime,
		booking.Duration,
		booking.Status,
		booking.CreatedAt,
	).Scan(&booking.ID); err != nil {
		return types.Booking{}, err
	}

	return booking, nil
}

func (r *BookingRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM bookings WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}
