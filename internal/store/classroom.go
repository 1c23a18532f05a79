package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vuongdotheanh/Website-EduManager7.github.io/types"
)

// ClassroomRepository handles persistence for classrooms.
type ClassroomRepository struct {
	db *sql.DB
}

func NewClassroomRepository(db *sql.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

func (r *ClassroomRepository) List(ctx context.Context) ([]types.Classroom, error) {
	const query = `
		SELECT id, room_name, capacity, equipment, status, created_at, updated_at
		FROM classrooms
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := make([]types.Classroom, 0)
	for rows.Next() {
		var room types.Classroom
		if err := rows.Scan(
			&room.ID,
			&room.RoomName,
			&room.Capacity,
			&room.Equipment,
			&room.Status,
			&room.CreatedAt,
			&room.UpdatedAt,
		); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rooms, nil
}

func (r *ClassroomRepository) Get(ctx context.Context, id int) (types.Classroom, error) {
	const query = `
		SELECT id, room_name, capacity, equipment, status, created_at, updated_at
		FROM classrooms
		WHERE id = $1`
	var room types.Classroom
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&room.ID,
		&room.RoomName,
		&room.Capacity,
		&room.Equipment,
		&room.Status,
		&room.CreatedAt,
		&room.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Classroom{}, ErrNotFound
		}
		return types.Classroom{}, err
	}
	return room, nil
}

func (r *ClassroomRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM classrooms`).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *ClassroomRepository) Create(ctx context.Context, room types.Classroom) (types.Classroom, error) {
	now := time.Now()
	room.CreatedAt = now
	room.UpdatedAt = now

	const query = `
		INSERT INTO classrooms (room_name, capacity, equipment, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		room.RoomName,
		room.Capacity,
		room.Equipment,
		room.Status,
		room.CreatedAt,
		room.UpdatedAt,
	).Scan(&room.ID); err != nil {
		return types.Classroom{}, mapError(err)
	}

	return room, nil
}

func (r *ClassroomRepository) Update(ctx context.Context, room types.Classroom) (types.Classroom, error) {
	room.UpdatedAt = time.Now()

	const query = `
		UPDATE classrooms
		SET room_name = $1,
			capacity = $2,
			equipment = $3,
			status = $4,
			updated_at = $5
		WHERE id = $6`
	result, err := r.db.ExecContext(
		ctx,
		query,
		room.RoomName,
		room.Capacity,
		room.Equipment,
		room.Status,
		room.UpdatedAt,
		room.ID,
	)
	if err != nil {
		return types.Classroom{}, mapError(err)
	}
	if err := expectAffected(result); err != nil {
		return types.Classroom{}, err
	}

	return room, nil
}

// Delete removes the classroom. Bookings that reference it are left in place.
func (r *ClassroomRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM classrooms WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}
