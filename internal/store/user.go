package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vuongdotheanh/Website-EduManager7.github.io/types"
)

const userColumns = `id, username, password_hash, COALESCE(email, ''), phone, role, full_name, verification_code, created_at, updated_at`

// UserRepository handles persistence for users.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (types.User, error) {
	var user types.User
	var code sql.NullString
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Email,
		&user.Phone,
		&user.Role,
		&user.FullName,
		&code,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return types.User{}, err
	}
	if code.Valid {
		value := code.String
		user.VerificationCode = &value
	}
	return user, nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, args ...any) (types.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (types.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (types.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) List(ctx context.Context) ([]types.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]types.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) CountByRole(ctx context.Context, role string) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM users WHERE role = $1`, role).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	const query = `
		INSERT INTO users (username, password_hash, email, phone, role, full_name, verification_code, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		user.Username,
		user.PasswordHash,
		user.Email,
		user.Phone,
		user.Role,
		user.FullName,
		nullableCode(user.VerificationCode),
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID); err != nil {
		return types.User{}, mapError(err)
	}
	return user, nil
}

// Update overwrites the profile columns of an existing user. The
// verification code is managed separately.
func (r *UserRepository) Update(ctx context.Context, user types.User) (types.User, error) {
	const query = `
		UPDATE users
		SET username = $1,
			password_hash = $2,
			email = NULLIF($3, ''),
			phone = $4,
			role = $5,
			full_name = $6,
			updated_at = $7
		WHERE id = $8`
	user.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query, profileArgs(user)...)
	if err != nil {
		return types.User{}, mapError(err)
	}
	if err := expectAffected(result); err != nil {
		return types.User{}, err
	}
	return user, nil
}

// UpdateWithCode writes the profile columns and clears the pending code in
// one statement, provided the pending code equals code. A unique violation
// rolls back both, leaving the code redeemable.
func (r *UserRepository) UpdateWithCode(ctx context.Context, user types.User, code string) (types.User, error) {
	const query = `
		UPDATE users
		SET username = $1,
			password_hash = $2,
			email = NULLIF($3, ''),
			phone = $4,
			role = $5,
			full_name = $6,
			updated_at = $7,
			verification_code = NULL
		WHERE id = $8 AND verification_code IS NOT NULL AND verification_code = $9`
	user.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query, append(profileArgs(user), code)...)
	if err != nil {
		return types.User{}, mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.User{}, err
	}
	if affected != 1 {
		return types.User{}, ErrCodeMismatch
	}
	user.VerificationCode = nil
	return user, nil
}

func profileArgs(user types.User) []any {
	return []any{
		user.Username,
		user.PasswordHash,
		user.Email,
		user.Phone,
		user.Role,
		user.FullName,
		user.UpdatedAt,
		user.ID,
	}
}

// SetVerificationCode stores a pending code, or clears it when code is nil.
func (r *UserRepository) SetVerificationCode(ctx context.Context, id int, code *string) error {
	const query = `UPDATE users SET verification_code = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, nullableCode(code), time.Now(), id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

// ConsumeVerificationCode clears the pending code only if it equals code.
// It reports whether the code matched. The compare-and-clear runs as a
// single statement so a code can be redeemed once.
func (r *UserRepository) ConsumeVerificationCode(ctx context.Context, id int, code string) (bool, error) {
	const query = `
		UPDATE users
		SET verification_code = NULL, updated_at = $1
		WHERE id = $2 AND verification_code IS NOT NULL AND verification_code = $3`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id, code)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM users WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

func nullableCode(code *string) sql.NullString {
	if code == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *code, Valid: true}
}

func expectAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
