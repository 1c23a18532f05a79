package types

import "time"

const (
	// RoleAdmin grants full control over rooms, users and every booking.
	RoleAdmin = "admin"
	// RoleTeacher grants booking rights only.
	RoleTeacher = "teacher"
)

// User represents an account in the system.
// It contains identity, contact, role, and verification state.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Username is the unique login name chosen by the user.
	Username string `json:"username" db:"username"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// Email is the user's email address. It is unique when present;
	// the seeded admin account has none.
	Email string `json:"email" db:"email"`

	// Phone is the user's phone number, used by the legacy password reset.
	Phone string `json:"phone" db:"phone"`

	// Role indicates the user's authorization level
	// within the system ("admin" or "teacher").
	Role string `json:"role" db:"role"`

	// FullName is the user's display name.
	FullName string `json:"full_name" db:"full_name"`

	// VerificationCode holds the pending one-time code, or nil when
	// no verification is in progress. Never exposed in API responses.
	VerificationCode *string `json:"-" db:"verification_code"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DisplayName returns the full name, falling back to the username.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsStaff reports whether the user may book rooms.
func (u User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleTeacher
}

// HasPendingCode reports whether a verification code is outstanding.
func (u User) HasPendingCode() bool {
	return u.VerificationCode != nil
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleTeacher
}
