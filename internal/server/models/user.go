// Package models defines server-side data records persisted in the database.
package models

import "time"

// UserStatus is the closed set of account states.
type UserStatus string

const (
	StatusActive   UserStatus = "ACTIVE"
	StatusInactive UserStatus = "INACTIVE"
)

// Valid reports whether s is exactly one of the canonical statuses.
func (s UserStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// User is a stored account. Password always holds a bcrypt hash.
type User struct {
	ID        int64      `db:"id"`
	UserName  string     `db:"username"`
	Password  string     `db:"password"`
	Status    UserStatus `db:"status"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

// Summary drops the credential fields.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, UserName: u.UserName, Status: u.Status}
}

// UserSummary is the only user shape exposed outside the service layer.
type UserSummary struct {
	ID       int64      `db:"id" json:"id"`
	UserName string     `db:"username" json:"username"`
	Status   UserStatus `db:"status" json:"status"`
}

// UserUpdate carries optional profile changes; nil fields are left untouched.
// Password, when set, is already hashed.
type UserUpdate struct {
	UserName *string
	Password *string
}
