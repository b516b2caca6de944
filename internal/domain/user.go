package domain

import "time"

// UserStatus represents lifecycle states for a user.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is a school-scoped account. UserKey is an opaque secondary identifier
// embedded in every token next to ID.
type User struct {
	ID           string
	UserKey      string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	SchoolID     string
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
