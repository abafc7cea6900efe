package domain

import (
	"context"
	"time"
)

// User represents the core user model in the application domain.
type User struct {
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// UserRepository defines the contract for user data storage operations.
// It lives in the domain because it's a requirement OF the domain, not
// of the storage implementation.
type UserRepository interface {
	// Create stores a new user, failing with ErrUserAlreadyExists on a duplicate email.
	Create(ctx context.Context, user *User) error
	// FindByEmail returns the user or ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*User, error)
	// UpdatePassword replaces the stored hash, or returns ErrUserNotFound.
	UpdatePassword(ctx context.Context, email string, hash []byte) (*User, error)
	// Delete removes the user and returns the removed record, or ErrUserNotFound.
	Delete(ctx context.Context, email string) (*User, error)
}
