package domain

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for credential store operations
type UserRepository interface {
	// Create inserts a new user; returns ErrDuplicateEmail if the email is taken
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID; returns ErrUserNotFound if absent
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByEmail retrieves a user by normalized email; returns ErrUserNotFound if absent
	GetByEmail(ctx context.Context, email string) (*User, error)

	// CountByEmail returns the number of records holding the email (0 or 1)
	CountByEmail(ctx context.Context, email string) (int, error)
}
