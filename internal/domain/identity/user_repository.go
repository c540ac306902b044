package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the persistence interface for users
type UserRepository interface {
	// FindByID retrieves a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail retrieves a user by normalized email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByEmail reports whether an account exists for the email
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Save persists a user
	Save(ctx context.Context, user *User) error

	// Delete removes a user
	Delete(ctx context.Context, id uuid.UUID) error
}
