package shopping

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository defines the persistence interface for carts
type CartRepository interface {
	// FindByID retrieves a cart with its items by cart ID
	FindByID(ctx context.Context, id uuid.UUID) (*Cart, error)

	// FindByUserID retrieves a user's cart with its items
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Cart, error)

	// FindOrCreate retrieves a user's cart, creating an empty one if none
	// exists. The second return value reports whether a cart was created.
	FindOrCreate(ctx context.Context, userID uuid.UUID) (*Cart, bool, error)

	// Save persists a cart and its items
	Save(ctx context.Context, cart *Cart) error

	// Delete removes a cart and its items
	Delete(ctx context.Context, id uuid.UUID) error
}
