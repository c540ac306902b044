package ordering

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderRepository defines the persistence interface for orders
type OrderRepository interface {
	// FindByID retrieves an order with its items by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForUpdate retrieves an order with a row lock, serializing
	// concurrent status transitions. Must run inside a transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByUserID retrieves a user's orders, newest first
	FindByUserID(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[Order], error)

	// Save persists an order and its items
	Save(ctx context.Context, order *Order) error

	// Count returns the number of orders for a user
	Count(ctx context.Context, userID uuid.UUID) (int64, error)
}
