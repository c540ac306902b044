package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// ProductRepository is the persistence port for products.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDForUpdate loads the product under a row lock held until
	// the surrounding transaction ends. Only meaningful inside a
	// transaction; used by stock reservation.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs loads the given products in one query. Missing IDs are
	// simply absent from the result.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Save inserts new products and updates existing ones.
	Save(ctx context.Context, product *Product) error

	Delete(ctx context.Context, id uuid.UUID) error

	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
