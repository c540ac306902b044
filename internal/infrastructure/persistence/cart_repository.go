package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shopping"
	"gorm.io/gorm"
)

// GormCartRepository implements CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByID retrieves a cart with its items by cart ID
func (r *GormCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*shopping.Cart, error) {
	var cart shopping.Cart
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&cart, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cart, nil
}

// FindByUserID retrieves a user's cart with its items
func (r *GormCartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*shopping.Cart, error) {
	var cart shopping.Cart
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&cart, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cart, nil
}

// FindOrCreate retrieves a user's cart, creating an empty one if none
// exists. Two concurrent creates race on the user_id unique index; the
// loser re-reads the winner's cart.
func (r *GormCartRepository) FindOrCreate(ctx context.Context, userID uuid.UUID) (*shopping.Cart, bool, error) {
	cart, err := r.FindByUserID(ctx, userID)
	if err == nil {
		return cart, false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, false, err
	}

	fresh, err := shopping.NewCart(userID)
	if err != nil {
		return nil, false, err
	}
	if createErr := r.db.WithContext(ctx).Create(fresh).Error; createErr != nil {
		if isUniqueViolation(createErr) {
			existing, findErr := r.FindByUserID(ctx, userID)
			if findErr != nil {
				return nil, false, findErr
			}
			return existing, false, nil
		}
		return nil, false, createErr
	}
	return fresh, true, nil
}

// Save persists a cart, replacing its items with the current set.
// Removed items must be deleted explicitly; gorm's Save only upserts.
func (r *GormCartRepository) Save(ctx context.Context, cart *shopping.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{FullSaveAssociations: false}).
			Omit("Items").Save(cart).Error; err != nil {
			return err
		}

		keep := make([]uuid.UUID, 0, len(cart.Items))
		for i := range cart.Items {
			cart.Items[i].CartID = cart.ID
			keep = append(keep, cart.Items[i].ID)
		}

		itemQuery := tx.Where("cart_id = ?", cart.ID)
		if len(keep) > 0 {
			itemQuery = itemQuery.Where("id NOT IN ?", keep)
		}
		if err := itemQuery.Delete(&shopping.CartItem{}).Error; err != nil {
			return err
		}

		if len(cart.Items) > 0 {
			if err := tx.Save(&cart.Items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a cart and its items
func (r *GormCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", id).Delete(&shopping.CartItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&shopping.Cart{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormCartRepository implements CartRepository
var _ shopping.CartRepository = (*GormCartRepository)(nil)
