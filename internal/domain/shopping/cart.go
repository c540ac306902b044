package shopping

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Cart represents a user's shopping cart
// It is the aggregate root for cart operations; each user has at most one,
// created lazily on first access
type Cart struct {
	shared.BaseAggregateRoot
	UserID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	Items  []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// CartItem represents a single product line in a cart
type CartItem struct {
	shared.BaseEntity
	CartID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product,priority:1"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product,priority:2"`
	Quantity  int64     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// NewCart creates an empty cart for a user
func NewCart(userID uuid.UUID) (*Cart, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}

	cart := &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Items:             make([]CartItem, 0),
	}

	cart.AddDomainEvent(NewCartCreatedEvent(cart))

	return cart, nil
}

// IsEmpty returns true if the cart has no items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// FindItem returns the cart line for a product, or nil if absent
func (c *Cart) FindItem(productID uuid.UUID) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// AddItem adds qty units of a product to the cart. If the product is
// already in the cart the quantities merge. The merged quantity must not
// exceed availableStock.
func (c *Cart) AddItem(productID uuid.UUID, qty, availableStock int64) error {
	if qty <= 0 {
		return shared.ErrInvalidQuantity
	}

	newQty := qty
	if existing := c.FindItem(productID); existing != nil {
		newQty = existing.Quantity + qty
	}
	if newQty > availableStock {
		return shared.ErrInsufficientStock
	}

	if existing := c.FindItem(productID); existing != nil {
		existing.Quantity = newQty
		existing.UpdatedAt = time.Now()
	} else {
		item := CartItem{
			BaseEntity: shared.NewBaseEntity(),
			CartID:     c.ID,
			ProductID:  productID,
			Quantity:   qty,
		}
		c.Items = append(c.Items, item)
	}

	c.UpdatedAt = time.Now()

	c.AddDomainEvent(NewCartItemAddedEvent(c, productID, qty))

	return nil
}

// UpdateItemQuantity sets the quantity of an existing cart line to an
// absolute value. Zero is not a remove alias; use RemoveItem.
func (c *Cart) UpdateItemQuantity(productID uuid.UUID, qty, availableStock int64) error {
	if qty <= 0 {
		return shared.ErrInvalidQuantity
	}

	item := c.FindItem(productID)
	if item == nil {
		return shared.ErrNotFound
	}
	if qty > availableStock {
		return shared.ErrInsufficientStock
	}

	item.Quantity = qty
	item.UpdatedAt = time.Now()
	c.UpdatedAt = time.Now()

	return nil
}

// RemoveItem removes a product line from the cart
func (c *Cart) RemoveItem(productID uuid.UUID) error {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.UpdatedAt = time.Now()
			c.AddDomainEvent(NewCartItemRemovedEvent(c, productID))
			return nil
		}
	}
	return shared.ErrNotFound
}

// Clear removes all items from the cart (e.g. after checkout)
func (c *Cart) Clear() {
	if len(c.Items) == 0 {
		return
	}

	c.Items = c.Items[:0]
	c.UpdatedAt = time.Now()

	c.AddDomainEvent(NewCartClearedEvent(c))
}

// TotalQuantity returns the sum of all line quantities
func (c *Cart) TotalQuantity() int64 {
	var total int64
	for i := range c.Items {
		total += c.Items[i].Quantity
	}
	return total
}
