package shopping

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constant
const (
	AggregateTypeCart = "Cart"
)

// Event type constants
const (
	EventTypeCartCreated     = "cart.created"
	EventTypeCartItemAdded   = "cart.item_added"
	EventTypeCartItemRemoved = "cart.item_removed"
	EventTypeCartCleared     = "cart.cleared"
)

// CartCreatedEvent is emitted when a cart is created for a user
type CartCreatedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
}

// NewCartCreatedEvent creates a cart created event
func NewCartCreatedEvent(cart *Cart) *CartCreatedEvent {
	return &CartCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCartCreated, AggregateTypeCart, cart.ID),
		UserID:          cart.UserID,
	}
}

// CartItemAddedEvent is emitted when a product is added to a cart
type CartItemAddedEvent struct {
	shared.BaseDomainEvent
	UserID    uuid.UUID `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int64     `json:"quantity"`
}

// NewCartItemAddedEvent creates a cart item added event
func NewCartItemAddedEvent(cart *Cart, productID uuid.UUID, qty int64) *CartItemAddedEvent {
	return &CartItemAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCartItemAdded, AggregateTypeCart, cart.ID),
		UserID:          cart.UserID,
		ProductID:       productID,
		Quantity:        qty,
	}
}

// CartItemRemovedEvent is emitted when a product is removed from a cart
type CartItemRemovedEvent struct {
	shared.BaseDomainEvent
	UserID    uuid.UUID `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
}

// NewCartItemRemovedEvent creates a cart item removed event
func NewCartItemRemovedEvent(cart *Cart, productID uuid.UUID) *CartItemRemovedEvent {
	return &CartItemRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCartItemRemoved, AggregateTypeCart, cart.ID),
		UserID:          cart.UserID,
		ProductID:       productID,
	}
}

// CartClearedEvent is emitted when all items are removed from a cart
type CartClearedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
}

// NewCartClearedEvent creates a cart cleared event
func NewCartClearedEvent(cart *Cart) *CartClearedEvent {
	return &CartClearedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCartCleared, AggregateTypeCart, cart.ID),
		UserID:          cart.UserID,
	}
}
