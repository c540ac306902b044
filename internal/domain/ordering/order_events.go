package ordering

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constant
const (
	AggregateTypeOrder = "Order"
)

// Event type constants
const (
	EventTypeOrderCreated   = "order.created"
	EventTypeOrderPaid      = "order.paid"
	EventTypeOrderShipped   = "order.shipped"
	EventTypeOrderCancelled = "order.cancelled"
)

// OrderCreatedEvent is emitted when checkout produces a pending order
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	UserID      uuid.UUID       `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
}

// NewOrderCreatedEvent creates an order created event
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, order.ID),
		UserID:          order.UserID,
		TotalAmount:     order.TotalAmount,
		ItemCount:       order.ItemCount(),
	}
}

// OrderPaidEvent is emitted when payment is confirmed for an order
type OrderPaidEvent struct {
	shared.BaseDomainEvent
	UserID      uuid.UUID       `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaymentRef  string          `json:"payment_ref"`
}

// NewOrderPaidEvent creates an order paid event
func NewOrderPaidEvent(order *Order) *OrderPaidEvent {
	return &OrderPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaid, AggregateTypeOrder, order.ID),
		UserID:          order.UserID,
		TotalAmount:     order.TotalAmount,
		PaymentRef:      order.PaymentRef,
	}
}

// OrderShippedEvent is emitted when an order ships
type OrderShippedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
}

// NewOrderShippedEvent creates an order shipped event
func NewOrderShippedEvent(order *Order) *OrderShippedEvent {
	return &OrderShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderShipped, AggregateTypeOrder, order.ID),
		UserID:          order.UserID,
	}
}

// OrderCancelledEvent is emitted when an order is cancelled. WasPaid tells
// subscribers whether a refund flow applies.
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	UserID  uuid.UUID `json:"user_id"`
	WasPaid bool      `json:"was_paid"`
}

// NewOrderCancelledEvent creates an order cancelled event
func NewOrderCancelledEvent(order *Order, wasPaid bool) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, order.ID),
		UserID:          order.UserID,
		WasPaid:         wasPaid,
	}
}
