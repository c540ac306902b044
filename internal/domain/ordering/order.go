package ordering

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusPaid || target == OrderStatusCancelled
	case OrderStatusPaid:
		return target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusShipped, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// IsTerminal returns true if no further transitions are possible
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusShipped || s == OrderStatusCancelled
}

// OrderItem represents a line item in an order. Product name and price are
// snapshotted at checkout time so later catalog changes do not rewrite
// order history.
type OrderItem struct {
	shared.BaseEntity
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName     string          `gorm:"type:varchar(200);not null"`
	Quantity        int64           `gorm:"not null"`
	PriceAtPurchase decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// Subtotal returns quantity times the snapshotted unit price
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.PriceAtPurchase.Mul(decimal.NewFromInt(i.Quantity))
}

// GetPriceAtPurchaseMoney returns the snapshotted price as Money
func (i *OrderItem) GetPriceAtPurchaseMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(i.PriceAtPurchase)
}

// Order represents an order aggregate root
// It manages the lifecycle of a customer order from checkout to shipment
type Order struct {
	shared.BaseAggregateRoot
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status      OrderStatus     `gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentRef  string          `gorm:"type:varchar(255)"`
	PaidAt      *time.Time
	ShippedAt   *time.Time
	CancelledAt *time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrderItemInput carries the data for one order line at creation time
type NewOrderItemInput struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int64
	UnitPrice   decimal.Decimal
}

// NewOrder creates an order in pending status from checkout line inputs.
// The total is computed from the lines; it is never supplied by the caller.
func NewOrder(userID uuid.UUID, items []NewOrderItemInput) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.ErrEmptyCart
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Items:             make([]OrderItem, 0, len(items)),
		TotalAmount:       decimal.Zero,
		Status:            OrderStatusPending,
	}

	for _, in := range items {
		if in.ProductID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
		}
		if in.ProductName == "" {
			return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
		}
		if in.Quantity <= 0 {
			return nil, shared.ErrInvalidQuantity
		}
		if in.UnitPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
		}

		order.Items = append(order.Items, OrderItem{
			BaseEntity:      shared.NewBaseEntity(),
			OrderID:         order.ID,
			ProductID:       in.ProductID,
			ProductName:     in.ProductName,
			Quantity:        in.Quantity,
			PriceAtPurchase: in.UnitPrice,
		})
	}

	order.recalculateTotal()

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// MarkPaid transitions the order to paid. Calling it on an order that is
// already paid is a no-op, so duplicate payment notifications are safe.
func (o *Order) MarkPaid(paymentRef string) error {
	if o.Status == OrderStatusPaid {
		return nil
	}
	if !o.Status.CanTransitionTo(OrderStatusPaid) {
		return invalidTransitionError(o.Status, OrderStatusPaid)
	}

	now := time.Now()
	o.Status = OrderStatusPaid
	o.PaymentRef = paymentRef
	o.PaidAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderPaidEvent(o))

	return nil
}

// Ship marks the order as shipped. Only paid orders can ship.
func (o *Order) Ship() error {
	if !o.Status.CanTransitionTo(OrderStatusShipped) {
		return invalidTransitionError(o.Status, OrderStatusShipped)
	}

	now := time.Now()
	o.Status = OrderStatusShipped
	o.ShippedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderShippedEvent(o))

	return nil
}

// Cancel cancels a pending or paid order. Stock restoration is handled by
// the application service. Shipped orders cannot be cancelled.
func (o *Order) Cancel() error {
	if o.Status == OrderStatusShipped {
		return shared.ErrCannotCancelShipped
	}
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return invalidTransitionError(o.Status, OrderStatusCancelled)
	}

	wasPaid := o.Status == OrderStatusPaid
	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderCancelledEvent(o, wasPaid))

	return nil
}

// recalculateTotal recomputes the total from the line snapshots
func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].Subtotal())
	}
	o.TotalAmount = total
}

// GetTotalAmountMoney returns the order total as Money
func (o *Order) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(o.TotalAmount)
}

// ItemCount returns the number of lines in the order
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// TotalQuantity returns the sum of all line quantities
func (o *Order) TotalQuantity() int64 {
	var total int64
	for i := range o.Items {
		total += o.Items[i].Quantity
	}
	return total
}

// IsPending returns true if the order awaits payment
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

// IsPaid returns true if the order has been paid
func (o *Order) IsPaid() bool {
	return o.Status == OrderStatusPaid
}

// IsShipped returns true if the order has shipped
func (o *Order) IsShipped() bool {
	return o.Status == OrderStatusShipped
}

// IsCancelled returns true if the order is cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// IsTerminal returns true if the order is in a terminal state
func (o *Order) IsTerminal() bool {
	return o.Status.IsTerminal()
}

// GetItemByProduct returns the line for a product ID, or nil
func (o *Order) GetItemByProduct(productID uuid.UUID) *OrderItem {
	for i := range o.Items {
		if o.Items[i].ProductID == productID {
			return &o.Items[i]
		}
	}
	return nil
}

func invalidTransitionError(from, to OrderStatus) error {
	return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot transition order from %s to %s", from, to))
}
