package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/ordering"
)

// OrderItemResponse represents one order line in API responses
type OrderItemResponse struct {
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Quantity        int64           `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID          uuid.UUID           `json:"id"`
	UserID      uuid.UUID           `json:"user_id"`
	Items       []OrderItemResponse `json:"items"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	Status      string              `json:"status"`
	PaidAt      *time.Time          `json:"paid_at,omitempty"`
	ShippedAt   *time.Time          `json:"shipped_at,omitempty"`
	CancelledAt *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// CheckoutRequest optionally overrides the configured return URLs for
// the payment page. An empty body uses the configured defaults.
type CheckoutRequest struct {
	SuccessURL string `json:"success_url" binding:"omitempty,url"`
	CancelURL  string `json:"cancel_url" binding:"omitempty,url"`
}

// CheckoutResponse is returned from a successful checkout. RedirectURL
// points at the hosted payment page.
type CheckoutResponse struct {
	Order       OrderResponse `json:"order"`
	RedirectURL string        `json:"redirect_url,omitempty"`
}

// OrderListFilter represents filter options for listing a user's orders
type OrderListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending paid shipped cancelled"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *ordering.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items = append(items, OrderItemResponse{
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
			Subtotal:        item.Subtotal(),
		})
	}

	return OrderResponse{
		ID:          o.ID,
		UserID:      o.UserID,
		Items:       items,
		TotalAmount: o.TotalAmount,
		Status:      o.Status.String(),
		PaidAt:      o.PaidAt,
		ShippedAt:   o.ShippedAt,
		CancelledAt: o.CancelledAt,
		CreatedAt:   o.CreatedAt,
	}
}
