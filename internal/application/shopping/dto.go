package shopping

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shopping"
)

// AddItemRequest represents a request to add a product to the cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required"`
}

// UpdateItemRequest represents a request to set a cart line's quantity
type UpdateItemRequest struct {
	Quantity int64 `json:"quantity" binding:"required"`
}

// CartItemResponse represents one cart line with current product data
type CartItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int64           `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// CartResponse represents the cart in API responses. Prices reflect the
// current catalog; they are only fixed at checkout.
type CartResponse struct {
	ID        uuid.UUID          `json:"id"`
	UserID    uuid.UUID          `json:"user_id"`
	Items     []CartItemResponse `json:"items"`
	Total     decimal.Decimal    `json:"total"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// ToCartResponse converts a cart and the referenced products into a response.
// Lines whose product has disappeared from the catalog are skipped.
func ToCartResponse(cart *shopping.Cart, products map[uuid.UUID]*catalog.Product) CartResponse {
	items := make([]CartItemResponse, 0, len(cart.Items))
	total := decimal.Zero

	for i := range cart.Items {
		line := &cart.Items[i]
		product, ok := products[line.ProductID]
		if !ok {
			continue
		}
		subtotal := product.Price.Mul(decimal.NewFromInt(line.Quantity))
		items = append(items, CartItemResponse{
			ProductID:   line.ProductID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    line.Quantity,
			Subtotal:    subtotal,
		})
		total = total.Add(subtotal)
	}

	return CartResponse{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Items:     items,
		Total:     total,
		UpdatedAt: cart.UpdatedAt,
	}
}
