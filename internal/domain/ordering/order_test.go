package ordering

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderLines() []NewOrderItemInput {
	return []NewOrderItemInput{
		{
			ProductID:   uuid.New(),
			ProductName: "Mechanical Keyboard",
			Quantity:    2,
			UnitPrice:   decimal.RequireFromString("89.99"),
		},
		{
			ProductID:   uuid.New(),
			ProductName: "USB-C Cable",
			Quantity:    3,
			UnitPrice:   decimal.RequireFromString("9.50"),
		},
	}
}

func TestNewOrder(t *testing.T) {
	t.Run("computes total from lines", func(t *testing.T) {
		userID := uuid.New()
		order, err := NewOrder(userID, orderLines())
		require.NoError(t, err)

		assert.Equal(t, userID, order.UserID)
		assert.Equal(t, OrderStatusPending, order.Status)
		assert.Equal(t, 2, order.ItemCount())
		assert.Equal(t, int64(5), order.TotalQuantity())
		// 2*89.99 + 3*9.50 = 208.48
		assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("208.48")))
	})

	t.Run("snapshots product name and price", func(t *testing.T) {
		lines := orderLines()
		order, err := NewOrder(uuid.New(), lines)
		require.NoError(t, err)

		item := order.GetItemByProduct(lines[0].ProductID)
		require.NotNil(t, item)
		assert.Equal(t, "Mechanical Keyboard", item.ProductName)
		assert.True(t, item.PriceAtPurchase.Equal(decimal.RequireFromString("89.99")))
	})

	t.Run("rejects empty line set", func(t *testing.T) {
		_, err := NewOrder(uuid.New(), nil)
		assert.ErrorIs(t, err, shared.ErrEmptyCart)
	})

	t.Run("rejects zero quantity line", func(t *testing.T) {
		lines := orderLines()
		lines[0].Quantity = 0
		_, err := NewOrder(uuid.New(), lines)
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})
}

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusPaid, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusPaid, OrderStatusShipped, true},
		{OrderStatusPaid, OrderStatusCancelled, true},
		{OrderStatusPaid, OrderStatusPending, false},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusShipped, OrderStatusPaid, false},
		{OrderStatusCancelled, OrderStatusPaid, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}

	assert.True(t, OrderStatusShipped.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusPending.IsTerminal())
}

func TestOrderMarkPaid(t *testing.T) {
	t.Run("pending to paid", func(t *testing.T) {
		order, _ := NewOrder(uuid.New(), orderLines())

		err := order.MarkPaid("cs_test_123")
		require.NoError(t, err)
		assert.True(t, order.IsPaid())
		assert.Equal(t, "cs_test_123", order.PaymentRef)
		assert.NotNil(t, order.PaidAt)
	})

	t.Run("idempotent on already paid", func(t *testing.T) {
		order, _ := NewOrder(uuid.New(), orderLines())
		require.NoError(t, order.MarkPaid("cs_test_123"))
		firstPaidAt := *order.PaidAt

		err := order.MarkPaid("cs_test_456")
		require.NoError(t, err)
		assert.Equal(t, "cs_test_123", order.PaymentRef)
		assert.Equal(t, firstPaidAt, *order.PaidAt)
	})

	t.Run("rejected on cancelled order", func(t *testing.T) {
		order, _ := NewOrder(uuid.New(), orderLines())
		require.NoError(t, order.Cancel())

		err := order.MarkPaid("cs_test_123")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
	})
}

func TestOrderShip(t *testing.T) {
	t.Run("paid to shipped", func(t *testing.T) {
		order, _ := NewOrder(uuid.New(), orderLines())
		require.NoError(t, order.MarkPaid("cs_test_123"))

		err := order.Ship()
		require.NoError(t, err)
		assert.True(t, order.IsShipped())
		assert.NotNil(t, order.ShippedAt)
	})

	t.Run("cannot ship unpaid order", func(t *testing.T) {
		order, _ := NewOrder(uuid.New(), orderLines())

		err := order.Ship()
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
	})
}

func TestOrderCancel(t *testing.T) {
	t.Run("pending order", func(t *testing.T) {
		order, _ := NewOrder(uuid.New(), orderLines())

		err := order.Cancel()
		require.NoError(t, err)
		assert.True(t, order.IsCancelled())
		assert.NotNil(t, order.CancelledAt)
	})

	t.Run("paid order", func(t *testing.T) {
		order, _ := NewOrder(uuid.New(), orderLines())
		require.NoError(t, order.MarkPaid("cs_test_123"))

		err := order.Cancel()
		require.NoError(t, err)
		assert.True(t, order.IsCancelled())
	})

	t.Run("shipped order", func(t *testing.T) {
		order, _ := NewOrder(uuid.New(), orderLines())
		require.NoError(t, order.MarkPaid("cs_test_123"))
		require.NoError(t, order.Ship())

		err := order.Cancel()
		assert.ErrorIs(t, err, shared.ErrCannotCancelShipped)
		assert.True(t, order.IsShipped())
	})

	t.Run("already cancelled", func(t *testing.T) {
		order, _ := NewOrder(uuid.New(), orderLines())
		require.NoError(t, order.Cancel())

		err := order.Cancel()
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
	})
}
