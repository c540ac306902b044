package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	orderingapp "github.com/storefront/backend/internal/application/ordering"
	"github.com/storefront/backend/internal/domain/ordering"
	"github.com/storefront/backend/internal/domain/payment"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockGateway implements payment.Gateway for testing
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateCheckoutSession(ctx context.Context, input payment.CheckoutSessionInput) (*payment.CheckoutSession, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CheckoutSession), args.Error(1)
}

func (m *MockGateway) VerifyWebhook(payload []byte, signature string) (*payment.WebhookEvent, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.WebhookEvent), args.Error(1)
}

// MockOrderRepository implements ordering.OrderRepository for testing
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUserID(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[ordering.Order], error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[ordering.Order]), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func newPendingOrder(t *testing.T, userID uuid.UUID) *ordering.Order {
	t.Helper()
	order, err := ordering.NewOrder(userID, []ordering.NewOrderItemInput{
		{
			ProductID:   uuid.New(),
			ProductName: "Walnut Desk",
			Quantity:    1,
			UnitPrice:   decimal.RequireFromString("349.99"),
		},
	})
	require.NoError(t, err)
	order.ClearDomainEvents()
	return order
}

func newWebhookTestRouter(t *testing.T, gateway *MockGateway, orderRepo *MockOrderRepository, store shared.IdempotencyStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	txScope := orderingapp.NewNoOpTransactionScope(new(MockProductRepository), new(MockCartRepository), orderRepo)
	service := orderingapp.NewPaymentWebhookService(orderingapp.PaymentWebhookServiceConfig{
		Gateway:           gateway,
		TxScope:           txScope,
		IdempotencyStore:  store,
		IdempotencyConfig: shared.IdempotencyConfig{TTL: time.Hour, Enabled: store != nil},
		Logger:            zap.NewNop(),
	})
	h := NewPaymentWebhookHandler(service)

	router := gin.New()
	router.POST("/webhooks/payment", h.HandlePaymentWebhook)
	return router
}

func postWebhook(router *gin.Engine, payload, signature string) *http.Request {
	req, _ := http.NewRequest(http.MethodPost, "/webhooks/payment", bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	return req
}

func TestPaymentWebhookHandler_PaymentSucceeded(t *testing.T) {
	order := newPendingOrder(t, uuid.New())

	gateway := new(MockGateway)
	orderRepo := new(MockOrderRepository)

	event := &payment.WebhookEvent{
		EventID:    "evt_001",
		Type:       payment.WebhookEventPaymentSucceeded,
		SessionID:  "cs_test_001",
		OrderID:    order.ID,
		PaymentRef: "pi_001",
	}
	gateway.On("VerifyWebhook", mock.Anything, "sig_valid").Return(event, nil)
	orderRepo.On("FindByIDForUpdate", mock.Anything, order.ID).Return(order, nil)
	orderRepo.On("Save", mock.Anything, order).Return(nil)

	router := newWebhookTestRouter(t, gateway, orderRepo, nil)
	w := performRequest(router, postWebhook(router, `{"id":"evt_001"}`, "sig_valid"))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp PaymentWebhookResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Received)
	assert.Equal(t, "evt_001", resp.EventID)
	assert.True(t, order.IsPaid())
	orderRepo.AssertExpectations(t)
}

func TestPaymentWebhookHandler_InvalidSignature(t *testing.T) {
	gateway := new(MockGateway)
	gateway.On("VerifyWebhook", mock.Anything, "sig_bad").
		Return(nil, errors.New("signature mismatch"))

	router := newWebhookTestRouter(t, gateway, new(MockOrderRepository), nil)
	w := performRequest(router, postWebhook(router, `{}`, "sig_bad"))

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp PaymentWebhookResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Received)
}

func TestPaymentWebhookHandler_MissingSignature(t *testing.T) {
	router := newWebhookTestRouter(t, new(MockGateway), new(MockOrderRepository), nil)
	w := performRequest(router, postWebhook(router, `{}`, ""))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPaymentWebhookHandler_DuplicateEvent(t *testing.T) {
	order := newPendingOrder(t, uuid.New())

	gateway := new(MockGateway)
	orderRepo := new(MockOrderRepository)
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	event := &payment.WebhookEvent{
		EventID:    "evt_dup",
		Type:       payment.WebhookEventPaymentSucceeded,
		OrderID:    order.ID,
		PaymentRef: "pi_002",
	}
	gateway.On("VerifyWebhook", mock.Anything, "sig_valid").Return(event, nil)
	orderRepo.On("FindByIDForUpdate", mock.Anything, order.ID).Return(order, nil)
	orderRepo.On("Save", mock.Anything, order).Return(nil)

	router := newWebhookTestRouter(t, gateway, orderRepo, store)

	first := performRequest(router, postWebhook(router, `{"id":"evt_dup"}`, "sig_valid"))
	assert.Equal(t, http.StatusOK, first.Code)

	// Redelivery returns 200 without touching the order again.
	second := performRequest(router, postWebhook(router, `{"id":"evt_dup"}`, "sig_valid"))
	assert.Equal(t, http.StatusOK, second.Code)

	var resp PaymentWebhookResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.True(t, resp.Received)
	assert.Contains(t, resp.Message, "already processed")

	orderRepo.AssertNumberOfCalls(t, "Save", 1)
}

func TestPaymentWebhookHandler_ProcessingFailureTriggersRetry(t *testing.T) {
	order := newPendingOrder(t, uuid.New())

	gateway := new(MockGateway)
	orderRepo := new(MockOrderRepository)

	event := &payment.WebhookEvent{
		EventID:    "evt_003",
		Type:       payment.WebhookEventPaymentSucceeded,
		OrderID:    order.ID,
		PaymentRef: "pi_003",
	}
	gateway.On("VerifyWebhook", mock.Anything, "sig_valid").Return(event, nil)
	orderRepo.On("FindByIDForUpdate", mock.Anything, order.ID).Return(nil, shared.ErrStorage)

	router := newWebhookTestRouter(t, gateway, orderRepo, nil)
	w := performRequest(router, postWebhook(router, `{"id":"evt_003"}`, "sig_valid"))

	// Non-2xx so the gateway redelivers the event.
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestPaymentWebhookHandler_PayloadTooLarge(t *testing.T) {
	router := newWebhookTestRouter(t, new(MockGateway), new(MockOrderRepository), nil)

	payload := bytes.Repeat([]byte("a"), maxWebhookPayloadSize+1)
	req, _ := http.NewRequest(http.MethodPost, "/webhooks/payment", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", "sig_valid")
	w := performRequest(router, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
