package ordering

import (
	"context"
	"fmt"

	"github.com/storefront/backend/internal/domain/ordering"
	"github.com/storefront/backend/internal/domain/payment"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PaymentWebhookService handles payment gateway webhook events
type PaymentWebhookService struct {
	gateway        payment.Gateway
	txScope        TransactionScope
	idempotency    shared.IdempotencyStore
	idempotencyCfg shared.IdempotencyConfig
	eventBus       shared.EventPublisher
	logger         *zap.Logger
}

// PaymentWebhookServiceConfig contains configuration for PaymentWebhookService
type PaymentWebhookServiceConfig struct {
	Gateway           payment.Gateway
	TxScope           TransactionScope
	IdempotencyStore  shared.IdempotencyStore
	IdempotencyConfig shared.IdempotencyConfig
	EventBus          shared.EventPublisher
	Logger            *zap.Logger
}

// NewPaymentWebhookService creates a new PaymentWebhookService
func NewPaymentWebhookService(cfg PaymentWebhookServiceConfig) *PaymentWebhookService {
	return &PaymentWebhookService{
		gateway:        cfg.Gateway,
		txScope:        cfg.TxScope,
		idempotency:    cfg.IdempotencyStore,
		idempotencyCfg: cfg.IdempotencyConfig,
		eventBus:       cfg.EventBus,
		logger:         cfg.Logger,
	}
}

// WebhookResult contains the result of processing a webhook
type WebhookResult struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Processed bool   `json:"processed"`
	Duplicate bool   `json:"duplicate,omitempty"`
	Message   string `json:"message,omitempty"`
}

// ProcessWebhook verifies and processes a payment gateway notification.
// A nil result means the signature could not be verified and the caller
// must reject the request. Events are only marked processed after the
// handler succeeds, so a failed delivery can be retried by the gateway.
func (s *PaymentWebhookService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := s.gateway.VerifyWebhook(payload, signature)
	if err != nil {
		s.logger.Error("webhook signature verification failed", zap.Error(err))
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	s.logger.Info("processing payment webhook event",
		zap.String("event_id", event.EventID),
		zap.String("event_type", string(event.Type)))

	result := &WebhookResult{
		EventID:   event.EventID,
		EventType: string(event.Type),
	}

	if s.idempotency != nil && s.idempotencyCfg.Enabled {
		processed, err := s.idempotency.IsProcessed(ctx, event.EventID)
		if err != nil {
			return result, err
		}
		if processed {
			result.Duplicate = true
			result.Message = "Event already processed"
			return result, nil
		}
	}

	switch event.Type {
	case payment.WebhookEventPaymentSucceeded:
		err = s.handlePaymentSucceeded(ctx, event)
	case payment.WebhookEventPaymentFailed:
		s.logger.Warn("payment failed for order",
			zap.String("order_id", event.OrderID.String()),
			zap.String("session_id", event.SessionID))
	default:
		result.Message = "Event type not handled"
	}

	if err != nil {
		s.logger.Error("failed to process webhook event",
			zap.String("event_id", event.EventID),
			zap.Error(err))
		result.Message = err.Error()
		return result, err
	}

	if s.idempotency != nil && s.idempotencyCfg.Enabled {
		if _, err := s.idempotency.MarkProcessed(ctx, event.EventID, s.idempotencyCfg.TTL); err != nil {
			s.logger.Warn("failed to record processed event", zap.Error(err))
		}
	}

	result.Processed = true
	return result, nil
}

// handlePaymentSucceeded marks the referenced order as paid. MarkPaid is
// idempotent, so a redelivered event that slipped past the idempotency
// store is still harmless. The row lock serializes the transition
// against a cancellation racing the same order.
func (s *PaymentWebhookService) handlePaymentSucceeded(ctx context.Context, event *payment.WebhookEvent) error {
	var order *ordering.Order

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.OrderRepo().FindByIDForUpdate(ctx, event.OrderID)
		if err != nil {
			return fmt.Errorf("order %s not found for payment event: %w", event.OrderID, err)
		}

		if err := found.MarkPaid(event.PaymentRef); err != nil {
			return err
		}

		order = found
		return repos.OrderRepo().Save(ctx, found)
	})
	if err != nil {
		return err
	}

	if s.eventBus != nil {
		for _, e := range order.GetDomainEvents() {
			_ = s.eventBus.Publish(ctx, e)
		}
		order.ClearDomainEvents()
	}

	s.logger.Info("order marked paid",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_ref", event.PaymentRef))

	return nil
}
