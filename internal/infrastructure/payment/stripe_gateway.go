package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/webhook"
	"github.com/storefront/backend/internal/domain/payment"
	"go.uber.org/zap"
)

// StripeGateway implements the payment gateway port on Stripe Checkout
type StripeGateway struct {
	config *StripeConfig
	logger *zap.Logger
}

// NewStripeGateway creates a new Stripe gateway
func NewStripeGateway(config *StripeConfig, logger *zap.Logger) (*StripeGateway, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.InitStripeClient()

	return &StripeGateway{
		config: config,
		logger: logger,
	}, nil
}

// CreateCheckoutSession creates a hosted Stripe Checkout session for an
// order. The order ID travels as the session's client reference so the
// webhook can route the payment back to the order.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, input payment.CheckoutSessionInput) (*payment.CheckoutSession, error) {
	g.logger.Debug("creating stripe checkout session",
		zap.String("order_id", input.OrderID.String()),
		zap.Int("line_items", len(input.LineItems)))

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(input.LineItems))
	for _, item := range input.LineItems {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(g.config.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
				UnitAmount: stripe.Int64(item.UnitPrice.Cents()),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(input.OrderID.String()),
		LineItems:         lineItems,
		SuccessURL:        stripe.String(input.SuccessURL),
		CancelURL:         stripe.String(input.CancelURL),
	}
	if input.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(input.CustomerEmail)
	}
	params.Metadata = map[string]string{
		"order_id": input.OrderID.String(),
	}

	sess, err := session.New(params)
	if err != nil {
		g.logger.Error("failed to create stripe checkout session",
			zap.String("order_id", input.OrderID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to create checkout session: %w", err)
	}

	g.logger.Info("created stripe checkout session",
		zap.String("order_id", input.OrderID.String()),
		zap.String("session_id", sess.ID))

	return &payment.CheckoutSession{
		SessionID:   sess.ID,
		RedirectURL: sess.URL,
	}, nil
}

// VerifyWebhook checks the Stripe-Signature header against the webhook
// secret and decodes the event. An unverifiable payload returns an error.
func (g *StripeGateway) VerifyWebhook(payload []byte, signature string) (*payment.WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.config.WebhookSecret)
	if err != nil {
		return nil, fmt.Errorf("stripe: webhook verification failed: %w", err)
	}

	result := &payment.WebhookEvent{
		EventID: event.ID,
		Type:    payment.WebhookEventIgnored,
	}

	switch event.Type {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		sess, err := parseSession(event.Data.Raw)
		if err != nil {
			return nil, err
		}
		orderID, err := orderIDFromSession(sess)
		if err != nil {
			return nil, err
		}
		result.Type = payment.WebhookEventPaymentSucceeded
		result.SessionID = sess.ID
		result.OrderID = orderID
		result.PaymentRef = paymentRef(sess)

	case "checkout.session.expired", "checkout.session.async_payment_failed":
		sess, err := parseSession(event.Data.Raw)
		if err != nil {
			return nil, err
		}
		orderID, err := orderIDFromSession(sess)
		if err != nil {
			return nil, err
		}
		result.Type = payment.WebhookEventPaymentFailed
		result.SessionID = sess.ID
		result.OrderID = orderID
	}

	return result, nil
}

func parseSession(raw json.RawMessage) (*stripe.CheckoutSession, error) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("stripe: failed to unmarshal checkout session: %w", err)
	}
	return &sess, nil
}

func orderIDFromSession(sess *stripe.CheckoutSession) (uuid.UUID, error) {
	ref := sess.ClientReferenceID
	if ref == "" {
		ref = sess.Metadata["order_id"]
	}
	orderID, err := uuid.Parse(ref)
	if err != nil {
		return uuid.Nil, fmt.Errorf("stripe: session %s has no valid order reference: %w", sess.ID, err)
	}
	return orderID, nil
}

// paymentRef prefers the payment intent ID; the session ID is the fallback
func paymentRef(sess *stripe.CheckoutSession) string {
	if sess.PaymentIntent != nil && sess.PaymentIntent.ID != "" {
		return sess.PaymentIntent.ID
	}
	return sess.ID
}

var _ payment.Gateway = (*StripeGateway)(nil)
