package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// CheckoutLineItem describes one order line for the payment page
type CheckoutLineItem struct {
	Name      string
	Quantity  int64
	UnitPrice valueobject.Money
}

// CheckoutSessionInput carries what the gateway needs to create a hosted
// payment session for an order
type CheckoutSessionInput struct {
	OrderID       uuid.UUID
	CustomerEmail string
	LineItems     []CheckoutLineItem
	SuccessURL    string
	CancelURL     string
}

// CheckoutSession is the gateway's handle for a created payment session
type CheckoutSession struct {
	SessionID   string
	RedirectURL string
}

// WebhookEventType classifies verified gateway notifications
type WebhookEventType string

const (
	WebhookEventPaymentSucceeded WebhookEventType = "payment.succeeded"
	WebhookEventPaymentFailed    WebhookEventType = "payment.failed"
	WebhookEventIgnored          WebhookEventType = "ignored"
)

// WebhookEvent is a gateway notification whose signature has been verified
type WebhookEvent struct {
	EventID    string
	Type       WebhookEventType
	SessionID  string
	OrderID    uuid.UUID // parsed from the session's client reference
	PaymentRef string
}

// Gateway abstracts the payment provider. Implementations must verify
// webhook signatures; an unverifiable payload is rejected, never processed.
type Gateway interface {
	// CreateCheckoutSession creates a hosted payment session and returns
	// the URL the customer is redirected to
	CreateCheckoutSession(ctx context.Context, input CheckoutSessionInput) (*CheckoutSession, error)

	// VerifyWebhook checks the payload signature and decodes the event.
	// A signature failure returns an error and a nil event.
	VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error)
}
