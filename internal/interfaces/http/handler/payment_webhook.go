package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	orderingapp "github.com/storefront/backend/internal/application/ordering"
)

// Maximum webhook payload size (64KB - gateway events are small)
const maxWebhookPayloadSize = 65536

// PaymentWebhookHandler handles payment gateway notifications. These
// endpoints are called by the gateway and authenticate via the
// signature header instead of a bearer token.
type PaymentWebhookHandler struct {
	BaseHandler
	webhookService *orderingapp.PaymentWebhookService
}

// NewPaymentWebhookHandler creates a new PaymentWebhookHandler
func NewPaymentWebhookHandler(webhookService *orderingapp.PaymentWebhookService) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{
		webhookService: webhookService,
	}
}

// PaymentWebhookResponse represents the response for a gateway webhook
type PaymentWebhookResponse struct {
	Received  bool   `json:"received" example:"true"`
	EventID   string `json:"event_id,omitempty" example:"evt_1234567890"`
	EventType string `json:"event_type,omitempty" example:"checkout.session.completed"`
	Message   string `json:"message,omitempty" example:"Webhook processed successfully"`
}

// HandlePaymentWebhook godoc
// @ID           handlePaymentWebhook
// @Summary      Handle a payment gateway webhook
// @Description  Verifies the event signature and applies payment results
// @Description  to the referenced order
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        Stripe-Signature header string true "Webhook signature"
// @Success      200 {object} PaymentWebhookResponse "Webhook processed"
// @Failure      400 {object} PaymentWebhookResponse "Invalid request"
// @Failure      401 {object} PaymentWebhookResponse "Invalid signature"
// @Failure      413 {object} PaymentWebhookResponse "Payload too large"
// @Failure      500 {object} PaymentWebhookResponse "Processing failed"
// @Router       /webhooks/payment [post]
func (h *PaymentWebhookHandler) HandlePaymentWebhook(c *gin.Context) {
	// The raw body is required for signature verification, so read it
	// with a hard size limit instead of binding.
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookPayloadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, PaymentWebhookResponse{
			Received: false,
			Message:  "Failed to read request body",
		})
		return
	}

	if len(payload) > maxWebhookPayloadSize {
		c.JSON(http.StatusRequestEntityTooLarge, PaymentWebhookResponse{
			Received: false,
			Message:  "Payload too large",
		})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		c.JSON(http.StatusUnauthorized, PaymentWebhookResponse{
			Received: false,
			Message:  "Missing Stripe-Signature header",
		})
		return
	}

	result, err := h.webhookService.ProcessWebhook(c.Request.Context(), payload, signature)
	if err != nil {
		// A nil result means the signature did not verify.
		if result == nil {
			c.JSON(http.StatusUnauthorized, PaymentWebhookResponse{
				Received: false,
				Message:  "Invalid signature",
			})
			return
		}
		// Verified but failed to apply. Non-2xx tells the gateway to
		// redeliver the event later.
		c.JSON(http.StatusInternalServerError, PaymentWebhookResponse{
			Received:  false,
			EventID:   result.EventID,
			EventType: result.EventType,
			Message:   result.Message,
		})
		return
	}

	message := result.Message
	if message == "" {
		message = "Webhook processed successfully"
	}
	c.JSON(http.StatusOK, PaymentWebhookResponse{
		Received:  true,
		EventID:   result.EventID,
		EventType: result.EventType,
		Message:   message,
	})
}
