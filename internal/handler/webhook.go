package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"planhub/internal/model"
	"planhub/internal/service"
)

// WebhookHandler receives Stripe webhook deliveries
type WebhookHandler struct {
	paymentService *service.PaymentService
	webhookSecret  string
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(paymentService *service.PaymentService, webhookSecret string) *WebhookHandler {
	return &WebhookHandler{paymentService: paymentService, webhookSecret: webhookSecret}
}

// HandleStripe handles POST /webhooks/stripe-webhook. The signature is
// verified over the raw body before anything is parsed.
func (h *WebhookHandler) HandleStripe(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Failed to read request body", err.Error()))
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), h.webhookSecret)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Webhook signature verification failed", err.Error()))
		return
	}

	if event.Type == stripe.EventTypeCheckoutSessionCompleted {
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			c.JSON(http.StatusBadRequest, model.NewErrorResponse("Malformed event payload", err.Error()))
			return
		}

		email := sess.CustomerEmail
		if email == "" && sess.CustomerDetails != nil {
			email = sess.CustomerDetails.Email
		}

		if err := h.paymentService.HandleCheckoutCompleted(c.Request.Context(), event.ID, sess.ID, email); err != nil {
			log.Error().Err(err).Str("eventId", event.ID).Msg("failed to process checkout completion")
			c.JSON(http.StatusInternalServerError, model.NewErrorResponse("Failed to process event", ""))
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
