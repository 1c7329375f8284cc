package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"planhub/internal/middleware"
	"planhub/internal/model"
	"planhub/internal/service"
)

// PaymentHandler handles checkout HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// StartCheckout handles POST /api/payments
func (h *PaymentHandler) StartCheckout(c *gin.Context) {
	var req model.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error(), ""))
		return
	}

	userID := c.GetString(middleware.ContextUserID)
	url, err := h.paymentService.StartCheckout(c.Request.Context(), userID, req.PlanID, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// ConfirmPayment handles POST /api/payments/confirm. Only the session
// id is read from the request; plan and purchaser are resolved from the
// server-side checkout record after the session is verified as paid.
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	var req model.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error(), ""))
		return
	}

	if err := h.paymentService.ConfirmPayment(c.Request.Context(), req.SessionID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse("Plan updated successfully.", nil))
}
