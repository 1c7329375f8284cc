package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"planhub/internal/model"
	"planhub/internal/service"
)

// respondError maps the service error taxonomy to HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrPermissionDenied):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrPaymentIncomplete):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrSeatLimitExceeded),
		errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrPlanInUse):
		status = http.StatusConflict
	}
	c.JSON(status, model.NewErrorResponse(err.Error(), ""))
}
