package service

import "errors"

// Sentinel errors for the flat failure taxonomy. Handlers map these to
// HTTP statuses with errors.Is; everything else is a server error.
var (
	ErrNotFound           = errors.New("not found")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrSeatLimitExceeded  = errors.New("user limit exceeded")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPlanInUse          = errors.New("users are enrolled in this plan")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPaymentIncomplete  = errors.New("payment not completed")
	ErrValidation         = errors.New("invalid input")
)
