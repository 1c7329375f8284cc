package model

// RegisterRequest is the registration payload. PlanID is required for
// org-admin registrations and ignored for platform owners.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	PlanID   string `json:"planId"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AddMemberRequest carries the profile of a member being added to the
// acting org-admin's roster.
type AddMemberRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdatePlanRequest switches a user's plan enrollment.
type UpdatePlanRequest struct {
	UserID    string `json:"userId"`
	NewPlanID string `json:"newPlanId"`
}

// CreatePlanRequest is the plan creation payload.
type CreatePlanRequest struct {
	Name         string `json:"name"`
	Price        int64  `json:"price"`
	UserLimit    int    `json:"userLimit"`
	Description  string `json:"description"`
	DaysValidity int    `json:"daysValidity"`
}

// UpdatePlanFieldsRequest carries partial plan updates. Zero values
// leave the corresponding field untouched.
type UpdatePlanFieldsRequest struct {
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
}

// CheckoutRequest opens a hosted checkout session for a plan.
type CheckoutRequest struct {
	PlanID string `json:"planId"`
	Email  string `json:"email"`
}

// ConfirmPaymentRequest finalizes enrollment after checkout. Only the
// session id is trusted; purchaser and plan come from the server-side
// checkout record.
type ConfirmPaymentRequest struct {
	SessionID string `json:"sessionId"`
}
