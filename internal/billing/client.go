package billing

import (
	"context"
)

// CheckoutParams describes a hosted checkout session to open: one line
// item priced at PriceID with Quantity seats, in subscription mode.
type CheckoutParams struct {
	PriceID       string
	Quantity      int64
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
}

// CheckoutSession is the subset of a hosted session the service needs.
type CheckoutSession struct {
	ID            string
	URL           string
	PaymentStatus string
	CustomerEmail string
}

// Paid is the payment status of a settled checkout session.
const Paid = "paid"

// Client is the payment processor surface used by the services. The
// Stripe implementation lives in stripe.go; tests substitute fakes.
type Client interface {
	CreateProduct(ctx context.Context, name, description string) (string, error)
	UpdateProduct(ctx context.Context, productID, name, description string) error
	ArchiveProduct(ctx context.Context, productID string) error
	CreatePrice(ctx context.Context, productID string, amountMinor int64) (string, error)
	DeactivatePrice(ctx context.Context, priceID string) error
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
}
