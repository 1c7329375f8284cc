package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Checkout record statuses.
const (
	CheckoutPending   = "pending"
	CheckoutCompleted = "completed"
)

// CheckoutRecord binds a Stripe checkout session to the purchaser and
// plan it was opened for. The post-payment step applies this record,
// never identifiers supplied by the client.
type CheckoutRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID string             `bson:"sessionId" json:"sessionId"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	PlanID    primitive.ObjectID `bson:"planId" json:"planId"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WebhookEvent marks a Stripe event as processed. Stripe delivers
// at least once; replays of a recorded event are acknowledged without
// side effects.
type WebhookEvent struct {
	ID         string    `bson:"_id" json:"id"`
	Type       string    `bson:"type" json:"type"`
	ReceivedAt time.Time `bson:"receivedAt" json:"receivedAt"`
}
