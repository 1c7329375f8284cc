package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Plan is a subscription tier. Price is in whole currency units;
// the Stripe mirror converts to minor units. StripeProductID and
// StripePriceID correlate the local record with the Stripe catalog.
type Plan struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Price           int64              `bson:"price" json:"price"`
	UserLimit       int                `bson:"userLimit" json:"userLimit"`
	Description     string             `bson:"description" json:"description"`
	DaysValidity    int                `bson:"daysValidity" json:"daysValidity"`
	StripeProductID string             `bson:"stripeProductId" json:"stripeProductId"`
	StripePriceID   string             `bson:"stripePriceId" json:"stripePriceId"`
}

// PlanWithEnrollment is a Plan plus the number of accounts currently
// referencing it. Computed per read, never stored.
type PlanWithEnrollment struct {
	Plan          `bson:",inline"`
	TotalEnrolled int `bson:"totalEnrolled" json:"totalEnrolled"`
}
