package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account roles. Admin is the platform owner; everyone else is a User,
// with SubscriptionAdmin distinguishing org admins from their members.
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

type User struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name              string               `bson:"name" json:"name"`
	Email             string               `bson:"email" json:"email"`
	Password          string               `bson:"password" json:"-"`
	Role              string               `bson:"role" json:"role"`
	Plan              primitive.ObjectID   `bson:"plan,omitempty" json:"plan,omitempty"`
	Members           []primitive.ObjectID `bson:"members" json:"members"`
	ValidUntil        time.Time            `bson:"valid,omitempty" json:"valid,omitempty"`
	SubscriptionAdmin bool                 `bson:"subscriptionAdmin" json:"subscriptionAdmin"`
	ReferenceUserID   primitive.ObjectID   `bson:"referenceUserId,omitempty" json:"referenceUserId,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsOrgAdmin reports whether the account may own a roster.
func (u *User) IsOrgAdmin() bool {
	return u.SubscriptionAdmin && u.Role == RoleUser
}

// UserResponse is the wire representation of an account (password omitted).
type UserResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Role              string    `json:"role"`
	Plan              string    `json:"plan,omitempty"`
	Members           []string  `json:"members"`
	ValidUntil        time.Time `json:"valid,omitempty"`
	SubscriptionAdmin bool      `json:"subscriptionAdmin"`
}

// ToResponse converts a User to its wire representation.
func (u *User) ToResponse() UserResponse {
	members := make([]string, len(u.Members))
	for i, m := range u.Members {
		members[i] = m.Hex()
	}
	planID := ""
	if !u.Plan.IsZero() {
		planID = u.Plan.Hex()
	}
	return UserResponse{
		ID:                u.ID.Hex(),
		Name:              u.Name,
		Email:             u.Email,
		Role:              u.Role,
		Plan:              planID,
		Members:           members,
		ValidUntil:        u.ValidUntil,
		SubscriptionAdmin: u.SubscriptionAdmin,
	}
}

// OrganizationSummary is one row of the platform owner's organizations view.
// An "organization" is an org-admin account together with its roster.
type OrganizationSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Plan          string `json:"plan"`
	Users         int    `json:"users"`
	LastBilling   string `json:"lastBilling"`
	Status        string `json:"status"`
	BillingStatus string `json:"billingStatus"`
}
