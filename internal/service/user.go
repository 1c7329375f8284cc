package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"planhub/internal/model"
	"planhub/internal/repository"
	"planhub/pkg/util"
)

// Billing status buckets for the organizations view.
const (
	billingPaid     = "Paid"
	billingUpcoming = "Upcoming"
	billingOverdue  = "Overdue"

	statusActive   = "Active"
	statusInactive = "Inactive"
)

// UserService handles account and roster business logic
type UserService struct {
	users repository.IUserRepository
	plans repository.IPlanRepository
}

// NewUserService creates a new user service
func NewUserService(users repository.IUserRepository, plans repository.IPlanRepository) *UserService {
	return &UserService{users: users, plans: plans}
}

// AddMember creates a member account under the acting org-admin and
// appends it to the roster. Preconditions are checked up front in the
// order the API promises (not-found before permission before limit);
// the repository transaction re-checks the limit at commit time.
func (s *UserService) AddMember(ctx context.Context, actingID string, req *model.AddMemberRequest) (*model.User, error) {
	adminID, err := util.ParseObjectID(actingID)
	if err != nil {
		return nil, fmt.Errorf("%w: user id", ErrValidation)
	}

	admin, err := s.users.FindByID(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}
	if admin == nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	if !admin.IsOrgAdmin() {
		return nil, fmt.Errorf("%w: only subscription admins can create users", ErrPermissionDenied)
	}

	if admin.Plan.IsZero() {
		return nil, fmt.Errorf("%w: plan", ErrNotFound)
	}
	plan, err := s.plans.FindByID(ctx, admin.Plan)
	if err != nil {
		return nil, fmt.Errorf("failed to look up plan: %w", err)
	}
	if plan == nil {
		return nil, fmt.Errorf("%w: plan", ErrNotFound)
	}

	if len(admin.Members) >= plan.UserLimit {
		return nil, ErrSeatLimitExceeded
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	member := &model.User{
		Name:              strings.TrimSpace(req.Name),
		Email:             email,
		Password:          hash,
		Role:              model.RoleUser,
		SubscriptionAdmin: false,
		Plan:              admin.Plan,
		ValidUntil:        admin.ValidUntil,
		ReferenceUserID:   admin.ID,
		Members:           []primitive.ObjectID{},
	}

	created, err := s.users.AddMember(ctx, admin.ID, plan.UserLimit, member)
	if err != nil {
		if errors.Is(err, repository.ErrSeatsExhausted) {
			return nil, ErrSeatLimitExceeded
		}
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	return created, nil
}

// UpdatePlan switches an account to a new plan. When the account is an
// org-admin, the new plan reference cascades to every roster member.
func (s *UserService) UpdatePlan(ctx context.Context, userID, newPlanID string) error {
	uid, err := util.ParseObjectID(userID)
	if err != nil {
		return fmt.Errorf("%w: user id", ErrValidation)
	}
	pid, err := util.ParseObjectID(newPlanID)
	if err != nil {
		return fmt.Errorf("%w: plan id", ErrValidation)
	}

	user, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("%w: user", ErrNotFound)
	}

	plan, err := s.plans.FindByID(ctx, pid)
	if err != nil {
		return fmt.Errorf("failed to look up plan: %w", err)
	}
	if plan == nil {
		return fmt.Errorf("%w: plan", ErrNotFound)
	}

	validUntil := time.Now().Add(time.Duration(plan.DaysValidity) * 24 * time.Hour)
	if err := s.users.UpdatePlan(ctx, user.ID, plan.ID, validUntil); err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}

	if user.SubscriptionAdmin && len(user.Members) > 0 {
		if err := s.users.UpdatePlanMany(ctx, user.Members, plan.ID, validUntil); err != nil {
			return fmt.Errorf("failed to cascade plan to members: %w", err)
		}
	}
	return nil
}

// ListMembers returns the acting org-admin's roster.
func (s *UserService) ListMembers(ctx context.Context, actingID string) ([]*model.User, error) {
	adminID, err := util.ParseObjectID(actingID)
	if err != nil {
		return nil, fmt.Errorf("%w: user id", ErrValidation)
	}

	admin, err := s.users.FindByID(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if admin == nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	if len(admin.Members) == 0 {
		return []*model.User{}, nil
	}
	return s.users.FindByIDs(ctx, admin.Members)
}

// ListOrganizations builds the platform owner's organizations view:
// one row per org-admin with plan name, seat usage and billing status.
func (s *UserService) ListOrganizations(ctx context.Context) ([]*model.OrganizationSummary, error) {
	admins, err := s.users.FindOrgAdmins(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}

	now := time.Now()
	summaries := make([]*model.OrganizationSummary, 0, len(admins))
	for _, admin := range admins {
		planName := "No Plan"
		if !admin.Plan.IsZero() {
			plan, err := s.plans.FindByID(ctx, admin.Plan)
			if err != nil {
				return nil, fmt.Errorf("failed to look up plan: %w", err)
			}
			if plan != nil {
				planName = plan.Name
			}
		}

		status := statusInactive
		if admin.ValidUntil.After(now) {
			status = statusActive
		}

		lastBilling := "N/A"
		if !admin.ValidUntil.IsZero() {
			lastBilling = admin.ValidUntil.Format("2006-01-02")
		}

		summaries = append(summaries, &model.OrganizationSummary{
			ID:            admin.ID.Hex(),
			Name:          admin.Name,
			Plan:          planName,
			Users:         len(admin.Members),
			LastBilling:   lastBilling,
			Status:        status,
			BillingStatus: billingStatus(admin.ValidUntil, now),
		})
	}
	return summaries, nil
}

func billingStatus(validUntil time.Time, now time.Time) string {
	if validUntil.IsZero() {
		return billingPaid
	}
	remaining := validUntil.Sub(now)
	switch {
	case remaining <= 0:
		return billingOverdue
	case remaining <= 7*24*time.Hour:
		return billingUpcoming
	default:
		return billingPaid
	}
}
