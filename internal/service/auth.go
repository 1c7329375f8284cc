package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"planhub/internal/auth"
	"planhub/internal/model"
	"planhub/internal/repository"
	"planhub/pkg/util"
)

// AuthService handles registration and login
type AuthService struct {
	users  repository.IUserRepository
	plans  repository.IPlanRepository
	tokens *auth.TokenIssuer
}

// NewAuthService creates a new auth service
func NewAuthService(users repository.IUserRepository, plans repository.IPlanRepository, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{users: users, plans: plans, tokens: tokens}
}

// Register creates an account. Platform owners (role Admin) carry no
// plan; org-admin registrations require an existing plan, from which
// the validity timestamp is derived.
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
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

	user := &model.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: hash,
		Members:  []primitive.ObjectID{},
	}

	if req.Role == model.RoleAdmin {
		user.Role = model.RoleAdmin
	} else {
		planID, err := util.ParseObjectID(req.PlanID)
		if err != nil {
			return nil, fmt.Errorf("%w: planId", ErrValidation)
		}
		plan, err := s.plans.FindByID(ctx, planID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up plan: %w", err)
		}
		if plan == nil {
			return nil, fmt.Errorf("%w: plan", ErrNotFound)
		}
		user.Role = model.RoleUser
		user.SubscriptionAdmin = true
		user.Plan = plan.ID
		user.ValidUntil = time.Now().Add(time.Duration(plan.DaysValidity) * 24 * time.Hour)
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

// Login verifies credentials and mints a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up email: %w", err)
	}
	if user == nil {
		return "", nil, fmt.Errorf("%w: user", ErrNotFound)
	}

	if !util.VerifyPassword(password, user.Password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Sign(user.ID.Hex(), user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
