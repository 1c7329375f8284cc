package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"planhub/internal/billing"
	"planhub/internal/model"
	"planhub/internal/repository"
	"planhub/pkg/util"
)

// PlanService handles the plan catalog and its Stripe mirror
type PlanService struct {
	plans   repository.IPlanRepository
	users   repository.IUserRepository
	gateway billing.Client
}

// NewPlanService creates a new plan service
func NewPlanService(plans repository.IPlanRepository, users repository.IUserRepository, gateway billing.Client) *PlanService {
	return &PlanService{plans: plans, users: users, gateway: gateway}
}

// Create mirrors the plan into the Stripe catalog (product, then a
// yearly recurring price) before persisting the local record. A Stripe
// failure fails the whole call; nothing is persisted.
func (s *PlanService) Create(ctx context.Context, req *model.CreatePlanRequest) (*model.Plan, error) {
	if req.Name == "" || req.Price <= 0 || req.UserLimit <= 0 {
		return nil, fmt.Errorf("%w: name, price and userLimit are required", ErrValidation)
	}
	daysValidity := req.DaysValidity
	if daysValidity <= 0 {
		daysValidity = 14
	}

	productID, err := s.gateway.CreateProduct(ctx, req.Name, req.Description)
	if err != nil {
		return nil, err
	}

	priceID, err := s.gateway.CreatePrice(ctx, productID, req.Price*100)
	if err != nil {
		// Best-effort cleanup of the just-created product.
		if archiveErr := s.gateway.ArchiveProduct(ctx, productID); archiveErr != nil {
			log.Error().Err(archiveErr).Str("productId", productID).Msg("failed to archive orphaned product")
		}
		return nil, err
	}

	plan := &model.Plan{
		Name:            req.Name,
		Price:           req.Price,
		UserLimit:       req.UserLimit,
		Description:     req.Description,
		DaysValidity:    daysValidity,
		StripeProductID: productID,
		StripePriceID:   priceID,
	}
	created, err := s.plans.Create(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}
	return created, nil
}

// List returns every plan with its enrollment count.
func (s *PlanService) List(ctx context.Context) ([]*model.PlanWithEnrollment, error) {
	return s.plans.ListWithEnrollment(ctx)
}

// Get returns a plan by id.
func (s *PlanService) Get(ctx context.Context, id string) (*model.Plan, error) {
	planID, err := util.ParseObjectID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: plan id", ErrValidation)
	}
	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up plan: %w", err)
	}
	if plan == nil {
		return nil, fmt.Errorf("%w: plan", ErrNotFound)
	}
	return plan, nil
}

// Update applies partial changes and mirrors them to Stripe. All
// external calls happen before the local write, so a Stripe failure
// leaves the stored record untouched. A price change mints a new price
// and deactivates the old one.
func (s *PlanService) Update(ctx context.Context, id string, req *model.UpdatePlanFieldsRequest) (*model.Plan, error) {
	plan, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	nameChanged := req.Name != "" && req.Name != plan.Name
	descChanged := req.Description != "" && req.Description != plan.Description
	priceChanged := req.Price > 0 && req.Price != plan.Price

	newPriceID := ""
	if priceChanged {
		newPriceID, err = s.gateway.CreatePrice(ctx, plan.StripeProductID, req.Price*100)
		if err != nil {
			return nil, err
		}
		if err := s.gateway.DeactivatePrice(ctx, plan.StripePriceID); err != nil {
			return nil, err
		}
	}

	if nameChanged || descChanged {
		name := plan.Name
		if nameChanged {
			name = req.Name
		}
		description := plan.Description
		if descChanged {
			description = req.Description
		}
		if err := s.gateway.UpdateProduct(ctx, plan.StripeProductID, name, description); err != nil {
			return nil, err
		}
	}

	if nameChanged {
		plan.Name = req.Name
	}
	if descChanged {
		plan.Description = req.Description
	}
	if priceChanged {
		plan.Price = req.Price
		plan.StripePriceID = newPriceID
	}

	if err := s.plans.Replace(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}
	return plan, nil
}

// Delete removes a plan. Blocked while any account references it; the
// Stripe product archive must succeed before the local delete happens.
func (s *PlanService) Delete(ctx context.Context, id string) error {
	plan, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	enrolled, err := s.users.CountByPlan(ctx, plan.ID)
	if err != nil {
		return fmt.Errorf("failed to count enrollment: %w", err)
	}
	if enrolled > 0 {
		return ErrPlanInUse
	}

	if err := s.gateway.ArchiveProduct(ctx, plan.StripeProductID); err != nil {
		return err
	}

	if err := s.plans.Delete(ctx, plan.ID); err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	return nil
}
