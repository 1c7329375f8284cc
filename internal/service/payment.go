package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"planhub/internal/billing"
	"planhub/internal/mail"
	"planhub/internal/model"
	"planhub/internal/repository"
	"planhub/pkg/util"
)

// PaymentService drives hosted checkout, payment confirmation and the
// webhook side effects
type PaymentService struct {
	plans       repository.IPlanRepository
	checkouts   repository.IBillingRepository
	userService *UserService
	gateway     billing.Client
	mailer      mail.Mailer
	frontendURL string
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	plans repository.IPlanRepository,
	checkouts repository.IBillingRepository,
	userService *UserService,
	gateway billing.Client,
	mailer mail.Mailer,
	frontendURL string,
) *PaymentService {
	return &PaymentService{
		plans:       plans,
		checkouts:   checkouts,
		userService: userService,
		gateway:     gateway,
		mailer:      mailer,
		frontendURL: frontendURL,
	}
}

// StartCheckout opens a hosted checkout session for the plan and
// records the session-to-purchaser binding server side. The success
// redirect carries only the session id; Stripe substitutes the
// placeholder on redirect.
func (s *PaymentService) StartCheckout(ctx context.Context, userID, planID, email string) (string, error) {
	uid, err := util.ParseObjectID(userID)
	if err != nil {
		return "", fmt.Errorf("%w: user id", ErrValidation)
	}
	pid, err := util.ParseObjectID(planID)
	if err != nil {
		return "", fmt.Errorf("%w: plan id", ErrValidation)
	}

	plan, err := s.plans.FindByID(ctx, pid)
	if err != nil {
		return "", fmt.Errorf("failed to look up plan: %w", err)
	}
	if plan == nil {
		return "", fmt.Errorf("%w: plan", ErrNotFound)
	}

	sess, err := s.gateway.CreateCheckoutSession(ctx, billing.CheckoutParams{
		PriceID:       plan.StripePriceID,
		Quantity:      int64(plan.UserLimit),
		CustomerEmail: email,
		SuccessURL:    s.frontendURL + "/payment/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     s.frontendURL + "/payment/failure",
	})
	if err != nil {
		return "", err
	}

	_, err = s.checkouts.CreateCheckout(ctx, &model.CheckoutRecord{
		SessionID: sess.ID,
		UserID:    uid,
		PlanID:    pid,
	})
	if err != nil {
		return "", fmt.Errorf("failed to record checkout session: %w", err)
	}

	return sess.URL, nil
}

// ConfirmPayment finalizes enrollment after the purchaser returns from
// checkout. The session is retrieved from Stripe and must be paid; the
// plan and purchaser come from the server-side record, never from the
// caller.
func (s *PaymentService) ConfirmPayment(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("%w: session id is required", ErrValidation)
	}

	rec, err := s.checkouts.FindCheckoutBySessionID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to look up checkout session: %w", err)
	}
	if rec == nil {
		return fmt.Errorf("%w: checkout session", ErrNotFound)
	}
	if rec.Status == model.CheckoutCompleted {
		// Replayed confirmation of an already-applied session.
		return nil
	}

	sess, err := s.gateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.PaymentStatus != billing.Paid {
		return ErrPaymentIncomplete
	}

	if err := s.userService.UpdatePlan(ctx, rec.UserID.Hex(), rec.PlanID.Hex()); err != nil {
		return err
	}

	if err := s.checkouts.MarkCheckoutCompleted(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to mark checkout completed: %w", err)
	}
	return nil
}

// HandleCheckoutCompleted processes a verified checkout.session.completed
// event: dedupe by event id, resolve the session back to the recorded
// plan, send the confirmation email. A replayed event is acknowledged
// without side effects.
func (s *PaymentService) HandleCheckoutCompleted(ctx context.Context, eventID, sessionID, customerEmail string) error {
	fresh, err := s.checkouts.RecordEvent(ctx, eventID, "checkout.session.completed")
	if err != nil {
		return fmt.Errorf("failed to record webhook event: %w", err)
	}
	if !fresh {
		log.Info().Str("eventId", eventID).Msg("duplicate webhook event, skipping")
		return nil
	}

	rec, err := s.checkouts.FindCheckoutBySessionID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to look up checkout session: %w", err)
	}
	if rec == nil {
		log.Warn().Str("sessionId", sessionID).Msg("completed session has no checkout record")
		return nil
	}

	plan, err := s.plans.FindByID(ctx, rec.PlanID)
	if err != nil {
		return fmt.Errorf("failed to look up plan: %w", err)
	}
	if plan == nil {
		log.Warn().Str("planId", rec.PlanID.Hex()).Msg("completed session references missing plan")
		return nil
	}

	if customerEmail == "" {
		log.Warn().Str("sessionId", sessionID).Msg("completed session has no customer email")
		return nil
	}

	if err := s.mailer.Send(customerEmail, "Payment Confirmation", confirmationBody(plan)); err != nil {
		// Release the marker so the redelivery retries the mail instead
		// of being suppressed as a duplicate.
		if delErr := s.checkouts.DeleteEvent(ctx, eventID); delErr != nil {
			log.Error().Err(delErr).Str("eventId", eventID).Msg("failed to release webhook event marker")
		}
		return err
	}
	return nil
}

func confirmationBody(plan *model.Plan) string {
	return fmt.Sprintf(`<h1>Payment Successful</h1>
<p>Dear Customer,</p>
<p>Thank you for subscribing to the %s plan.</p>
<ul>
  <li>Plan: %s</li>
  <li>Price: INR %d per user</li>
  <li>User Count: %d</li>
</ul>
<p>We appreciate your business!</p>`, plan.Name, plan.Name, plan.Price, plan.UserLimit)
}
