package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planhub/internal/model"
)

const testFrontendURL = "https://app.example.com"

func newPaymentServiceFixture() (*PaymentService, *fakeUserRepo, *fakePlanRepo, *fakeBillingRepo, *fakeGateway, *fakeMailer) {
	users := newFakeUserRepo()
	plans := newFakePlanRepo(users)
	checkouts := newFakeBillingRepo()
	gateway := newFakeGateway()
	mailer := &fakeMailer{}
	userService := NewUserService(users, plans)
	svc := NewPaymentService(plans, checkouts, userService, gateway, mailer, testFrontendURL)
	return svc, users, plans, checkouts, gateway, mailer
}

func seedPurchaser(users *fakeUserRepo, plans *fakePlanRepo) (*model.User, *model.Plan) {
	plan := plans.put(&model.Plan{
		Name:          "Pro",
		Price:         5000,
		UserLimit:     10,
		DaysValidity:  365,
		StripePriceID: "price_pro",
	})
	user := users.put(&model.User{
		Name:              "Acme Admin",
		Email:             "admin@acme.test",
		Role:              model.RoleUser,
		SubscriptionAdmin: true,
	})
	return user, plan
}

func TestStartCheckout(t *testing.T) {
	svc, users, plans, checkouts, gateway, _ := newPaymentServiceFixture()
	user, plan := seedPurchaser(users, plans)

	url, err := svc.StartCheckout(context.Background(), user.ID.Hex(), plan.ID.Hex(), user.Email)
	require.NoError(t, err)
	assert.Contains(t, url, "https://checkout.example.com/")

	require.Len(t, gateway.createdSessions, 1)
	params := gateway.createdSessions[0]
	assert.Equal(t, plan.StripePriceID, params.PriceID)
	assert.Equal(t, int64(plan.UserLimit), params.Quantity, "quantity must match the seat limit")
	assert.Equal(t, user.Email, params.CustomerEmail)
	assert.Equal(t, testFrontendURL+"/payment/success?session_id={CHECKOUT_SESSION_ID}", params.SuccessURL)
	assert.Equal(t, testFrontendURL+"/payment/failure", params.CancelURL)

	require.Len(t, checkouts.checkouts, 1)
	for _, rec := range checkouts.checkouts {
		assert.Equal(t, user.ID, rec.UserID)
		assert.Equal(t, plan.ID, rec.PlanID)
		assert.Equal(t, model.CheckoutPending, rec.Status)
	}
}

func TestStartCheckout_PlanNotFound(t *testing.T) {
	svc, users, plans, checkouts, _, _ := newPaymentServiceFixture()
	user, _ := seedPurchaser(users, plans)

	_, err := svc.StartCheckout(context.Background(), user.ID.Hex(), "000000000000000000000000", user.Email)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, checkouts.checkouts)
}

func TestConfirmPayment_Unpaid(t *testing.T) {
	svc, users, plans, _, _, _ := newPaymentServiceFixture()
	user, plan := seedPurchaser(users, plans)

	_, err := svc.StartCheckout(context.Background(), user.ID.Hex(), plan.ID.Hex(), user.Email)
	require.NoError(t, err)

	err = svc.ConfirmPayment(context.Background(), "cs_1")
	assert.ErrorIs(t, err, ErrPaymentIncomplete)
	assert.True(t, user.Plan.IsZero(), "plan must not change while the session is unpaid")
}

func TestConfirmPayment_AppliesRecordedPlan(t *testing.T) {
	svc, users, plans, checkouts, gateway, _ := newPaymentServiceFixture()
	user, plan := seedPurchaser(users, plans)

	_, err := svc.StartCheckout(context.Background(), user.ID.Hex(), plan.ID.Hex(), user.Email)
	require.NoError(t, err)
	gateway.markPaid("cs_1")

	require.NoError(t, svc.ConfirmPayment(context.Background(), "cs_1"))

	assert.Equal(t, plan.ID, user.Plan)
	wantValid := time.Now().Add(time.Duration(plan.DaysValidity) * 24 * time.Hour)
	assert.WithinDuration(t, wantValid, user.ValidUntil, time.Minute)
	assert.Equal(t, model.CheckoutCompleted, checkouts.checkouts["cs_1"].Status)
}

func TestConfirmPayment_Idempotent(t *testing.T) {
	svc, users, plans, _, gateway, _ := newPaymentServiceFixture()
	user, plan := seedPurchaser(users, plans)

	_, err := svc.StartCheckout(context.Background(), user.ID.Hex(), plan.ID.Hex(), user.Email)
	require.NoError(t, err)
	gateway.markPaid("cs_1")

	require.NoError(t, svc.ConfirmPayment(context.Background(), "cs_1"))
	require.NoError(t, svc.ConfirmPayment(context.Background(), "cs_1"))
	assert.Equal(t, plan.ID, user.Plan)
}

func TestConfirmPayment_UnknownSession(t *testing.T) {
	svc, _, _, _, _, _ := newPaymentServiceFixture()

	err := svc.ConfirmPayment(context.Background(), "cs_missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHandleCheckoutCompleted_SendsOneEmail(t *testing.T) {
	svc, users, plans, _, _, mailer := newPaymentServiceFixture()
	user, plan := seedPurchaser(users, plans)

	_, err := svc.StartCheckout(context.Background(), user.ID.Hex(), plan.ID.Hex(), user.Email)
	require.NoError(t, err)

	require.NoError(t, svc.HandleCheckoutCompleted(context.Background(), "evt_1", "cs_1", user.Email))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, user.Email, mailer.sent[0].To)
	assert.Equal(t, "Payment Confirmation", mailer.sent[0].Subject)
	assert.Contains(t, mailer.sent[0].Body, plan.Name)

	// Replayed delivery of the same event must not send again.
	require.NoError(t, svc.HandleCheckoutCompleted(context.Background(), "evt_1", "cs_1", user.Email))
	assert.Len(t, mailer.sent, 1)
}

func TestHandleCheckoutCompleted_RetriesAfterMailFailure(t *testing.T) {
	svc, users, plans, _, _, mailer := newPaymentServiceFixture()
	user, plan := seedPurchaser(users, plans)

	_, err := svc.StartCheckout(context.Background(), user.ID.Hex(), plan.ID.Hex(), user.Email)
	require.NoError(t, err)

	mailer.fail = errors.New("smtp relay down")
	err = svc.HandleCheckoutCompleted(context.Background(), "evt_1", "cs_1", user.Email)
	require.Error(t, err)
	assert.Empty(t, mailer.sent)

	// The redelivery of the same event must not be suppressed as a
	// duplicate: the mail still has to go out.
	mailer.fail = nil
	require.NoError(t, svc.HandleCheckoutCompleted(context.Background(), "evt_1", "cs_1", user.Email))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, user.Email, mailer.sent[0].To)

	// Once delivered, further replays are deduplicated again.
	require.NoError(t, svc.HandleCheckoutCompleted(context.Background(), "evt_1", "cs_1", user.Email))
	assert.Len(t, mailer.sent, 1)
}

func TestHandleCheckoutCompleted_UnknownSession(t *testing.T) {
	svc, _, _, _, _, mailer := newPaymentServiceFixture()

	require.NoError(t, svc.HandleCheckoutCompleted(context.Background(), "evt_1", "cs_missing", "x@test"))
	assert.Empty(t, mailer.sent)
}

func TestHandleCheckoutCompleted_MissingEmail(t *testing.T) {
	svc, users, plans, _, _, mailer := newPaymentServiceFixture()
	user, plan := seedPurchaser(users, plans)

	_, err := svc.StartCheckout(context.Background(), user.ID.Hex(), plan.ID.Hex(), user.Email)
	require.NoError(t, err)

	require.NoError(t, svc.HandleCheckoutCompleted(context.Background(), "evt_1", "cs_1", ""))
	assert.Empty(t, mailer.sent)
}
