package service

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"planhub/internal/billing"
	"planhub/internal/model"
	"planhub/internal/repository"
)

// In-memory stand-ins for the repository and external-client interfaces.

type fakeUserRepo struct {
	users map[primitive.ObjectID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*model.User)}
}

func (r *fakeUserRepo) put(user *model.User) *model.User {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.Members == nil {
		user.Members = []primitive.ObjectID{}
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) (*model.User, error) {
	return r.put(user), nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]*model.User, error) {
	var out []*model.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) FindOrgAdmins(_ context.Context) ([]*model.User, error) {
	var out []*model.User
	for _, u := range r.users {
		if u.SubscriptionAdmin && u.Role == model.RoleUser {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) CountByPlan(_ context.Context, planID primitive.ObjectID) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.Plan == planID {
			n++
		}
	}
	return n, nil
}

func (r *fakeUserRepo) UpdatePlan(_ context.Context, id, planID primitive.ObjectID, validUntil time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user %s not found", id.Hex())
	}
	u.Plan = planID
	u.ValidUntil = validUntil
	return nil
}

func (r *fakeUserRepo) UpdatePlanMany(ctx context.Context, ids []primitive.ObjectID, planID primitive.ObjectID, validUntil time.Time) error {
	for _, id := range ids {
		if err := r.UpdatePlan(ctx, id, planID, validUntil); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeUserRepo) AddMember(_ context.Context, adminID primitive.ObjectID, seatLimit int, member *model.User) (*model.User, error) {
	admin, ok := r.users[adminID]
	if !ok {
		return nil, fmt.Errorf("admin %s not found", adminID.Hex())
	}
	if len(admin.Members) >= seatLimit {
		return nil, repository.ErrSeatsExhausted
	}
	created := r.put(member)
	admin.Members = append(admin.Members, created.ID)
	return created, nil
}

func (r *fakeUserRepo) EnsureIndexes(_ context.Context) error { return nil }

type fakePlanRepo struct {
	plans map[primitive.ObjectID]*model.Plan
	users *fakeUserRepo
}

func newFakePlanRepo(users *fakeUserRepo) *fakePlanRepo {
	return &fakePlanRepo{plans: make(map[primitive.ObjectID]*model.Plan), users: users}
}

func (r *fakePlanRepo) put(plan *model.Plan) *model.Plan {
	if plan.ID.IsZero() {
		plan.ID = primitive.NewObjectID()
	}
	r.plans[plan.ID] = plan
	return plan
}

func (r *fakePlanRepo) Create(_ context.Context, plan *model.Plan) (*model.Plan, error) {
	return r.put(plan), nil
}

func (r *fakePlanRepo) FindByID(_ context.Context, id primitive.ObjectID) (*model.Plan, error) {
	return r.plans[id], nil
}

func (r *fakePlanRepo) ListWithEnrollment(ctx context.Context) ([]*model.PlanWithEnrollment, error) {
	var out []*model.PlanWithEnrollment
	for _, p := range r.plans {
		count, _ := r.users.CountByPlan(ctx, p.ID)
		out = append(out, &model.PlanWithEnrollment{Plan: *p, TotalEnrolled: int(count)})
	}
	return out, nil
}

func (r *fakePlanRepo) Replace(_ context.Context, plan *model.Plan) error {
	if _, ok := r.plans[plan.ID]; !ok {
		return fmt.Errorf("plan %s not found", plan.ID.Hex())
	}
	r.plans[plan.ID] = plan
	return nil
}

func (r *fakePlanRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(r.plans, id)
	return nil
}

type fakeBillingRepo struct {
	checkouts map[string]*model.CheckoutRecord
	events    map[string]bool
}

func newFakeBillingRepo() *fakeBillingRepo {
	return &fakeBillingRepo{
		checkouts: make(map[string]*model.CheckoutRecord),
		events:    make(map[string]bool),
	}
}

func (r *fakeBillingRepo) CreateCheckout(_ context.Context, rec *model.CheckoutRecord) (*model.CheckoutRecord, error) {
	rec.ID = primitive.NewObjectID()
	rec.Status = model.CheckoutPending
	r.checkouts[rec.SessionID] = rec
	return rec, nil
}

func (r *fakeBillingRepo) FindCheckoutBySessionID(_ context.Context, sessionID string) (*model.CheckoutRecord, error) {
	return r.checkouts[sessionID], nil
}

func (r *fakeBillingRepo) MarkCheckoutCompleted(_ context.Context, sessionID string) error {
	rec, ok := r.checkouts[sessionID]
	if !ok {
		return fmt.Errorf("checkout %s not found", sessionID)
	}
	rec.Status = model.CheckoutCompleted
	return nil
}

func (r *fakeBillingRepo) RecordEvent(_ context.Context, eventID, _ string) (bool, error) {
	if r.events[eventID] {
		return false, nil
	}
	r.events[eventID] = true
	return true, nil
}

func (r *fakeBillingRepo) DeleteEvent(_ context.Context, eventID string) error {
	delete(r.events, eventID)
	return nil
}

func (r *fakeBillingRepo) EnsureIndexes(_ context.Context) error { return nil }

type fakeGateway struct {
	seq             int
	products        map[string]bool // id -> active
	prices          map[string]bool // id -> active
	sessions        map[string]*billing.CheckoutSession
	createdSessions []billing.CheckoutParams
	failNextPrice   error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		products: make(map[string]bool),
		prices:   make(map[string]bool),
		sessions: make(map[string]*billing.CheckoutSession),
	}
}

func (g *fakeGateway) next(prefix string) string {
	g.seq++
	return fmt.Sprintf("%s_%d", prefix, g.seq)
}

func (g *fakeGateway) CreateProduct(_ context.Context, _, _ string) (string, error) {
	id := g.next("prod")
	g.products[id] = true
	return id, nil
}

func (g *fakeGateway) UpdateProduct(_ context.Context, productID, _, _ string) error {
	if _, ok := g.products[productID]; !ok {
		return fmt.Errorf("product %s not found", productID)
	}
	return nil
}

func (g *fakeGateway) ArchiveProduct(_ context.Context, productID string) error {
	if _, ok := g.products[productID]; !ok {
		return fmt.Errorf("product %s not found", productID)
	}
	g.products[productID] = false
	return nil
}

func (g *fakeGateway) CreatePrice(_ context.Context, productID string, _ int64) (string, error) {
	if g.failNextPrice != nil {
		err := g.failNextPrice
		g.failNextPrice = nil
		return "", err
	}
	if _, ok := g.products[productID]; !ok {
		return "", fmt.Errorf("product %s not found", productID)
	}
	id := g.next("price")
	g.prices[id] = true
	return id, nil
}

func (g *fakeGateway) DeactivatePrice(_ context.Context, priceID string) error {
	if _, ok := g.prices[priceID]; !ok {
		return fmt.Errorf("price %s not found", priceID)
	}
	g.prices[priceID] = false
	return nil
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, params billing.CheckoutParams) (*billing.CheckoutSession, error) {
	g.createdSessions = append(g.createdSessions, params)
	id := g.next("cs")
	sess := &billing.CheckoutSession{
		ID:            id,
		URL:           "https://checkout.example.com/" + id,
		PaymentStatus: "unpaid",
		CustomerEmail: params.CustomerEmail,
	}
	g.sessions[id] = sess
	return sess, nil
}

func (g *fakeGateway) GetCheckoutSession(_ context.Context, sessionID string) (*billing.CheckoutSession, error) {
	sess, ok := g.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s not found", sessionID)
	}
	return sess, nil
}

func (g *fakeGateway) markPaid(sessionID string) {
	g.sessions[sessionID].PaymentStatus = billing.Paid
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	sent []sentMail
	fail error
}

func (m *fakeMailer) Send(to, subject, htmlBody string) error {
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: htmlBody})
	return nil
}
