package server

import (
	"go.mongodb.org/mongo-driver/mongo"

	"planhub/internal/auth"
	"planhub/internal/billing"
	"planhub/internal/config"
	"planhub/internal/handler"
	"planhub/internal/mail"
	"planhub/internal/repository"
	"planhub/internal/service"
)

// Repositories aggregates the persistence layer
type Repositories struct {
	Users   repository.IUserRepository
	Plans   repository.IPlanRepository
	Billing repository.IBillingRepository
}

// Services aggregates the business logic layer
type Services struct {
	Auth    *service.AuthService
	User    *service.UserService
	Plan    *service.PlanService
	Payment *service.PaymentService
}

// Handlers aggregates the HTTP layer
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Plan    *handler.PlanHandler
	Payment *handler.PaymentHandler
	Webhook *handler.WebhookHandler
}

// InitRepositories wires the repositories against the database
func InitRepositories(client *mongo.Client, db *mongo.Database) *Repositories {
	return &Repositories{
		Users:   repository.NewUserRepository(client, db),
		Plans:   repository.NewPlanRepository(db),
		Billing: repository.NewBillingRepository(db),
	}
}

// InitServices wires the services against repositories and external clients
func InitServices(cfg *config.Config, repos *Repositories, tokens *auth.TokenIssuer) *Services {
	gateway := billing.NewStripeClient(cfg.Stripe.SecretKey)
	mailer := mail.NewSMTPMailer(cfg.Mail)

	userService := service.NewUserService(repos.Users, repos.Plans)
	return &Services{
		Auth:    service.NewAuthService(repos.Users, repos.Plans, tokens),
		User:    userService,
		Plan:    service.NewPlanService(repos.Plans, repos.Users, gateway),
		Payment: service.NewPaymentService(repos.Plans, repos.Billing, userService, gateway, mailer, cfg.FrontendURL),
	}
}

// InitHandlers wires the HTTP handlers against services
func InitHandlers(cfg *config.Config, services *Services) *Handlers {
	return &Handlers{
		Auth:    handler.NewAuthHandler(services.Auth),
		User:    handler.NewUserHandler(services.User),
		Plan:    handler.NewPlanHandler(services.Plan),
		Payment: handler.NewPaymentHandler(services.Payment),
		Webhook: handler.NewWebhookHandler(services.Payment, cfg.Stripe.WebhookSecret),
	}
}
