package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"planhub/internal/auth"
	"planhub/internal/config"
	"planhub/internal/middleware"
	"planhub/internal/model"
)

// Server represents the HTTP server
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	mongo  *mongo.Client
}

// New creates a new server instance
func New(cfg *config.Config) (*Server, error) {
	tokens, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret)
	if err != nil {
		return nil, err
	}

	mongoClient, err := Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	db := mongoClient.Database(cfg.Mongo.Database)

	repos := InitRepositories(mongoClient, db)
	services := InitServices(cfg, repos, tokens)
	handlers := InitHandlers(cfg, services)

	if err := EnsureIndexes(repos); err != nil {
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}

	router, err := setupRouter(handlers, tokens)
	if err != nil {
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}

	return &Server{
		cfg:    cfg,
		router: router,
		mongo:  mongoClient,
	}, nil
}

func Connect(cfg *config.Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the unique indexes the invariants rely on.
func EnsureIndexes(repos *Repositories) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := repos.Users.EnsureIndexes(ctx); err != nil {
		return err
	}
	return repos.Billing.EnsureIndexes(ctx)
}

// Close disconnects MongoDB client
func (s *Server) Close() error {
	if s.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.mongo.Disconnect(ctx)
	}
	return nil
}

// Run starts the server
func (s *Server) Run() error {
	log.Info().Str("address", s.cfg.Server.Address()).Msg("server listening")
	return s.router.Run(s.cfg.Server.Address())
}

func setupRouter(h *Handlers, tokens *auth.TokenIssuer) (*gin.Engine, error) {
	r := gin.Default()
	if err := r.SetTrustedProxies(nil); err != nil {
		return nil, err
	}

	// Webhook route: raw body, signature verified in the handler, no
	// session auth.
	r.POST("/webhooks/stripe-webhook", h.Webhook.HandleStripe)

	api := r.Group("/api")

	// Auth routes (no session required)
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", h.Auth.Register)
		authRoutes.POST("/login", h.Auth.Login)
	}

	// Plan catalog: reads are public, mutations belong to the platform owner
	plans := api.Group("/plans")
	{
		plans.GET("", h.Plan.List)
		plans.GET("/:id", h.Plan.Get)

		adminPlans := plans.Group("")
		adminPlans.Use(middleware.Auth(tokens), middleware.RequireRole(model.RoleAdmin))
		adminPlans.POST("", h.Plan.Create)
		adminPlans.PUT("/:id", h.Plan.Update)
		adminPlans.DELETE("/:id", h.Plan.Delete)
	}

	// Protected routes require a session token
	protected := api.Group("")
	protected.Use(middleware.Auth(tokens))

	users := protected.Group("/users")
	{
		users.POST("", h.User.AddMember)
		users.PUT("/update-plan", h.User.UpdatePlan)
		users.GET("/otherUsers", h.User.ListMembers)
		users.GET("/organizations", middleware.RequireRole(model.RoleAdmin), h.User.ListOrganizations)
	}

	payments := protected.Group("/payments")
	{
		payments.POST("", h.Payment.StartCheckout)
		payments.POST("/confirm", h.Payment.ConfirmPayment)
	}

	return r, nil
}
