package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultMongoURI, cfg.Mongo.URI)
	assert.Equal(t, DefaultMongoDB, cfg.Mongo.Database)
	assert.Equal(t, DefaultSMTPHost, cfg.Mail.Host)
	assert.Equal(t, DefaultSMTPPort, cfg.Mail.Port)
	assert.Equal(t, DefaultFrontendURL, cfg.FrontendURL)
}

func TestNewFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("MONGO_URI", "mongodb://db:27017/test")
	t.Setenv("JWT_SECRET", "shhh")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("EMAIL_USER", "bot@example.com")

	cfg := New()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mongodb://db:27017/test", cfg.Mongo.URI)
	assert.Equal(t, "shhh", cfg.Auth.JWTSecret)
	assert.Equal(t, "sk_test_123", cfg.Stripe.SecretKey)
	assert.Equal(t, 2525, cfg.Mail.Port)
	assert.Equal(t, "bot@example.com", cfg.Mail.Username)
	assert.Equal(t, "bot@example.com", cfg.Mail.From, "from falls back to the SMTP user")
}

func TestGetEnvInt_Invalid(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-number")

	cfg := New()
	assert.Equal(t, DefaultSMTPPort, cfg.Mail.Port)
}

func TestAddress(t *testing.T) {
	c := ServerConfig{Host: "", Port: "5000"}
	assert.Equal(t, ":5000", c.Address())
}
