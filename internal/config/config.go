package config

import (
	"os"
	"strconv"
)

// Server configuration
type ServerConfig struct {
	Port string
	Host string
}

// MongoDB configuration
type MongoConfig struct {
	URI      string
	Database string
}

// Auth configuration
type AuthConfig struct {
	JWTSecret string
}

// Stripe configuration
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

// Mail (SMTP) configuration
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Config holds all application configuration
type Config struct {
	Server      ServerConfig
	Mongo       MongoConfig
	Auth        AuthConfig
	Stripe      StripeConfig
	Mail        MailConfig
	FrontendURL string
}

// Default configuration values
const (
	DefaultServerPort  = "5000"
	DefaultServerHost  = ""
	DefaultMongoURI    = "mongodb://localhost:27017/planhub?authSource=admin"
	DefaultMongoDB     = "planhub"
	DefaultSMTPHost    = "smtp.gmail.com"
	DefaultSMTPPort    = 587
	DefaultFrontendURL = "http://localhost:3000"
)

// New returns a new Config populated from the environment,
// falling back to defaults where a variable is unset.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", DefaultServerPort),
			Host: getEnv("SERVER_HOST", DefaultServerHost),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", DefaultMongoURI),
			Database: getEnv("MONGO_DB", DefaultMongoDB),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Stripe: StripeConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		},
		Mail: MailConfig{
			Host:     getEnv("SMTP_HOST", DefaultSMTPHost),
			Port:     getEnvInt("SMTP_PORT", DefaultSMTPPort),
			Username: getEnv("EMAIL_USER", ""),
			Password: getEnv("EMAIL_PASS", ""),
			From:     getEnv("EMAIL_FROM", getEnv("EMAIL_USER", "")),
		},
		FrontendURL: getEnv("FRONTEND_URL", DefaultFrontendURL),
	}
}

// Address returns the server address string
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
