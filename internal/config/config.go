package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/makaohq/makao-api/internal/billing"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string

	// Database
	DatabaseURL string

	// JWT
	JWTSecret string

	// Background Workers
	WorkerCount int

	// CORS
	AllowedOrigins []string

	// Email (Resend)
	ResendAPIKey string
	FromEmail    string

	// Frontend base URL used in outgoing email links
	AppURL string

	// Sentry
	SentryDSN string

	// PaymentTolerance is the full-payment rounding tolerance in currency
	// units. The default of 0.01 absorbs cent-level round-trip error; it is
	// configurable pending a documented rounding policy.
	PaymentTolerance decimal.Decimal
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Environment:      getEnv("ENVIRONMENT", "development"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		WorkerCount:      getEnvAsInt("WORKER_COUNT", 5),
		AllowedOrigins:   getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		ResendAPIKey:     getEnv("RESEND_API_KEY", ""),
		FromEmail:        getEnv("FROM_EMAIL", "noreply@makao.app"),
		AppURL:           getEnv("APP_URL", "https://app.makao.app"),
		SentryDSN:        getEnv("SENTRY_DSN", ""),
		PaymentTolerance: getEnvAsDecimal("PAYMENT_TOLERANCE", billing.DefaultTolerance),
	}

	// Validate required configuration
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" && cfg.Environment == "production" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}

	// Set default JWT secret for development
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-change-in-production"
	}

	if cfg.PaymentTolerance.IsNegative() {
		return nil, fmt.Errorf("PAYMENT_TOLERANCE must not be negative")
	}

	return cfg, nil
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice reads an environment variable as comma-separated slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}

// getEnvAsDecimal reads an environment variable as a decimal amount
func getEnvAsDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := decimal.NewFromString(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
