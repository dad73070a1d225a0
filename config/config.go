package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string
	Port     string

	// Auth
	JWTSecret       string
	SessionLifetime time.Duration

	// Storage
	StoreDriver string
	StoreDSN    string
	DataDir     string
	RedisURL    string

	// Gemini
	GeminiAPIKey string
	GeminiModel  string

	// Stripe
	StripeSecretKey string
	StripeAPIURL    string

	// HTTP
	CORSOrigins string
	BodyLimit   int
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnv("PORT", "8081"),

		JWTSecret:       getEnv("JWT_SECRET", "default-secret"),
		SessionLifetime: getDurationEnv("SESSION_LIFETIME", 24*time.Hour),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", "file")),
		StoreDSN:    getEnv("STORE_DSN", ""),
		DataDir:     getEnv("DATA_DIR", "./data"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),

		GeminiAPIKey: firstEnv("GEMINI_API_KEY", "API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),
		StripeAPIURL:    getEnv("STRIPE_API_URL", "https://api.stripe.com"),

		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:8000"),
		BodyLimit:   getIntEnv("BODY_LIMIT", 16*1024*1024),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// firstEnv returns the first non-empty value among keys.
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
