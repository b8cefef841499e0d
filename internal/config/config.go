package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver       string
	DBConnection   string
	DevAllowMemory bool

	// Tokens
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	JWTExpiry   time.Duration

	// Auth codes
	AuthCodeExpiry time.Duration
	DebugAuthCodes bool

	// Email
	EmailFrom    string
	ResendAPIKey string

	// Payment
	StripeWebhookSecret string

	// Rate limiting (requests per window)
	AuthRateLimit    int
	WebhookRateLimit int
	RateLimitWindow  time.Duration

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Metronome"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:       envString("DB_DRIVER", "sqlite"),
		DBConnection:   envString("DB_CONNECTION", "./data/metronome.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),
		DevAllowMemory: envBool("DEV_ALLOW_MEMORY", false),

		// Tokens (no baked-in fallback secret: missing JWT_SECRET is fatal)
		JWTSecret:   envRequired("JWT_SECRET"),
		JWTIssuer:   envString("JWT_ISSUER", "metronome-api"),
		JWTAudience: envString("JWT_AUDIENCE", "metronome-app"),
		JWTExpiry:   envDuration("JWT_EXPIRY", 720*time.Hour), // 30 days

		// Auth codes
		AuthCodeExpiry: envDuration("AUTH_CODE_EXPIRY", 10*time.Minute),
		DebugAuthCodes: envBool("DEBUG_AUTH_CODES", false),

		// Email (RESEND_API_KEY optional in development, required in production)
		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		// Payment (presence of the secret toggles webhook signature enforcement)
		StripeWebhookSecret: envString("STRIPE_WEBHOOK_SECRET", ""),

		// Rate limiting
		AuthRateLimit:    envInt("AUTH_RATE_LIMIT", 5),
		WebhookRateLimit: envInt("WEBHOOK_RATE_LIMIT", 60),
		RateLimitWindow:  envDuration("RATE_LIMIT_WINDOW", time.Minute),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
	}

	// Production: validate required services and forbid dev-only modes
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures all required services are configured for production
// deployments. Development allows fallback modes (log-mode email, unsigned
// webhooks, debug codes) for easier local testing.
func validateProduction(cfg *Config) {
	if cfg.ResendAPIKey == "" {
		slog.Error("production deployment requires RESEND_API_KEY",
			"hint", "set APP_ENV=development for local testing with email log mode")
		os.Exit(1)
	}
	if cfg.StripeWebhookSecret == "" {
		slog.Error("production deployment requires STRIPE_WEBHOOK_SECRET",
			"hint", "unsigned webhook payloads are only accepted in development")
		os.Exit(1)
	}
	if cfg.DebugAuthCodes {
		slog.Error("DEBUG_AUTH_CODES must not be enabled in production",
			"hint", "debug mode returns plaintext login codes in API responses")
		os.Exit(1)
	}
	if cfg.DevAllowMemory {
		slog.Error("DEV_ALLOW_MEMORY must not be enabled in production",
			"hint", "the in-memory store loses all data on restart")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
