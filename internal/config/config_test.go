package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg := Load()
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.False(t, cfg.DevAllowMemory)

	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "metronome-api", cfg.JWTIssuer)
	assert.Equal(t, "metronome-app", cfg.JWTAudience)
	assert.Equal(t, 720*time.Hour, cfg.JWTExpiry)

	assert.Equal(t, 10*time.Minute, cfg.AuthCodeExpiry)
	assert.False(t, cfg.DebugAuthCodes)

	assert.Equal(t, 5, cfg.AuthRateLimit)
	assert.Equal(t, 60, cfg.WebhookRateLimit)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_EXPIRY", "24h")
	t.Setenv("AUTH_RATE_LIMIT", "10")
	t.Setenv("DEBUG_AUTH_CODES", "true")
	t.Setenv("DEV_ALLOW_MEMORY", "1")

	cfg := Load()
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 10, cfg.AuthRateLimit)
	assert.True(t, cfg.DebugAuthCodes)
	assert.True(t, cfg.DevAllowMemory)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_EXPIRY", "not-a-duration")
	t.Setenv("AUTH_RATE_LIMIT", "many")
	t.Setenv("DEBUG_AUTH_CODES", "maybe")

	cfg := Load()
	assert.Equal(t, 720*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 5, cfg.AuthRateLimit)
	assert.False(t, cfg.DebugAuthCodes)
}
