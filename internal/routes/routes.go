package routes

import (
	"net/http"

	"github.com/stridelab/metronome/internal/app"
	"github.com/stridelab/metronome/internal/handler"
	"github.com/stridelab/metronome/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	status := handler.NewStatusHandler(app.Cfg, app.DB)
	convert := handler.NewConvertHandler()
	auth := handler.NewAuthHandler(app.AuthService)
	pro := handler.NewProHandler(app.EntitlementService, app.TokenService)
	webhook := handler.NewWebhookHandler(app.EntitlementService, app.Cfg.StripeWebhookSecret)
	profile := handler.NewProfileHandler(app.ProfileRepository, app.SessionRepository)

	// Rate limiters: tight for auth, loose for webhook delivery storms
	authLimiter := middleware.NewRateLimiter("auth", app.Cfg.AuthRateLimit, app.Cfg.RateLimitWindow)
	webhookLimiter := middleware.NewRateLimiter("webhook", app.Cfg.WebhookRateLimit, app.Cfg.RateLimitWindow)

	mux := http.NewServeMux()

	// Status
	mux.HandleFunc("GET /{$}", status.Root)
	mux.HandleFunc("GET /test", status.Status)

	// Cadence conversion
	mux.HandleFunc("POST /api/convert/pace-to-bpm", convert.PaceToBPM)

	// Passwordless auth (rate limited per IP)
	mux.HandleFunc("POST /api/auth/request-code", authLimiter.Limit(auth.RequestCode))
	mux.HandleFunc("POST /api/auth/verify-code", auth.VerifyCode)

	// Pro entitlements
	mux.HandleFunc("POST /api/pro/claim", pro.Claim)
	mux.HandleFunc("POST /api/pro/verify", pro.VerifyToken)

	// Payment provider webhook (rate limited per IP)
	mux.HandleFunc("POST /api/stripe/webhook", webhookLimiter.Limit(webhook.HandleStripe))

	// Profiles & sessions
	mux.HandleFunc("POST /api/profile", profile.CreateProfile)
	mux.HandleFunc("GET /api/profiles", profile.ListProfiles)
	mux.HandleFunc("POST /api/sessions", profile.CreateSession)
	mux.HandleFunc("GET /api/sessions", profile.ListSessions)

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.RequestLogging,
	)
}
