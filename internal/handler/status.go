package handler

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/stridelab/metronome/internal/config"
)

type StatusHandler struct {
	cfg *config.Config
	db  *sqlx.DB // nil when running on the in-memory store
}

func NewStatusHandler(cfg *config.Config, db *sqlx.DB) *StatusHandler {
	return &StatusHandler{cfg: cfg, db: db}
}

func (h *StatusHandler) Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Runner Metronome Backend is running",
	})
}

// Status reports which collaborators are configured, for quick deployment
// sanity checks. No secrets are echoed, only presence.
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	database := map[string]any{
		"connected": false,
		"driver":    h.cfg.DBDriver,
	}
	if h.db != nil {
		err := h.db.Ping()
		database["connected"] = err == nil
	} else {
		database["driver"] = "memory"
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"backend":  "running",
		"env":      h.cfg.AppEnv,
		"database": database,
		"stripe": map[string]any{
			"webhook_secret_set":    h.cfg.StripeWebhookSecret != "",
			"signature_enforcement": h.cfg.StripeWebhookSecret != "",
		},
		"jwt": map[string]any{
			"issuer":   h.cfg.JWTIssuer,
			"audience": h.cfg.JWTAudience,
			"expiry":   h.cfg.JWTExpiry.String(),
		},
		"email": map[string]any{
			"configured": h.cfg.ResendAPIKey != "",
			"from":       h.cfg.EmailFrom,
		},
	})
}
