package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/stripe/stripe-go/v81/webhook"

	"github.com/stridelab/metronome/internal/service"
)

type WebhookHandler struct {
	entitlementService *service.EntitlementService
	webhookSecret      string
}

func NewWebhookHandler(entitlementService *service.EntitlementService, webhookSecret string) *WebhookHandler {
	if webhookSecret == "" {
		slog.Warn("stripe webhook secret not configured, accepting unsigned payloads (development only)")
	}
	return &WebhookHandler{
		entitlementService: entitlementService,
		webhookSecret:      webhookSecret,
	}
}

// unsignedEvent mirrors the Stripe event envelope for the development path
// where no webhook secret is configured.
type unsignedEvent struct {
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// HandleStripe processes a payment-provider event. All four ledger outcomes
// are 200 responses so the provider does not redeliver; only signature
// failures and malformed payloads are client errors.
func (h *WebhookHandler) HandleStripe(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read payload")
		return
	}
	defer r.Body.Close()

	var eventType string
	var data json.RawMessage

	if h.webhookSecret != "" {
		// Use ConstructEventWithOptions to ignore API version mismatch
		// Stripe's API versions are backwards compatible, so this is safe
		event, err := webhook.ConstructEventWithOptions(
			payload,
			r.Header.Get("Stripe-Signature"),
			h.webhookSecret,
			webhook.ConstructEventOptions{
				IgnoreAPIVersionMismatch: true,
			},
		)
		if err != nil {
			slog.Warn("stripe webhook signature verification failed", "error", err)
			respondError(w, http.StatusBadRequest, "invalid webhook signature")
			return
		}
		eventType = string(event.Type)
		data = event.Data.Raw
	} else {
		var event unsignedEvent
		err = json.Unmarshal(payload, &event)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid webhook payload")
			return
		}
		eventType = event.Type
		data = event.Data.Object
	}

	slog.Info("stripe webhook received", "event_type", eventType)

	outcome, err := h.entitlementService.RecordPaymentEvent(eventType, data)
	if err != nil {
		slog.Error("failed to process payment event", "error", err, "event_type", eventType)
		respondError(w, http.StatusInternalServerError, "failed to process event")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": string(outcome)})
}
