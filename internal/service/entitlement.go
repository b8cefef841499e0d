package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/stridelab/metronome/internal/model"
	"github.com/stridelab/metronome/internal/repository"
)

// Outcome classifies webhook processing results. All four outcomes are
// success responses to the payment provider; only signature failures and
// rate limiting are surfaced as errors, so provider retries stay idempotent.
type Outcome string

const (
	OutcomeOK               Outcome = "ok"
	OutcomeAlreadyProcessed Outcome = "already_processed"
	OutcomeIgnored          Outcome = "ignored"
	OutcomeUnhandled        Outcome = "unhandled"
)

const (
	EventCheckoutCompleted      = "checkout.session.completed"
	EventPaymentIntentSucceeded = "payment_intent.succeeded"
)

type EntitlementService struct {
	entitlements repository.EntitlementRepository
}

func NewEntitlementService(entitlements repository.EntitlementRepository) *EntitlementService {
	return &EntitlementService{entitlements: entitlements}
}

// paymentObject is the subset of a Stripe checkout session or payment intent
// this service reads. Both event types unmarshal into the same shape.
type paymentObject struct {
	ID              string `json:"id"`
	Customer        string `json:"customer"`
	PaymentIntent   string `json:"payment_intent"`
	ReceiptEmail    string `json:"receipt_email"`
	CustomerEmail   string `json:"customer_email"`
	CustomerDetails struct {
		Email string `json:"email"`
	} `json:"customer_details"`
}

// RecordPaymentEvent applies one normalized payment event to the ledger.
// Unrecognized event types are a deliberate no-op (OutcomeUnhandled) so new
// provider events never break delivery. The check-then-insert on
// payment-intent id is not serialized across concurrent duplicate deliveries;
// the SQL backend's unique constraint closes that window, the memory backend
// tolerates the rare double grant.
func (s *EntitlementService) RecordPaymentEvent(eventType string, data json.RawMessage) (Outcome, error) {
	if eventType != EventCheckoutCompleted && eventType != EventPaymentIntentSucceeded {
		slog.Info("payment event type not handled", "event_type", eventType)
		return OutcomeUnhandled, nil
	}

	var obj paymentObject
	err := json.Unmarshal(data, &obj)
	if err != nil {
		return "", fmt.Errorf("failed to parse payment object: %w", err)
	}

	// Email resolution priority: customer_details, receipt, customer
	email := obj.CustomerDetails.Email
	if email == "" {
		email = obj.ReceiptEmail
	}
	if email == "" {
		email = obj.CustomerEmail
	}

	var paymentIntentID, checkoutSessionID string
	if eventType == EventCheckoutCompleted {
		paymentIntentID = obj.PaymentIntent
		checkoutSessionID = obj.ID
	} else {
		paymentIntentID = obj.ID
	}

	// Nothing to bind an entitlement to
	if email == "" && obj.Customer == "" {
		slog.Warn("payment event has no email or customer, ignoring", "event_type", eventType)
		return OutcomeIgnored, nil
	}

	if paymentIntentID != "" {
		_, err = s.entitlements.ByPaymentIntentID(paymentIntentID)
		if err == nil {
			slog.Info("payment event already processed", "payment_intent_id", paymentIntentID)
			return OutcomeAlreadyProcessed, nil
		}
		if !errors.Is(err, repository.ErrEntitlementNotFound) {
			return "", fmt.Errorf("failed to check for existing entitlement: %w", err)
		}
	}

	ent := &model.Entitlement{
		ProActive: true,
		Source:    model.EntitlementSourceStripe,
	}
	if email != "" {
		ent.Email = &email
	}
	if obj.Customer != "" {
		ent.StripeCustomerID = &obj.Customer
	}
	if checkoutSessionID != "" {
		ent.StripeCheckoutSessionID = &checkoutSessionID
	}
	if paymentIntentID != "" {
		ent.StripePaymentIntentID = &paymentIntentID
	}

	err = s.entitlements.Create(ent)
	if err != nil {
		return "", fmt.Errorf("failed to create entitlement: %w", err)
	}

	slog.Info("entitlement granted", "email", email, "payment_intent_id", paymentIntentID, "event_type", eventType)
	return OutcomeOK, nil
}

// Find looks up an active entitlement by user id or email. At least one
// identifier is required; a blank lookup would degenerate to first-record
// semantics and is rejected as caller error.
func (s *EntitlementService) Find(email, userID string) (*model.Entitlement, error) {
	if email == "" && userID == "" {
		return nil, fmt.Errorf("email or user_id required: %w", ErrInvalidInput)
	}

	var ent *model.Entitlement
	var err error
	if userID != "" {
		ent, err = s.entitlements.ByUserID(userID)
	} else {
		ent, err = s.entitlements.ByEmail(email)
	}
	if errors.Is(err, repository.ErrEntitlementNotFound) {
		return nil, fmt.Errorf("no entitlement: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up entitlement: %w", err)
	}

	if !ent.ProActive {
		return nil, fmt.Errorf("entitlement inactive: %w", ErrNotFound)
	}

	return ent, nil
}
