package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stridelab/metronome/internal/model"
	"github.com/stridelab/metronome/internal/repository"
)

func newTestEntitlementService() (*EntitlementService, repository.EntitlementRepository) {
	repo := repository.NewMemoryEntitlementRepository()
	return NewEntitlementService(repo), repo
}

func checkoutObject(email, paymentIntent string) json.RawMessage {
	obj := map[string]any{
		"id":             "cs_test_123",
		"customer":       "cus_test_123",
		"payment_intent": paymentIntent,
		"customer_details": map[string]any{
			"email": email,
		},
	}
	data, _ := json.Marshal(obj)
	return data
}

func TestEntitlementService_RecordPaymentEvent_Checkout(t *testing.T) {
	s, repo := newTestEntitlementService()

	outcome, err := s.RecordPaymentEvent(EventCheckoutCompleted, checkoutObject("runner@example.com", "pi_test_123"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeOK, outcome)

	ent, err := repo.ByPaymentIntentID("pi_test_123")
	require.NoError(t, err)
	assert.True(t, ent.ProActive)
	assert.Equal(t, model.EntitlementSourceStripe, ent.Source)
	require.NotNil(t, ent.Email)
	assert.Equal(t, "runner@example.com", *ent.Email)
	require.NotNil(t, ent.StripeCheckoutSessionID)
	assert.Equal(t, "cs_test_123", *ent.StripeCheckoutSessionID)
}

func TestEntitlementService_RecordPaymentEvent_Idempotent(t *testing.T) {
	s, _ := newTestEntitlementService()

	first, err := s.RecordPaymentEvent(EventCheckoutCompleted, checkoutObject("runner@example.com", "pi_test_123"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeOK, first)

	second, err := s.RecordPaymentEvent(EventCheckoutCompleted, checkoutObject("runner@example.com", "pi_test_123"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyProcessed, second)

	// Exactly one effective grant
	_, err = s.Find("runner@example.com", "")
	assert.NoError(t, err)
}

func TestEntitlementService_RecordPaymentEvent_PaymentIntent(t *testing.T) {
	s, repo := newTestEntitlementService()

	obj, _ := json.Marshal(map[string]any{
		"id":            "pi_direct_456",
		"receipt_email": "direct@example.com",
	})

	outcome, err := s.RecordPaymentEvent(EventPaymentIntentSucceeded, obj)
	require.NoError(t, err)
	assert.Equal(t, OutcomeOK, outcome)

	// For direct payments the object id is the payment-intent id
	ent, err := repo.ByPaymentIntentID("pi_direct_456")
	require.NoError(t, err)
	require.NotNil(t, ent.Email)
	assert.Equal(t, "direct@example.com", *ent.Email)
}

func TestEntitlementService_RecordPaymentEvent_EmailPriority(t *testing.T) {
	tests := []struct {
		name      string
		object    map[string]any
		wantEmail string
	}{
		{
			name: "customer_details wins",
			object: map[string]any{
				"id":               "pi_1",
				"customer_details": map[string]any{"email": "details@example.com"},
				"receipt_email":    "receipt@example.com",
				"customer_email":   "customer@example.com",
			},
			wantEmail: "details@example.com",
		},
		{
			name: "receipt_email next",
			object: map[string]any{
				"id":             "pi_2",
				"receipt_email":  "receipt@example.com",
				"customer_email": "customer@example.com",
			},
			wantEmail: "receipt@example.com",
		},
		{
			name: "customer_email last",
			object: map[string]any{
				"id":             "pi_3",
				"customer_email": "customer@example.com",
			},
			wantEmail: "customer@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestEntitlementService()
			data, _ := json.Marshal(tt.object)

			outcome, err := s.RecordPaymentEvent(EventPaymentIntentSucceeded, data)
			require.NoError(t, err)
			assert.Equal(t, OutcomeOK, outcome)

			ent, err := s.Find(tt.wantEmail, "")
			require.NoError(t, err)
			assert.Equal(t, tt.wantEmail, *ent.Email)
		})
	}
}

func TestEntitlementService_RecordPaymentEvent_Unhandled(t *testing.T) {
	s, _ := newTestEntitlementService()

	for _, eventType := range []string{"invoice.payment_failed", "customer.subscription.deleted", "made.up.event"} {
		t.Run(eventType, func(t *testing.T) {
			outcome, err := s.RecordPaymentEvent(eventType, checkoutObject("runner@example.com", "pi_x"))
			require.NoError(t, err)
			assert.Equal(t, OutcomeUnhandled, outcome)
		})
	}

	// No side effects for unhandled types
	_, err := s.Find("runner@example.com", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEntitlementService_RecordPaymentEvent_Ignored(t *testing.T) {
	s, _ := newTestEntitlementService()

	obj, _ := json.Marshal(map[string]any{"id": "pi_no_identity"})

	outcome, err := s.RecordPaymentEvent(EventPaymentIntentSucceeded, obj)
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, outcome)
}

func TestEntitlementService_Find(t *testing.T) {
	s, repo := newTestEntitlementService()

	email := "pro@example.com"
	userID := "user-42"
	err := repo.Create(&model.Entitlement{
		Email:     &email,
		UserID:    &userID,
		ProActive: true,
		Source:    model.EntitlementSourceStripe,
	})
	require.NoError(t, err)

	t.Run("by email", func(t *testing.T) {
		ent, err := s.Find(email, "")
		require.NoError(t, err)
		assert.Equal(t, userID, *ent.UserID)
	})

	t.Run("by user id", func(t *testing.T) {
		ent, err := s.Find("", userID)
		require.NoError(t, err)
		assert.Equal(t, email, *ent.Email)
	})

	t.Run("no identifier is caller error", func(t *testing.T) {
		_, err := s.Find("", "")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := s.Find("stranger@example.com", "")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestEntitlementService_Find_InactiveEntitlement(t *testing.T) {
	s, repo := newTestEntitlementService()

	email := "lapsed@example.com"
	err := repo.Create(&model.Entitlement{
		Email:     &email,
		ProActive: false,
		Source:    model.EntitlementSourceStripe,
	})
	require.NoError(t, err)

	_, err = s.Find(email, "")
	assert.ErrorIs(t, err, ErrNotFound)
}
