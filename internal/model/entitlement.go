package model

import (
	"time"
)

const EntitlementSourceStripe = "stripe"

// Entitlement is a durable grant of Pro access originating from a payment
// event. Records are written once by the webhook flow and only ever read by
// claim and sign-in; this subsystem never mutates or deletes them.
type Entitlement struct {
	ID                      string    `db:"id"`
	UserID                  *string   `db:"user_id"`
	Email                   *string   `db:"email"`
	ProActive               bool      `db:"pro_active"`
	Source                  string    `db:"source"`
	StripeCustomerID        *string   `db:"stripe_customer_id"`
	StripeCheckoutSessionID *string   `db:"stripe_checkout_session_id"`
	StripePaymentIntentID   *string   `db:"stripe_payment_intent_id"`
	CreatedAt               time.Time `db:"created_at"`
}
