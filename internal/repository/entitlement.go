package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stridelab/metronome/internal/model"
)

var (
	ErrEntitlementNotFound = errors.New("entitlement not found")
)

type EntitlementRepository interface {
	Create(ent *model.Entitlement) error
	ByPaymentIntentID(paymentIntentID string) (*model.Entitlement, error)
	ByEmail(email string) (*model.Entitlement, error)
	ByUserID(userID string) (*model.Entitlement, error)
}

type entitlementRepository struct {
	db *sqlx.DB
}

func NewEntitlementRepository(db *sqlx.DB) EntitlementRepository {
	return &entitlementRepository{db: db}
}

func (r *entitlementRepository) Create(ent *model.Entitlement) error {
	if ent.ID == "" {
		ent.ID = uuid.New().String()
	}
	if ent.CreatedAt.IsZero() {
		ent.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO entitlements (
			id, user_id, email, pro_active, source,
			stripe_customer_id, stripe_checkout_session_id, stripe_payment_intent_id,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(query,
		ent.ID,
		ent.UserID,
		ent.Email,
		ent.ProActive,
		ent.Source,
		ent.StripeCustomerID,
		ent.StripeCheckoutSessionID,
		ent.StripePaymentIntentID,
		ent.CreatedAt,
	)
	return err
}

func (r *entitlementRepository) ByPaymentIntentID(paymentIntentID string) (*model.Entitlement, error) {
	return r.get(`SELECT * FROM entitlements WHERE stripe_payment_intent_id = $1`, paymentIntentID)
}

func (r *entitlementRepository) ByEmail(email string) (*model.Entitlement, error) {
	return r.get(`SELECT * FROM entitlements WHERE email = $1 ORDER BY created_at DESC LIMIT 1`, email)
}

func (r *entitlementRepository) ByUserID(userID string) (*model.Entitlement, error) {
	return r.get(`SELECT * FROM entitlements WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`, userID)
}

func (r *entitlementRepository) get(query string, arg any) (*model.Entitlement, error) {
	ent := &model.Entitlement{}

	err := r.db.Get(ent, query, arg)
	if err == sql.ErrNoRows {
		return nil, ErrEntitlementNotFound
	}
	if err != nil {
		return nil, err
	}

	return ent, nil
}
