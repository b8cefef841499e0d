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
	ErrAuthCodeNotFound = errors.New("auth code not found")
)

type AuthCodeRepository interface {
	Create(code *model.AuthCode) error
	Find(email, code string) (*model.AuthCode, error)
	// Consume deletes every record matching (email, code) and reports how many
	// rows were removed. A zero count means another request consumed the code
	// first; callers must treat that as a failed verification.
	Consume(email, code string) (int64, error)
}

type authCodeRepository struct {
	db *sqlx.DB
}

func NewAuthCodeRepository(db *sqlx.DB) AuthCodeRepository {
	return &authCodeRepository{db: db}
}

func (r *authCodeRepository) Create(code *model.AuthCode) error {
	if code.ID == "" {
		code.ID = uuid.New().String()
	}
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO auth_codes (id, email, code, expires_in_minutes, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(query,
		code.ID,
		code.Email,
		code.Code,
		code.ExpiresInMin,
		code.CreatedAt,
	)
	return err
}

func (r *authCodeRepository) Find(email, code string) (*model.AuthCode, error) {
	var c model.AuthCode
	query := `
		SELECT * FROM auth_codes
		WHERE email = $1 AND code = $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	err := r.db.Get(&c, query, email, code)
	if err == sql.ErrNoRows {
		return nil, ErrAuthCodeNotFound
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *authCodeRepository) Consume(email, code string) (int64, error) {
	query := `DELETE FROM auth_codes WHERE email = $1 AND code = $2`
	result, err := r.db.Exec(query, email, code)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
