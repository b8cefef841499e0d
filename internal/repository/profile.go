package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stridelab/metronome/internal/model"
)

type ProfileRepository interface {
	Create(profile *model.RunnerProfile) error
	List(limit int) ([]model.RunnerProfile, error)
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(profile *model.RunnerProfile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO runner_profiles (
			id, user_id, display_name, preferred_unit,
			baseline_cadence, target_cadence, run_type, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(query,
		profile.ID,
		profile.UserID,
		profile.DisplayName,
		profile.PreferredUnit,
		profile.BaselineCadence,
		profile.TargetCadence,
		profile.RunType,
		profile.CreatedAt,
	)
	return err
}

func (r *profileRepository) List(limit int) ([]model.RunnerProfile, error) {
	profiles := []model.RunnerProfile{}
	query := `SELECT * FROM runner_profiles ORDER BY created_at DESC LIMIT $1`

	err := r.db.Select(&profiles, query, limit)
	if err != nil {
		return nil, err
	}

	return profiles, nil
}
