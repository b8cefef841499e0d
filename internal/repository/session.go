package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stridelab/metronome/internal/model"
)

type SessionRepository interface {
	Create(session *model.WorkoutSession) error
	List(limit int) ([]model.WorkoutSession, error)
}

type sessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(session *model.WorkoutSession) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO workout_sessions (
			id, user_id, pace_value, pace_unit, run_type,
			target_bpm, duration_seconds, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(query,
		session.ID,
		session.UserID,
		session.PaceValue,
		session.PaceUnit,
		session.RunType,
		session.TargetBPM,
		session.DurationSeconds,
		session.Notes,
		session.CreatedAt,
	)
	return err
}

func (r *sessionRepository) List(limit int) ([]model.WorkoutSession, error) {
	sessions := []model.WorkoutSession{}
	query := `SELECT * FROM workout_sessions ORDER BY created_at DESC LIMIT $1`

	err := r.db.Select(&sessions, query, limit)
	if err != nil {
		return nil, err
	}

	return sessions, nil
}
