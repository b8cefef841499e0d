package model

import (
	"time"
)

// WorkoutSession is a recorded metronome session summary.
type WorkoutSession struct {
	ID              string    `db:"id" json:"id"`
	UserID          *string   `db:"user_id" json:"user_id,omitempty"`
	PaceValue       float64   `db:"pace_value" json:"pace_value"`
	PaceUnit        string    `db:"pace_unit" json:"pace_unit"`
	RunType         string    `db:"run_type" json:"run_type"`
	TargetBPM       int       `db:"target_bpm" json:"target_bpm"`
	DurationSeconds int       `db:"duration_seconds" json:"duration_seconds"`
	Notes           *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
