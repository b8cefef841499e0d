package model

import (
	"time"
)

// RunnerProfile holds per-user cadence and pacing preferences.
type RunnerProfile struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"user_id"`
	DisplayName     *string   `db:"display_name" json:"display_name,omitempty"`
	PreferredUnit   string    `db:"preferred_unit" json:"preferred_unit"` // min_per_km or min_per_mile
	BaselineCadence *int      `db:"baseline_cadence" json:"baseline_cadence,omitempty"`
	TargetCadence   *int      `db:"target_cadence" json:"target_cadence,omitempty"`
	RunType         *string   `db:"run_type" json:"run_type,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
