package model

import (
	"time"
)

// AuthCode is a one-time numeric credential for passwordless sign-in.
// Codes are deleted on successful verification and never reused; expiry is
// checked at verify time rather than swept proactively.
type AuthCode struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	Code         string    `db:"code"` // 6 digits, zero-padded
	ExpiresInMin int       `db:"expires_in_minutes"`
	CreatedAt    time.Time `db:"created_at"`
}

func (c *AuthCode) IsExpired(now time.Time) bool {
	return now.Sub(c.CreatedAt) > time.Duration(c.ExpiresInMin)*time.Minute
}
