package service

import "errors"

// Failure taxonomy surfaced to handlers. Each maps to a single HTTP status
// class; handlers translate with errors.Is and never leak internal errors.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidCredential = errors.New("invalid email or code")
	ErrCodeExpired       = errors.New("code has expired")
	ErrInvalidToken      = errors.New("invalid token")
	ErrNotFound          = errors.New("not found")
)
