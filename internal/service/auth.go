package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/stridelab/metronome/internal/model"
	"github.com/stridelab/metronome/internal/repository"
	"github.com/stridelab/metronome/internal/validation"
)

// AuthService issues and consumes one-time login codes for passwordless
// sign-in. There is no user directory: the verified email is the identity.
type AuthService struct {
	codes        repository.AuthCodeRepository
	entitlements *EntitlementService
	tokens       *TokenService
	email        *EmailService
	codeExpiry   time.Duration
	debugCodes   bool
}

func NewAuthService(
	codes repository.AuthCodeRepository,
	entitlements *EntitlementService,
	tokens *TokenService,
	email *EmailService,
	codeExpiry time.Duration,
	debugCodes bool,
) *AuthService {
	return &AuthService{
		codes:        codes,
		entitlements: entitlements,
		tokens:       tokens,
		email:        email,
		codeExpiry:   codeExpiry,
		debugCodes:   debugCodes,
	}
}

type RequestCodeResult struct {
	Emailed   bool
	DebugCode string // set only when debug code exposure is enabled
}

type VerifyCodeResult struct {
	UserID   string
	ProToken *string
}

// RequestCode generates, stores and delivers a fresh login code. Delivery
// failure is not an error: issuance already succeeded, the caller just learns
// via Emailed=false.
func (s *AuthService) RequestCode(ctx context.Context, email string) (*RequestCodeResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	code, err := generateCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate code: %w", err)
	}

	record := &model.AuthCode{
		Email:        email,
		Code:         code,
		ExpiresInMin: int(s.codeExpiry.Minutes()),
	}
	err = s.codes.Create(record)
	if err != nil {
		return nil, fmt.Errorf("failed to store code: %w", err)
	}

	result := &RequestCodeResult{}
	err = s.email.SendLoginCode(ctx, email, code)
	if err != nil {
		slog.Warn("failed to send login code", "error", err, "email", email)
	} else {
		result.Emailed = true
	}

	if s.debugCodes {
		result.DebugCode = code
	}

	slog.Info("login code issued", "email", email, "emailed", result.Emailed)
	return result, nil
}

// VerifyCode checks a presented (email, code) pair and consumes it on
// success. Expired codes are left in place and reported as expired; consumed
// codes are gone, so a concurrent duplicate verification loses the delete
// race and fails like any wrong code.
func (s *AuthService) VerifyCode(email, code string) (*VerifyCodeResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	code = strings.TrimSpace(code)

	if email == "" || code == "" {
		return nil, fmt.Errorf("email and code are required: %w", ErrInvalidInput)
	}

	record, err := s.codes.Find(email, code)
	if err != nil {
		if errors.Is(err, repository.ErrAuthCodeNotFound) {
			return nil, ErrInvalidCredential
		}
		return nil, fmt.Errorf("failed to look up code: %w", err)
	}

	if record.IsExpired(time.Now()) {
		return nil, ErrCodeExpired
	}

	removed, err := s.codes.Consume(email, code)
	if err != nil {
		return nil, fmt.Errorf("failed to consume code: %w", err)
	}
	if removed == 0 {
		// Another request consumed the code between Find and Consume
		return nil, ErrInvalidCredential
	}

	result := &VerifyCodeResult{UserID: email}

	// Pro is optional here: absence of an entitlement is not an auth failure
	ent, err := s.entitlements.Find(email, "")
	if err == nil {
		userID := ""
		if ent.UserID != nil {
			userID = *ent.UserID
		}
		token, mintErr := s.tokens.Mint(userID, email)
		if mintErr != nil {
			return nil, fmt.Errorf("failed to mint token: %w", mintErr)
		}
		result.ProToken = &token
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	slog.Info("login code verified", "email", email, "pro", result.ProToken != nil)
	return result, nil
}

// generateCode returns a uniformly random 6-digit code, zero-padded.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
