package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService mints and verifies the signed Pro assertions that gate
// protected endpoints. Tokens are stateless: identity and entitlement travel
// in the claims, nothing is persisted.
type TokenService struct {
	secret   string
	issuer   string
	audience string
	expiry   time.Duration
}

// TokenInfo is the verified view of a token's claims. Pro reflects the
// embedded claim as-is; verification never assumes it is true.
type TokenInfo struct {
	Pro       bool
	Email     string
	ExpiresAt time.Time
}

func NewTokenService(secret, issuer, audience string, expiry time.Duration) *TokenService {
	return &TokenService{
		secret:   secret,
		issuer:   issuer,
		audience: audience,
		expiry:   expiry,
	}
}

// Mint issues a Pro token. Callers only reach this after confirming an
// entitlement, so the pro claim is always set. Subject falls back from
// userID to email to "anon".
func (s *TokenService) Mint(userID, email string) (string, error) {
	sub := userID
	if sub == "" {
		sub = email
	}
	if sub == "" {
		sub = "anon"
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   sub,
		"email": email,
		"pro":   true,
		"iss":   s.issuer,
		"aud":   s.audience,
		"iat":   now.Unix(),
		"exp":   now.Add(s.expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Verify checks signature, issuer, audience and expiry. Any failure collapses
// to ErrInvalidToken; an eligible-but-unentitled token (pro=false) still
// verifies cleanly.
func (s *TokenService) Verify(tokenString string) (*TokenInfo, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	info := &TokenInfo{}
	if pro, ok := claims["pro"].(bool); ok {
		info.Pro = pro
	}
	if email, ok := claims["email"].(string); ok {
		info.Email = email
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}

	return info, nil
}
