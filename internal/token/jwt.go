package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Verification failure reasons. Both surface as the same 401 externally, but
// callers can tell them apart with errors.Is.
var (
	ErrExpired = errors.New("token expired")
	ErrInvalid = errors.New("token invalid")
)

// Service issues and verifies signed session tokens. The signing secret is
// process-wide and read-only after initialization, so a Service is safe for
// concurrent use.
type Service struct {
	secretKey  []byte
	sessionTTL time.Duration
}

// NewService creates a new token service
func NewService(secretKey string, sessionTTL time.Duration) *Service {
	return &Service{
		secretKey:  []byte(secretKey),
		sessionTTL: sessionTTL,
	}
}

// Issue signs a session token embedding the identity claims with the
// configured validity window. The token is immutable once issued and is
// invalidated only by expiry.
func (s *Service) Issue(userID int64, email, role string, alunoID int64) (string, time.Time, error) {
	now := time.Now()
	expiry := now.Add(s.sessionTTL)

	claims := Claims{
		UserID:  userID,
		Email:   email,
		Role:    role,
		AlunoID: alunoID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "alunos-api",
			Subject:   fmt.Sprintf("%d", userID),
			ID:        uuid.New().String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiry, nil
}

// Verify checks the signature and expiration of a session token and returns
// the decoded identity. Expired tokens fail with ErrExpired regardless of
// signature validity; any signature or format failure yields ErrInvalid.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalid
	}

	return claims, nil
}
