package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenTTL is how long an issued access token stays valid.
const TokenTTL = 30 * 24 * time.Hour

// Manager issues and verifies the HS256 access tokens the API uses. Clients
// exchange the shared access code for a token scoped to their user id.
type Manager struct {
	secret     []byte
	accessCode string
}

func NewManager(secret, accessCode string) *Manager {
	return &Manager{secret: []byte(secret), accessCode: accessCode}
}

// CheckAccessCode reports whether the presented code matches the configured one.
func (m *Manager) CheckAccessCode(code string) bool {
	return code != "" && code == m.accessCode
}

// Issue creates a signed token for the given user id.
func (m *Manager) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning the user id it was issued to.
func (m *Manager) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.secret, nil
		})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
