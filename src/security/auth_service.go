// Package security implements the authentication gate in front of the
// transaction API: HTTP Basic credentials checked against a bcrypt-hashed
// user table, plus short-lived bearer tokens issued in exchange for them.
package security

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/username/momoledger/src/logger"
)

var (
	ErrMissingAuthorization = errors.New("authorization header required")
	ErrInvalidCredentials   = errors.New("username or password incorrect")
	ErrInvalidToken         = errors.New("invalid or expired token")
)

type AuthService struct {
	users       map[string][]byte // username -> bcrypt hash
	jwtSecret   []byte
	tokenExpiry time.Duration
}

// NewAuthService builds the gate from the configured user table. Entries
// whose secret is not already a bcrypt hash are hashed here, so the env
// can hold either form.
func NewAuthService(users map[string]string, jwtSecret string, tokenExpiry time.Duration) (*AuthService, error) {
	hashed := make(map[string][]byte, len(users))
	for name, secret := range users {
		if strings.HasPrefix(secret, "$2a$") || strings.HasPrefix(secret, "$2b$") || strings.HasPrefix(secret, "$2y$") {
			hashed[name] = []byte(secret)
			continue
		}
		h, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hashing password for user %s: %w", name, err)
		}
		logger.L.Warn("AUTH_USERS entry holds a plaintext password, hashed at startup", "user", name)
		hashed[name] = h
	}
	return &AuthService{
		users:       hashed,
		jwtSecret:   []byte(jwtSecret),
		tokenExpiry: tokenExpiry,
	}, nil
}

// Authenticate validates an Authorization header and returns the
// authenticated username. Both Basic credentials and Bearer tokens are
// accepted; a typed error explains any denial.
func (s *AuthService) Authenticate(authHeader string) (string, error) {
	switch {
	case authHeader == "":
		return "", ErrMissingAuthorization
	case strings.HasPrefix(authHeader, "Basic "):
		return s.checkBasic(strings.TrimPrefix(authHeader, "Basic "))
	case strings.HasPrefix(authHeader, "Bearer "):
		return s.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
	default:
		return "", ErrInvalidCredentials
	}
}

func (s *AuthService) checkBasic(encoded string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return "", ErrInvalidCredentials
	}

	hash, exists := s.users[username]
	if !exists {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return username, nil
}

// IssueToken signs a short-lived HS256 token for an already-authenticated
// user.
func (s *AuthService) IssueToken(username string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExpiry)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("signing token for user %s: %w", username, err)
	}
	return signed, nil
}

// ValidateToken checks a bearer token and returns its subject.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
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

// TokenExpiry exposes the configured token lifetime for response bodies.
func (s *AuthService) TokenExpiry() time.Duration {
	return s.tokenExpiry
}
