package security

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) *AuthService {
	t.Helper()
	svc, err := NewAuthService(map[string]string{
		"admin":   "password123",
		"student": "momo2024",
	}, "test-secret-key", time.Hour)
	require.NoError(t, err)
	return svc
}

func basicHeader(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

func TestAuthenticateBasic(t *testing.T) {
	svc := newTestService(t)

	user, err := svc.Authenticate(basicHeader("admin", "password123"))
	require.NoError(t, err)
	assert.Equal(t, "admin", user)
}

func TestAuthenticateBasicWrongPassword(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Authenticate(basicHeader("admin", "wrong"))
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateUnknownUser(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Authenticate(basicHeader("hacker", "123"))
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateMissingHeader(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Authenticate("")
	assert.ErrorIs(t, err, ErrMissingAuthorization)
}

func TestAuthenticateMalformed(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Authenticate("Basic not-base64!!!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate("Digest something")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Credentials without a colon decode fine but are not usable.
	_, err = svc.Authenticate("Basic " + base64.StdEncoding.EncodeToString([]byte("no-colon")))
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestService(t)

	token, err := svc.IssueToken("student")
	require.NoError(t, err)

	user, err := svc.Authenticate("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "student", user)
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	svc := newTestService(t)

	token, err := svc.IssueToken("student")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	svc := newTestService(t)

	other, err := NewAuthService(map[string]string{"admin": "password123"}, "other-secret", time.Hour)
	require.NoError(t, err)

	token, err := other.IssueToken("admin")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewAuthServiceAcceptsPrecomputedHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.DefaultCost)
	require.NoError(t, err)

	svc, err := NewAuthService(map[string]string{"ops": string(hash)}, "k", time.Hour)
	require.NoError(t, err)

	user, err := svc.Authenticate(basicHeader("ops", "secret"))
	require.NoError(t, err)
	assert.Equal(t, "ops", user)
}
