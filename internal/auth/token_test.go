// ABOUTME: Tests for JWT issuance and verification
// ABOUTME: Validates round-trips, expiry, wrong-secret and malformed tokens

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_IssueAndVerify(t *testing.T) {
	m := NewJWTManager([]byte("test-secret"), time.Hour)

	token, err := m.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestJWTManager_Verify_WrongSecret(t *testing.T) {
	issuer := NewJWTManager([]byte("secret-a"), time.Hour)
	verifier := NewJWTManager([]byte("secret-b"), time.Hour)

	token, err := issuer.Issue("user-123")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_Verify_Expired(t *testing.T) {
	m := NewJWTManager([]byte("test-secret"), time.Hour)

	// Hand-craft an already-expired token with the same secret
	claims := jwt.MapClaims{
		"sub": "user-123",
		"iat": time.Now().Add(-2 * time.Hour).Unix(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = m.Verify(signed)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTManager_Verify_MissingSubject(t *testing.T) {
	m := NewJWTManager([]byte("test-secret"), time.Hour)

	claims := jwt.MapClaims{
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = m.Verify(signed)
	assert.ErrorIs(t, err, ErrMissingClaim)
}

func TestJWTManager_Verify_Garbage(t *testing.T) {
	m := NewJWTManager([]byte("test-secret"), time.Hour)

	_, err := m.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_DefaultTTL(t *testing.T) {
	m := NewJWTManager([]byte("test-secret"), 0)

	token, err := m.Issue("user-123")
	require.NoError(t, err)

	userID, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}
