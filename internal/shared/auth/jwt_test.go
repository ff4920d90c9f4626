package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	s, err := NewSigner("secret", time.Hour)
	require.NoError(t, err)

	token, err := s.Sign(Claims{Sub: "admin-1", Email: "admin@cozetik.fr", Role: RoleAdmin})
	require.NoError(t, err)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.Sub)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Greater(t, claims.Exp, claims.Iat)
}

func TestVerifyRejectsTamperingAndExpiry(t *testing.T) {
	s, err := NewSigner("secret", time.Hour)
	require.NoError(t, err)
	token, err := s.Sign(Claims{Sub: "admin-1", Role: RoleAdmin})
	require.NoError(t, err)

	other, err := NewSigner("other", time.Hour)
	require.NoError(t, err)
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.Verify(strings.TrimSuffix(token, token[len(token)-2:]))
	assert.ErrorIs(t, err, ErrInvalidToken)

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewSignerRequiresSecret(t *testing.T) {
	_, err := NewSigner("  ", 0)
	assert.ErrorIs(t, err, ErrMissingSecret)
}
