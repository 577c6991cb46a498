package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	raw, err := issuer.Issue("user-1", "tech@example.com", "technician")
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := issuer.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "tech@example.com", claims.Email)
	assert.Equal(t, "technician", claims.Role)
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)

	raw, err := issuer.Issue("user-1", "tech@example.com", "technician")
	require.NoError(t, err)

	_, err = issuer.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_RejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	other := NewTokenIssuer("another-secret", time.Hour)

	raw, err := issuer.Issue("user-1", "tech@example.com", "technician")
	require.NoError(t, err)

	_, err = other.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_RejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	_, err := issuer.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Verify("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_TTLSeconds(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 24*time.Hour)
	assert.Equal(t, 86400, issuer.TTLSeconds())
}
