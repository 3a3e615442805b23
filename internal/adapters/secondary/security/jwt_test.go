package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/circle/internal/core/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testUser(t *testing.T) *domain.User {
	t.Helper()
	u, err := domain.NewUser("alice@example.com", "Alice", "hash")
	require.NoError(t, err)
	return u
}

func TestJWT_RoundTrip(t *testing.T) {
	p, err := NewJWTProvider(testSecret, time.Hour)
	require.NoError(t, err)
	u := testUser(t)

	token, err := p.Generate(u)
	require.NoError(t, err)

	userID, err := p.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
}

func TestJWT_ShortSecretRejected(t *testing.T) {
	_, err := NewJWTProvider("too-short", time.Hour)
	assert.Error(t, err)
}

func TestJWT_Expired(t *testing.T) {
	p, err := NewJWTProvider(testSecret, -time.Minute)
	require.NoError(t, err)

	token, err := p.Generate(testUser(t))
	require.NoError(t, err)

	_, err = p.Validate(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestJWT_WrongSecret(t *testing.T) {
	issuer, err := NewJWTProvider(testSecret, time.Hour)
	require.NoError(t, err)
	verifier, err := NewJWTProvider("ffffffffffffffffffffffffffffffff", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Generate(testUser(t))
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestJWT_Garbage(t *testing.T) {
	p, err := NewJWTProvider(testSecret, time.Hour)
	require.NoError(t, err)

	_, err = p.Validate("definitely.not.a.jwt")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
