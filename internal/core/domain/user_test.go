package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser("  Alice@Example.COM ", "  Alice  ", "hash")
	require.NoError(t, err)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "Alice", u.Name)
	// Avatar déterministe dérivé de l'email normalisé.
	assert.Contains(t, u.Avatar, "gravatar.com/avatar/")
	assert.Contains(t, u.Avatar, "s=200&r=pg&d=mm")
	assert.False(t, u.CreatedAt.IsZero())
}

func TestNewUser_Invalid(t *testing.T) {
	_, err := NewUser("not-an-email", "Alice", "hash")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = NewUser("alice@example.com", " a ", "hash")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestNewUser_SameEmailSameAvatar(t *testing.T) {
	a, err := NewUser("alice@example.com", "Alice", "h1")
	require.NoError(t, err)
	b, err := NewUser("ALICE@example.com", "Alias", "h2")
	require.NoError(t, err)

	assert.Equal(t, a.Avatar, b.Avatar)
	assert.NotEqual(t, a.ID, b.ID)
}
