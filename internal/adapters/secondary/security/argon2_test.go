package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/circle/internal/core/domain"
)

func TestArgon2_HashAndCompare(t *testing.T) {
	h := NewArgon2Hasher()

	hash, err := h.Hash("secret123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	assert.NoError(t, h.Compare(hash, "secret123"))
	assert.ErrorIs(t, h.Compare(hash, "wrong"), domain.ErrInvalidCredentials)
}

func TestArgon2_UniqueSalt(t *testing.T) {
	h := NewArgon2Hasher()

	a, err := h.Hash("secret123")
	require.NoError(t, err)
	b, err := h.Hash("secret123")
	require.NoError(t, err)

	// Sel aléatoire : même mot de passe, hashs différents.
	assert.NotEqual(t, a, b)
	assert.NoError(t, h.Compare(a, "secret123"))
	assert.NoError(t, h.Compare(b, "secret123"))
}

func TestArgon2_MalformedHash(t *testing.T) {
	h := NewArgon2Hasher()

	assert.Error(t, h.Compare("not-a-phc-string", "secret123"))
	assert.Error(t, h.Compare("$bcrypt$whatever", "secret123"))
}
