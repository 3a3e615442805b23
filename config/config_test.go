package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_TokenTTL(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Hour, cfg.TokenTTL)

	t.Setenv("TOKEN_TTL_HOURS", "2")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)

	// Valeur illisible : on retombe sur le défaut plutôt que d'échouer.
	t.Setenv("TOKEN_TTL_HOURS", "soon")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Hour, cfg.TokenTTL)
}

func TestLoad_ProdRequiresRealSecret(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "a-real-secret-at-least-32-characters!")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Env)
}
