package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "shopware.db", cfg.DatabaseURL)
	assert.Equal(t, 15*60, cfg.JWTExpiration)
	assert.Equal(t, 7*24*60*60, cfg.RefreshExpiration)
	assert.Equal(t, 6, cfg.OTPLength)
	assert.Equal(t, 3, cfg.TxMaxRetries)
	assert.True(t, cfg.AllowAllOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_EXPIRATION", "600")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("ALLOW_ALL_ORIGINS", "false")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 600, cfg.JWTExpiration)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.False(t, cfg.AllowAllOrigins)
}

func TestValidate(t *testing.T) {
	cfg := Load()
	require.NoError(t, cfg.Validate())

	cfg.JWTSecret = ""
	assert.Error(t, cfg.Validate())

	cfg = Load()
	cfg.Environment = "staging"
	assert.Error(t, cfg.Validate())
}
