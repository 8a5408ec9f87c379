package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Empty(t, cfg.DatabaseDSN)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("FUNDKEEPER_ADDR", ":9999")
	t.Setenv("FUNDKEEPER_DATABASE_DSN", "postgres://x")
	t.Setenv("FUNDKEEPER_TOKEN_TTL", "1h")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "postgres://x", cfg.DatabaseDSN)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
}
