package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "estatehub", cfg.Mongo.Database)
	assert.Equal(t, "estatehub-media", cfg.Storage.Bucket)
	assert.Equal(t, 24*time.Hour, cfg.Security.JWTTTL)
	assert.Equal(t, 10*time.Minute, cfg.Security.ResetTokenTTL)
	assert.Equal(t, 1000, cfg.RateLimit.Requests)
	assert.Equal(t, time.Hour, cfg.RateLimit.Window)
	assert.True(t, cfg.Mail.DevMode)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ESTATE_HTTP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}
