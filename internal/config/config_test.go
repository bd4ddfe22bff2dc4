package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "AUTH_OTP_TTL_MINUTES", "MAIL_BACKEND", "RATE_LIMIT_ENABLED", "REDIS_DB"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 10*time.Minute, cfg.Auth.OTPTTL())
	assert.Equal(t, "console", cfg.Mail.Backend)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 0, cfg.Redis.DB)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_HOST", "127.0.0.1")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("AUTH_OTP_TTL_MINUTES", "15")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "5")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("AUTH_BCRYPT_COST", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.App.Addr())
	assert.Equal(t, 15*time.Minute, cfg.Auth.OTPTTL())
	assert.Equal(t, 5*time.Second, cfg.App.RequestTimeout())
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "one")
	_, err := Load()
	assert.Error(t, err)
}

func TestTTLFallbacks(t *testing.T) {
	var a AuthConfig
	assert.Equal(t, time.Hour, a.AccessTTL())
	assert.Equal(t, 24*time.Hour, a.RefreshTTL())
	assert.Equal(t, 10*time.Minute, a.OTPTTL())

	var app AppConfig
	assert.Zero(t, app.RequestTimeout())
}
