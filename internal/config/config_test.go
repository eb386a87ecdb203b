package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("S3_PRESIGN_TTL", "")
	t.Setenv("LOGIN_RATE_BURST", "")
	t.Setenv("TRUST_PROXY", "")

	cfg := Load()
	assert.Equal(t, "3000", cfg.AppPort)
	assert.Equal(t, 15*time.Minute, cfg.S3PresignTTL)
	assert.Equal(t, 10, cfg.LoginRateBurst)
	assert.Equal(t, "notifications", cfg.DynamoTables.Notifications)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.False(t, cfg.TrustProxy)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("S3_PRESIGN_TTL", "90")
	t.Setenv("LOGIN_RATE_PER_SEC", "2.5")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("TRUST_PROXY", "true")

	cfg := Load()
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, 90*time.Second, cfg.S3PresignTTL)
	assert.Equal(t, 2.5, cfg.LoginRatePerSec)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.TrustProxy)
}

func TestGetEnvDuration_InvalidFallsBack(t *testing.T) {
	t.Setenv("SOME_TTL", "soon")
	assert.Equal(t, time.Minute, getEnvDuration("SOME_TTL", time.Minute))
}
