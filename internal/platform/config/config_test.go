package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"BLOODLINK_ADDR", "BACKEND_URL", "SUBMIT_TIMEOUT", "SESSION_TTL", "REDIS_URL", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "http://localhost:3000", cfg.BackendURL)
	assert.Zero(t, cfg.SubmitTimeout, "no submission timeout unless configured")
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("BLOODLINK_ADDR", ":9090")
	t.Setenv("BACKEND_URL", "https://api.example.org")
	t.Setenv("SUBMIT_TIMEOUT", "15s")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("REDIS_POOL_SIZE", "25")
	t.Setenv("SECURE_COOKIES", "true")
	t.Setenv("SESSION_TTL", "not-a-duration")

	cfg := FromEnv()
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "https://api.example.org", cfg.BackendURL)
	assert.Equal(t, 15*time.Second, cfg.SubmitTimeout)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, 25, cfg.Redis.PoolSize)
	assert.True(t, cfg.SecureCookies)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL, "invalid values fall back")
}
