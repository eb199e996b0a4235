package config

import (
	"bytes"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"HTTP_PORT", "DATABASE_DSN", "SESSION_SECRET", "SESSION_TTL", "REDIS_URL", "LOGIN_RATE_LIMIT", "LOGIN_RATE_WINDOW", "COOKIE_SECURE"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, defaultDatabaseDSN, cfg.DatabaseDSN)
	assert.Equal(t, defaultSessionSecret, cfg.SessionSecret)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10, cfg.LoginRateLimit)
	assert.Equal(t, time.Minute, cfg.LoginRateWindow)
	assert.False(t, cfg.CookieSecure)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://u:p@db:5432/jobs")
	t.Setenv("SESSION_SECRET", "a-much-longer-production-secret")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("LOGIN_RATE_LIMIT", "3")
	t.Setenv("COOKIE_SECURE", "true")

	cfg := Load()

	assert.Equal(t, "postgres://u:p@db:5432/jobs", cfg.DatabaseDSN)
	assert.Equal(t, "a-much-longer-production-secret", cfg.SessionSecret)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 3, cfg.LoginRateLimit)
	assert.True(t, cfg.CookieSecure)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("LOGIN_RATE_LIMIT", "many")
	t.Setenv("LOGIN_RATE_WINDOW", "-5s")

	cfg := Load()

	assert.Equal(t, 10, cfg.LoginRateLimit)
	assert.Equal(t, time.Minute, cfg.LoginRateWindow)
}

func TestInvalidBoolWarns(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	t.Setenv("COOKIE_SECURE", "maybe")
	assert.True(t, getBool("COOKIE_SECURE", true))
	assert.Contains(t, buf.String(), "[WARN] COOKIE_SECURE is invalid")

	buf.Reset()
	t.Setenv("COOKIE_SECURE", "1")
	assert.True(t, getBool("COOKIE_SECURE", false))
	assert.Empty(t, buf.String())
}
