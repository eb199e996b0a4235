package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultDatabaseDSN   = "host=localhost user=postgres password=postgres dbname=jobmarket port=5432 sslmode=disable"
	defaultSessionSecret = "dev-secret-key"
	defaultCORSOrigins   = "http://localhost:5173"
)

type Config struct {
	HTTPPort        string
	DatabaseDSN     string
	SessionSecret   string
	SessionTTL      time.Duration
	CookieSecure    bool
	CORSOrigins     string
	RedisURL        string // empty: login throttling stays in memory
	LoginRateLimit  int
	LoginRateWindow time.Duration
}

func Load() *Config {
	// .env is optional, real environment wins
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:     getEnv("DATABASE_DSN", defaultDatabaseDSN),
		SessionSecret:   getEnv("SESSION_SECRET", defaultSessionSecret),
		SessionTTL:      getDuration("SESSION_TTL", 24*time.Hour),
		CookieSecure:    getBool("COOKIE_SECURE", false),
		CORSOrigins:     getEnv("CORS_ALLOWED_ORIGINS", defaultCORSOrigins),
		RedisURL:        getEnv("REDIS_URL", ""),
		LoginRateLimit:  getInt("LOGIN_RATE_LIMIT", 10),
		LoginRateWindow: getDuration("LOGIN_RATE_WINDOW", time.Minute),
	}

	if cfg.SessionSecret == defaultSessionSecret {
		log.Println("[WARN] SESSION_SECRET is using the development default, set your own secret in production.")
	}
	if cfg.DatabaseDSN == defaultDatabaseDSN {
		log.Println("[WARN] DATABASE_DSN is using the development default, set your own Postgres DSN in production.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("[WARN] %s is invalid (%q), falling back to %d", key, v, def)
		return def
	}
	return n
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("[WARN] %s is invalid (%q), falling back to %s", key, v, def)
		return def
	}
	return d
}

func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("[WARN] %s is invalid (%q), falling back to %t", key, v, def)
		return def
	}
	return b
}
