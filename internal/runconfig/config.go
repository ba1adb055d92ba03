// Package runconfig assembles runtime configuration from environment
// variables (loaded via godotenv, best-effort) and CLI flags, mirroring
// the teacher's cmd/api/main.go pattern of a best-effort .env load
// followed by explicit overrides.
package runconfig

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/phuslu/log"
)

// Config holds the knobs the edgarfetch/filingcache/batchdriver
// collaborators need at runtime.
type Config struct {
	UserAgent      string // SEC-required contact string, e.g. "Example Co contact@example.com"
	CacheRoot      string
	RateLimitPerS  float64
	RetryAttempts  int
	RequestTimeout int // seconds
}

const (
	defaultUserAgent    = "sec-narrative-drift contact@example.com"
	defaultCacheRoot    = "./.sec-cache"
	defaultRateLimit    = 10.0
	defaultRetries      = 5
	defaultTimeoutSecs  = 30
)

// Load reads a .env file if present (a missing file is not an error,
// only logged at debug level) and then environment variables, returning
// a Config with defaults for anything unset.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	cfg := Config{
		UserAgent:      envOr("SEC_USER_AGENT", defaultUserAgent),
		CacheRoot:      envOr("SEC_CACHE_ROOT", defaultCacheRoot),
		RateLimitPerS:  envFloatOr("SEC_RATE_LIMIT_PER_S", defaultRateLimit),
		RetryAttempts:  envIntOr("SEC_RETRY_ATTEMPTS", defaultRetries),
		RequestTimeout: envIntOr("SEC_REQUEST_TIMEOUT_SECONDS", defaultTimeoutSecs),
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
