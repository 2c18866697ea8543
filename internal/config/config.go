// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	// Hosted platform (data API, auth, storage, functions)
	PlatformURL        string `env:"SX_PLATFORM_URL,required"`
	PlatformAnonKey    string `env:"SX_PLATFORM_ANON_KEY,required"`
	PlatformServiceKey string `env:"SX_PLATFORM_SERVICE_KEY"`
	StorageBucket      string `env:"SX_STORAGE_BUCKET" envDefault:"public-images"`

	SessionSecret string `env:"SX_SESSION_SECRET,required"`
	DBPath        string `env:"SX_DB_PATH" envDefault:"./data/sarangxanh.db"`
	ServerHost    string `env:"SX_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"SX_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"SX_ENV" envDefault:"development"`
	LogLevel      string `env:"SX_LOG_LEVEL" envDefault:"info"`

	// BaseURL is the public origin of this site, used for OAuth redirect
	// targets and checkout return URLs.
	BaseURL string `env:"SX_BASE_URL" envDefault:"http://localhost:8080"`

	// Cache configuration
	RedisURL     string `env:"SX_REDIS_URL"`                        // Optional Redis URL for distributed caching
	CachePrefix  string `env:"SX_CACHE_PREFIX" envDefault:"sx:"`    // Redis key prefix
	CacheTTL     int    `env:"SX_CACHE_TTL" envDefault:"300"`       // Default cache TTL in seconds
	CacheMaxSize int    `env:"SX_CACHE_MAX_SIZE" envDefault:"1000"` // Max memory cache entries

	// StatsWarmSchedule is the cron expression for re-priming the cached
	// impact statistics. Empty disables the job.
	StatsWarmSchedule string `env:"SX_STATS_WARM_SCHEDULE" envDefault:"@hourly"`

	// Payment checkout service (not active yet; calls fail with a clear
	// "not configured" error while these are unset)
	CheckoutURL    string `env:"SX_CHECKOUT_URL"`
	CheckoutSecret string `env:"SX_CHECKOUT_SECRET"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// CheckoutEnabled returns true if the payment checkout service is configured.
func (c Config) CheckoutEnabled() bool {
	return c.CheckoutURL != "" && c.CheckoutSecret != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("SX_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("SX_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("SX_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if _, err := url.Parse(cfg.PlatformURL); err != nil {
		return nil, fmt.Errorf("SX_PLATFORM_URL is not a valid URL: %w", err)
	}
	cfg.PlatformURL = strings.TrimRight(cfg.PlatformURL, "/")
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
