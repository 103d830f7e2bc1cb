// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles,
// optionally seeded from a local .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"false"`

	// Cache (Redis). Empty disables the session cache and rate limiting.
	RedisURL        string        `env:"REDIS_URL" envDefault:""`
	SessionCacheTTL time.Duration `env:"SESSION_CACHE_TTL" envDefault:"5m"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Minimum wall time of the auth middleware, hides token lookup timing.
	AuthMinDuration time.Duration `env:"AUTH_MIN_DURATION" envDefault:"100ms"`

	// Rate limiting
	RateLimitUserEnabled   bool `env:"RATE_LIMIT_USER_ENABLED" envDefault:"true"`
	RateLimitUserRPM       int  `env:"RATE_LIMIT_USER_RPM" envDefault:"600"`
	RateLimitUserBurst     int  `env:"RATE_LIMIT_USER_BURST" envDefault:"50"`
	RateLimitPublicEnabled bool `env:"RATE_LIMIT_PUBLIC_ENABLED" envDefault:"true"`
	RateLimitPublicRPS     int  `env:"RATE_LIMIT_PUBLIC_RPS" envDefault:"5"`
	RateLimitPublicBurst   int  `env:"RATE_LIMIT_PUBLIC_BURST" envDefault:"10"`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g., "https://example.com,https://app.example.com")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`

	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// RedisEnabled reports whether a Redis URL was configured.
func (c *Config) RedisEnabled() bool {
	return strings.TrimSpace(c.RedisURL) != ""
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Load reads .env (if present) and parses environment variables into a Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	return LoadFiles(".env")
}

// LoadFiles is Load with explicit dotenv files. Missing files are skipped and
// variables already present in the environment are never overridden.
func LoadFiles(files ...string) (*Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
