// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string for the route cache. Required.
	DatabaseURL string

	// RedisAddr is the host:port of the Redis server holding selection
	// sessions. Defaults to "localhost:6379".
	RedisAddr string

	// RedisPassword is the Redis AUTH password. Empty means no auth.
	RedisPassword string

	// PlanAPIURL is the base URL of the plan storage service. Required.
	PlanAPIURL string

	// DirectionsAPIKey is the API key for the directions provider. Required.
	DirectionsAPIKey string

	// DirectionsBaseURL overrides the directions provider base URL.
	// Empty means the provider default; tests point it at a local stub.
	DirectionsBaseURL string

	// JWTSecret is the HMAC secret used to verify bearer tokens. Required.
	JWTSecret string

	// SessionTTL is how long an idle selection session survives in Redis
	// before expiring. Defaults to 24h. Set SESSION_TTL to a Go duration
	// string to override.
	SessionTTL time.Duration

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		DirectionsBaseURL: os.Getenv("DIRECTIONS_BASE_URL"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		CORSOrigins:       splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
	}

	ttl := getEnv("SESSION_TTL", "24h")
	d, err := time.ParseDuration(ttl)
	if err != nil {
		return Config{}, fmt.Errorf("invalid SESSION_TTL %q: %w", ttl, err)
	}
	cfg.SessionTTL = d

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.PlanAPIURL = os.Getenv("PLAN_API_URL")
	if cfg.PlanAPIURL == "" {
		missing = append(missing, "PLAN_API_URL")
	}

	cfg.DirectionsAPIKey = os.Getenv("DIRECTIONS_API_KEY")
	if cfg.DirectionsAPIKey == "" {
		missing = append(missing, "DIRECTIONS_API_KEY")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
