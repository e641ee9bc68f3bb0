// Package config provides application configuration management from environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Store drivers
const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds application configuration
type Config struct {
	APIPort  string
	APIHost  string
	LogLevel string

	// Storage
	DataDir     string
	StoreDriver string
	DatabaseURL string

	// Model access
	AnthropicAPIKey string
	AnthropicModel  string

	// Highlight resolution
	MatchThreshold float64
	MatchTolerance float64
	MatchWorkers   int

	CORSOrigins []string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		APIPort:         getEnv("API_PORT", "8080"),
		APIHost:         getEnv("API_HOST", "0.0.0.0"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DataDir:         getEnv("DATA_DIR", filepath.Join(".", "data")),
		StoreDriver:     strings.ToLower(getEnv("STORE_DRIVER", DriverFile)),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
	}

	var err error
	if cfg.MatchThreshold, err = getEnvFloat("MATCH_THRESHOLD", 0.75); err != nil {
		return nil, err
	}
	if cfg.MatchTolerance, err = getEnvFloat("MATCH_TOLERANCE", 0.5); err != nil {
		return nil, err
	}
	if cfg.MatchWorkers, err = getEnvInt("MATCH_WORKERS", 0); err != nil {
		return nil, err
	}

	switch cfg.StoreDriver {
	case DriverFile, DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
