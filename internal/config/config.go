// Package config loads runtime configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config is everything the api binary needs to run.
type Config struct {
	Port           string
	DBPath         string
	GeminiModel    string
	ExtractTimeout time.Duration
	ArchiveBucket  string
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in when present.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getenv("PORT", "8080"),
		DBPath:         getenv("DB_PATH", "networth.db"),
		GeminiModel:    getenv("GEMINI_MODEL", ""),
		ExtractTimeout: 30 * time.Second,
		ArchiveBucket:  os.Getenv("ARCHIVE_BUCKET"),
	}

	if raw := os.Getenv("EXTRACT_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid EXTRACT_TIMEOUT %q: %w", raw, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("EXTRACT_TIMEOUT must be positive, got %q", raw)
		}
		cfg.ExtractTimeout = d
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
