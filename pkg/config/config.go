// Package config loads client configuration from the environment, with
// optional .env file support for local development.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	envBaseURL = "ADMINKIT_BASE_URL"
	envToken   = "ADMINKIT_TOKEN"
	envTimeout = "ADMINKIT_TIMEOUT"

	defaultTimeout = 30 * time.Second
)

// Config carries everything needed to construct a client.
type Config struct {
	// BaseURL is the API origin, e.g. "https://api.example.com". Required.
	BaseURL string
	// Token is the bearer token for authenticated calls. Optional; tools
	// that sign in at runtime set it later.
	Token string
	// Timeout bounds each request. Defaults to 30s.
	Timeout time.Duration
}

// Load reads the configuration from the process environment. A .env file in
// the working directory is loaded first when present; real environment
// variables win over file values.
func Load() (Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit .env path. A missing file is not an
// error, only a missing ADMINKIT_BASE_URL is.
func LoadFile(path string) (Config, error) {
	if _, err := os.Stat(path); err == nil {
		// godotenv never overrides variables that are already set.
		if err := godotenv.Load(path); err != nil {
			return Config{}, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	cfg := Config{
		BaseURL: os.Getenv(envBaseURL),
		Token:   os.Getenv(envToken),
		Timeout: defaultTimeout,
	}
	if cfg.BaseURL == "" {
		return Config{}, fmt.Errorf("%s is not set", envBaseURL)
	}
	if raw := os.Getenv(envTimeout); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", envTimeout, err)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}
