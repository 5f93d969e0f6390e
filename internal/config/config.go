// Package config loads client configuration from ~/.enclypt/config.toml
// with environment variable overrides. A missing file is not an error — the
// defaults point at the hosted service.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the complete client configuration.
type Config struct {
	// APIURL is the base URL of the Enclypt API server.
	APIURL string `toml:"api_url"`
	// BaseURL is the base URL of the Enclypt website (legal pages, offline
	// unlocker downloads).
	BaseURL string `toml:"base_url"`
	// TimeoutSeconds is the per-request deadline for API calls.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIURL:         "https://api.enclypt.io",
		BaseURL:        "https://enclypt.io",
		TimeoutSeconds: 30,
	}
}

// DefaultPath returns ~/.enclypt/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".enclypt", "config.toml"), nil
}

// Load reads the config file at the default path and applies environment
// overrides (ENCLYPT_API_URL, ENCLYPT_BASE_URL).
func Load() (Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return applyEnv(Default()), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config file at an explicit path, for tests and for the
// ENCLYPT_CONFIG escape hatch. A missing file yields the defaults.
func LoadFrom(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	cfg = applyEnv(cfg)
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = Default().TimeoutSeconds
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg, nil
}

func applyEnv(cfg Config) Config {
	if v := os.Getenv("ENCLYPT_API_URL"); v != "" {
		cfg.APIURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("ENCLYPT_BASE_URL"); v != "" {
		cfg.BaseURL = strings.TrimRight(v, "/")
	}
	return cfg
}

// Timeout returns the request deadline as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
