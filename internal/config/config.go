// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration. ServerURL and ClientToken are
// optional: when both are set they seed the credential store, standing in
// for the QR pairing flow.
type Config struct {
	ServerURL    string
	ClientToken  string
	ServerName   string
	DatabasePath string
	LogLevel     string
	PageLimit    int
	HTTPTimeout  time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		ServerURL:    os.Getenv("DROPLINK_SERVER_URL"),
		ClientToken:  os.Getenv("DROPLINK_CLIENT_TOKEN"),
		ServerName:   os.Getenv("DROPLINK_SERVER_NAME"),
		DatabasePath: os.Getenv("DATABASE_PATH"),
		LogLevel:     os.Getenv("LOG_LEVEL"),
		PageLimit:    30,
		HTTPTimeout:  30 * time.Second,
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "./data/droplink.db"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if raw := os.Getenv("PAGE_LIMIT"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 200 {
			return nil, fmt.Errorf("invalid PAGE_LIMIT %q: must be 1-200", raw)
		}
		cfg.PageLimit = n
	}

	if raw := os.Getenv("HTTP_TIMEOUT_SECONDS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid HTTP_TIMEOUT_SECONDS %q", raw)
		}
		cfg.HTTPTimeout = time.Duration(n) * time.Second
	}

	return cfg, nil
}
