package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the staking lens services
type Config struct {
	// Upstream data
	DataBaseURL  string
	StakerLogURL string

	// HTTP server
	ListenAddr string

	// Persistence (both optional; empty means in-memory stores)
	PostgresDSN   string
	ClickhouseDSN string

	// Manifest polling
	ManifestPollInterval time.Duration

	// Logging configuration
	LogLevel string
}

// Load reads configuration from environment variables and validates it
func Load() (Config, error) {
	cfg := Config{
		DataBaseURL:   getEnv("DATA_BASE_URL", ""),
		StakerLogURL:  getEnv("STAKER_LOG_URL", ""),
		ListenAddr:    getEnv("LISTEN_ADDR", ":8080"),
		PostgresDSN:   getEnv("POSTGRES_DSN", ""),
		ClickhouseDSN: getEnv("CLICKHOUSE_DSN", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	interval, err := parseDurationEnv("MANIFEST_POLL_INTERVAL", 5*time.Minute)
	if err != nil {
		return cfg, fmt.Errorf("invalid MANIFEST_POLL_INTERVAL: %w", err)
	}
	cfg.ManifestPollInterval = interval

	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks that the configuration is valid
func (c Config) validate() error {
	if c.DataBaseURL == "" {
		return fmt.Errorf("DATA_BASE_URL is required")
	}

	if c.StakerLogURL == "" {
		return fmt.Errorf("STAKER_LOG_URL is required")
	}

	if c.ManifestPollInterval < time.Second {
		return fmt.Errorf("MANIFEST_POLL_INTERVAL must be at least 1s")
	}

	validLogLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
		"panic": true,
	}

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid LOG_LEVEL: %s (must be one of: trace, debug, info, warn, error, fatal, panic)", c.LogLevel)
	}

	return nil
}

// getEnv retrieves an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDurationEnv parses a duration environment variable with a default value
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	str := os.Getenv(key)
	if str == "" {
		return defaultValue, nil
	}
	// Accept either a Go duration string or bare seconds.
	if d, err := time.ParseDuration(str); err == nil {
		return d, nil
	}
	secs, err := strconv.Atoi(str)
	if err != nil {
		return 0, err
	}
	return time.Duration(secs) * time.Second, nil
}
