// Package config provides environment-based configuration for slipway.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ExecutorMode selects how created builds are handed to the build runner.
type ExecutorMode string

const (
	// ExecutorModeQueue enqueues builds into the shared Postgres work queue.
	ExecutorModeQueue ExecutorMode = "queue"
	// ExecutorModeHTTP triggers the remote runner over its HTTP API.
	ExecutorModeHTTP ExecutorMode = "http"
)

// Config holds all configuration for the resolution engine and its API.
type Config struct {
	// Database configuration
	DatabaseDSN string

	// Authentication for the status API
	JWTSecret string
	JWTExpiry time.Duration

	// Build runner hand-off
	ExecutorMode   ExecutorMode
	RunnerEndpoint string
	RunnerToken    string

	// Server configuration
	APIPort int
	APIHost string

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration

	// Resolver configuration
	Resolver ResolverConfig
}

// ResolverConfig holds build-resolution-specific configuration.
type ResolverConfig struct {
	// ExternalBuildWait is how long discovery waits for an externally
	// created build to appear when build creation is disabled for the
	// project. Settable via EXTERNAL_BUILD_WAIT or its legacy alias
	// EXTERNAL_BUILD_WAIT_SECONDS (numeric seconds).
	ExternalBuildWait time.Duration

	// DiscoveryInterval is the sleep between discovery ticks.
	DiscoveryInterval time.Duration

	// CompletionInterval is the sleep between build status re-reads.
	CompletionInterval time.Duration

	// ReleaseRaceWait absorbs the race with a CI webhook creating the same
	// build when a release branch is configured for the project.
	ReleaseRaceWait time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseDSN:     getEnv("DATABASE_URL", "postgres://localhost:5432/slipway?sslmode=disable"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTExpiry:       getDurationEnv("JWT_EXPIRY", 24*time.Hour),
		ExecutorMode:    ExecutorMode(getEnv("EXECUTOR_MODE", string(ExecutorModeQueue))),
		RunnerEndpoint:  getEnv("RUNNER_ENDPOINT", "http://localhost:8090"),
		RunnerToken:     getEnv("RUNNER_TOKEN", ""),
		APIPort:         getIntEnv("API_PORT", 8080),
		APIHost:         getEnv("API_HOST", "0.0.0.0"),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),
		Resolver: ResolverConfig{
			ExternalBuildWait:  externalBuildWait(),
			DiscoveryInterval:  getDurationEnv("DISCOVERY_INTERVAL", 5*time.Second),
			CompletionInterval: getDurationEnv("COMPLETION_INTERVAL", 2*time.Second),
			ReleaseRaceWait:    getDurationEnv("RELEASE_RACE_WAIT", 5*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration values are set.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	switch c.ExecutorMode {
	case ExecutorModeQueue, ExecutorModeHTTP:
	default:
		return fmt.Errorf("EXECUTOR_MODE must be %q or %q, got %q",
			ExecutorModeQueue, ExecutorModeHTTP, c.ExecutorMode)
	}
	return nil
}

// LoadWithDefaults loads configuration with defaults for development.
// It does not validate required fields, useful for testing.
func LoadWithDefaults() *Config {
	return &Config{
		DatabaseDSN:     getEnv("DATABASE_URL", "postgres://localhost:5432/slipway?sslmode=disable"),
		JWTSecret:       getEnv("JWT_SECRET", "development-secret-key-min-32-chars"),
		JWTExpiry:       getDurationEnv("JWT_EXPIRY", 24*time.Hour),
		ExecutorMode:    ExecutorMode(getEnv("EXECUTOR_MODE", string(ExecutorModeQueue))),
		RunnerEndpoint:  getEnv("RUNNER_ENDPOINT", "http://localhost:8090"),
		RunnerToken:     getEnv("RUNNER_TOKEN", ""),
		APIPort:         getIntEnv("API_PORT", 8080),
		APIHost:         getEnv("API_HOST", "0.0.0.0"),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),
		Resolver: ResolverConfig{
			ExternalBuildWait:  externalBuildWait(),
			DiscoveryInterval:  getDurationEnv("DISCOVERY_INTERVAL", 5*time.Second),
			CompletionInterval: getDurationEnv("COMPLETION_INTERVAL", 2*time.Second),
			ReleaseRaceWait:    getDurationEnv("RELEASE_RACE_WAIT", 5*time.Second),
		},
	}
}

// externalBuildWait resolves the external-build wait override. The primary
// name wins over the legacy alias; both take plain seconds.
func externalBuildWait() time.Duration {
	for _, key := range []string{"EXTERNAL_BUILD_WAIT", "EXTERNAL_BUILD_WAIT_SECONDS"} {
		if value := os.Getenv(key); value != "" {
			if seconds, err := strconv.Atoi(value); err == nil {
				return time.Duration(seconds) * time.Second
			}
		}
	}
	return 5 * time.Second
}

// getEnv retrieves an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves an integer environment variable with a default value.
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getDurationEnv retrieves a duration environment variable with a default value.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
