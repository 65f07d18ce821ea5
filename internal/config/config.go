// Package config loads runtime configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Client configures the local agent binary.
type Client struct {
	// DataDir holds the bbolt database files.
	DataDir string

	// ServerURL is the base URL of the system of record.
	ServerURL string

	// AgentAddr is the listen address of the local agent API. Bound to
	// loopback by default; the agent has no auth of its own.
	AgentAddr string

	// DrainInterval is how often the sync runner wakes up.
	DrainInterval time.Duration

	// DrainConcurrency bounds how many users drain at once.
	DrainConcurrency int

	// BatchSize bounds one drain cycle's mutation count per user.
	BatchSize int

	// MaxAttempts is the per-mutation retry budget before dead-lettering.
	MaxAttempts int

	LogLevel string
}

// Server configures the system-of-record binary.
type Server struct {
	// Addr is the listen address, host:port.
	Addr string

	// DatabasePath is the sqlite file path.
	DatabasePath string

	LogLevel string
}

// LoadClient reads client configuration from the environment. A .env file
// in the working directory is merged in first when present.
func LoadClient() (*Client, error) {
	loadDotEnv()

	cfg := &Client{
		DataDir:          envString("REVIEW_DATA_DIR", "./data"),
		ServerURL:        envString("REVIEW_SERVER_URL", "http://localhost:8080"),
		AgentAddr:        envString("REVIEW_AGENT_ADDR", "127.0.0.1:7600"),
		LogLevel:         envString("REVIEW_LOG_LEVEL", "info"),
		DrainConcurrency: 4,
		BatchSize:        25,
		MaxAttempts:      5,
	}

	var err error
	if cfg.DrainInterval, err = envDuration("REVIEW_DRAIN_INTERVAL", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.DrainConcurrency, err = envInt("REVIEW_DRAIN_CONCURRENCY", cfg.DrainConcurrency); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = envInt("REVIEW_BATCH_SIZE", cfg.BatchSize); err != nil {
		return nil, err
	}
	if cfg.MaxAttempts, err = envInt("REVIEW_MAX_ATTEMPTS", cfg.MaxAttempts); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadServer reads server configuration from the environment.
func LoadServer() (*Server, error) {
	loadDotEnv()

	return &Server{
		Addr:         envString("REVIEW_SERVER_ADDR", ":8080"),
		DatabasePath: envString("REVIEW_SERVER_DB", "./review.db"),
		LogLevel:     envString("REVIEW_LOG_LEVEL", "info"),
	}, nil
}

// loadDotEnv merges a .env file if one exists. Real environment variables
// always win over file values.
func loadDotEnv() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
