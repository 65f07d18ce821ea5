package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadClient_Defaults(t *testing.T) {
	cfg, err := LoadClient()
	require.NoError(t, err)

	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "http://localhost:8080", cfg.ServerURL)
	assert.Equal(t, "127.0.0.1:7600", cfg.AgentAddr)
	assert.Equal(t, 5*time.Second, cfg.DrainInterval)
	assert.Equal(t, 4, cfg.DrainConcurrency)
	assert.Equal(t, 25, cfg.BatchSize)
	assert.Equal(t, 5, cfg.MaxAttempts)
}

func TestLoadClient_FromEnvironment(t *testing.T) {
	t.Setenv("REVIEW_DATA_DIR", "/var/lib/review")
	t.Setenv("REVIEW_SERVER_URL", "https://sync.example.com")
	t.Setenv("REVIEW_DRAIN_INTERVAL", "30s")
	t.Setenv("REVIEW_BATCH_SIZE", "50")

	cfg, err := LoadClient()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/review", cfg.DataDir)
	assert.Equal(t, "https://sync.example.com", cfg.ServerURL)
	assert.Equal(t, 30*time.Second, cfg.DrainInterval)
	assert.Equal(t, 50, cfg.BatchSize)
}

func TestLoadClient_InvalidValues(t *testing.T) {
	t.Setenv("REVIEW_DRAIN_INTERVAL", "soon")
	_, err := LoadClient()
	require.Error(t, err)

	t.Setenv("REVIEW_DRAIN_INTERVAL", "5s")
	t.Setenv("REVIEW_BATCH_SIZE", "many")
	_, err = LoadClient()
	require.Error(t, err)
}

func TestLoadServer(t *testing.T) {
	t.Setenv("REVIEW_SERVER_ADDR", "127.0.0.1:9999")

	cfg, err := LoadServer()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", cfg.Addr)
	assert.Equal(t, "./review.db", cfg.DatabasePath)
}
