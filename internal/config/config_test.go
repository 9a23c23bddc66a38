package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 2, cfg.AI.MaxRetries)
	assert.Equal(t, time.Second, cfg.AI.RetryDelay)
	assert.Equal(t, 1500*time.Millisecond, cfg.CRM.SimulateDelay)
	assert.Equal(t, "sqlite", cfg.Store.Local)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: "9090"
owner:
  email: Ana@Acme.io
ai:
  max_retries: 4
  retry_delay: 250ms
store:
  local: memory
crm:
  status_interval: 1m
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	t.Setenv("AI_MAX_RETRIES", "1")
	t.Setenv("CRM_SIMULATE_DELAY", "10")
	t.Setenv("OFFLINE_MODE", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 1, cfg.AI.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.AI.RetryDelay)
	assert.Equal(t, 10*time.Millisecond, cfg.CRM.SimulateDelay)
	assert.Equal(t, time.Minute, cfg.CRM.StatusInterval)
	assert.Equal(t, "memory", cfg.Store.Local)
	assert.True(t, cfg.Offline)
	assert.Equal(t, "ana@acme.io", cfg.OwnerKey())
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("AI_MAX_RETRIES", "many")
	_, err := Load("")
	assert.ErrorContains(t, err, "AI_MAX_RETRIES")
}

func TestValidateRedisNeedsURL(t *testing.T) {
	t.Setenv("LOCAL_STORE", "redis")
	_, err := Load("")
	assert.ErrorContains(t, err, "REDIS_URL")
}
