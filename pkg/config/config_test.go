package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_OverlaysFileOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runtime.yaml")
	body := `
session:
  idleTimeout: 5m
  evictEvery: 50
webhook:
  listenAddr: ":9000"
  secret: shh
metrics:
  enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.Session.IdleTimeout)
	assert.Equal(t, 50, cfg.Session.EvictEvery)
	assert.Equal(t, ":9000", cfg.Webhook.ListenAddr)
	assert.Equal(t, "shh", cfg.Webhook.Secret)
	assert.True(t, cfg.Metrics.Enabled)
	// Untouched sections keep their default values.
	assert.Equal(t, 10, cfg.Session.MaxActivePages)
	assert.Equal(t, "en", cfg.I18n.DefaultLang)
}
