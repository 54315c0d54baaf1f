package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvg-labs/stock-trading/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadServerConfigDefaults(t *testing.T) {
	cfg, err := LoadServerConfig("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "memory", cfg.Store.Backend)
}

func TestLoadServerConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
listen: ":9090"
store:
  backend: duckdb
  path: /tmp/stocks.db
feed:
  updates: 5
  interval: 250ms
`)

	cfg, err := LoadServerConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, "duckdb", cfg.Store.Backend)
	assert.Equal(t, "/tmp/stocks.db", cfg.Store.Path)
	assert.Equal(t, 5, cfg.Feed.Updates)
	assert.Equal(t, 250*time.Millisecond, time.Duration(cfg.Feed.Interval))
}

func TestLoadServerConfigInvalidBackend(t *testing.T) {
	path := writeConfig(t, `
listen: ":9090"
store:
  backend: redis
`)

	_, err := LoadServerConfig(path)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func TestLoadServerConfigInvalidDuration(t *testing.T) {
	path := writeConfig(t, `
listen: ":9090"
feed:
  interval: soon
`)

	_, err := LoadServerConfig(path)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func TestLoadServerConfigMissingFile(t *testing.T) {
	_, err := LoadServerConfig("/nonexistent/config.yaml")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func TestLoadGatewayConfig(t *testing.T) {
	path := writeConfig(t, `
listen: ":8888"
upstream: http://stocks.internal:8080
`)

	cfg, err := LoadGatewayConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":8888", cfg.Listen)
	assert.Equal(t, "http://stocks.internal:8080", cfg.Upstream)
}

func TestLoadGatewayConfigInvalidUpstream(t *testing.T) {
	path := writeConfig(t, `
listen: ":8888"
upstream: "not a url"
`)

	_, err := LoadGatewayConfig(path)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}
