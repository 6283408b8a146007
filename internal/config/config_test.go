// ABOUTME: Tests for configuration loading
// ABOUTME: Covers YAML parsing, env expansion, duration parsing, and validation

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: ":8420"
database:
  path: "marketplace.db"
auth:
  jwt_secret: "test-secret"
  token_ttl: "24h"
chat:
  seed_demo_data: true
  pin_sweep_interval: "30s"
logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8420", cfg.Server.HTTPAddr)
	assert.Equal(t, "marketplace.db", cfg.Database.Path)
	assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.Chat.SeedDemoData)
	assert.Equal(t, 30*time.Second, cfg.Chat.SweepInterval)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("WFC_TEST_SECRET", "from-env")

	path := writeConfig(t, `
server:
  http_addr: ":8420"
database:
  path: "marketplace.db"
auth:
  jwt_secret: "${WFC_TEST_SECRET}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: ":8420"
database:
  path: "marketplace.db"
auth:
  jwt_secret: "s"
  token_ttl: "soon"
`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "token_ttl")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{HTTPAddr: ":8420"},
			Database: DatabaseConfig{Path: "db"},
			Auth:     AuthConfig{JWTSecret: "s"},
		}
	}

	assert.NoError(t, base().Validate())

	cfg := base()
	cfg.Server.HTTPAddr = ""
	assert.ErrorContains(t, cfg.Validate(), "http_addr")

	cfg = base()
	cfg.Database.Path = ""
	assert.ErrorContains(t, cfg.Validate(), "database.path")

	cfg = base()
	cfg.Auth.JWTSecret = ""
	assert.ErrorContains(t, cfg.Validate(), "jwt_secret")
}
