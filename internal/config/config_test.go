package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "http://localhost:8080", cfg.Client.ServerURL)
	assert.Equal(t, 2*time.Second, cfg.Client.Sync.BaseDelay)
	assert.Equal(t, 3, cfg.Client.Sync.MaxRetries)
	assert.Equal(t, uint64(10), cfg.Client.Sync.JitterPercent)
	assert.True(t, cfg.Client.VersionPreconditions)
	assert.True(t, cfg.Client.AutoResolveIdentical)
	assert.Equal(t, DriverSQLite, cfg.Server.StorageDriver)

	require.NoError(t, cfg.Validate())
	require.NoError(t, cfg.ValidateServer())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offsync.yaml")
	content := `
log:
  level: debug
client:
  server_url: https://sync.example.com
  cache_quota: 1048576
  sync:
    interval: 30s
    concurrency: 8
server:
  storage_driver: postgres
  storage_dsn: postgres://localhost/offsync
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	t.Setenv("OFFSYNC_CLIENT_SYNC_MAX_RETRIES", "5")
	t.Setenv("OFFSYNC_SERVER_JWT_SECRET", "env-secret-0123456789")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format, "defaults fill missing keys")
	assert.Equal(t, "https://sync.example.com", cfg.Client.ServerURL)
	assert.Equal(t, int64(1048576), cfg.Client.CacheQuota)
	assert.Equal(t, 30*time.Second, cfg.Client.Sync.Interval)
	assert.Equal(t, 8, cfg.Client.Sync.Concurrency)
	assert.Equal(t, 5, cfg.Client.Sync.MaxRetries)
	assert.Equal(t, DriverPostgres, cfg.Server.StorageDriver)
	assert.Equal(t, "env-secret-0123456789", cfg.Server.JWTSecret)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_NoFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		modify  func(c *Config)
		name    string
		wantErr string
	}{
		{name: "defaults", modify: func(c *Config) {}},
		{name: "bad level", modify: func(c *Config) { c.Log.Level = "loud" }, wantErr: "log.level"},
		{name: "bad format", modify: func(c *Config) { c.Log.Format = "xml" }, wantErr: "log.format"},
		{name: "empty db path", modify: func(c *Config) { c.Client.DBPath = "" }, wantErr: "client.db_path"},
		{name: "bad server url", modify: func(c *Config) { c.Client.ServerURL = "ftp://x" }, wantErr: "client.server_url"},
		{name: "negative quota", modify: func(c *Config) { c.Client.CacheQuota = -1 }, wantErr: "cache_quota"},
		{name: "zero concurrency", modify: func(c *Config) { c.Client.Sync.Concurrency = 0 }, wantErr: "concurrency"},
		{name: "zero retries", modify: func(c *Config) { c.Client.Sync.MaxRetries = 0 }, wantErr: "max_retries"},
		{name: "max below base", modify: func(c *Config) { c.Client.Sync.MaxDelay = time.Second }, wantErr: "max_delay"},
		{name: "jitter over 100", modify: func(c *Config) { c.Client.Sync.JitterPercent = 101 }, wantErr: "jitter_percent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_ValidateServer(t *testing.T) {
	tests := []struct {
		modify  func(c *Config)
		name    string
		wantErr string
	}{
		{name: "defaults", modify: func(c *Config) {}},
		{name: "unknown driver", modify: func(c *Config) { c.Server.StorageDriver = "mysql" }, wantErr: "storage_driver"},
		{name: "empty dsn", modify: func(c *Config) { c.Server.StorageDSN = "" }, wantErr: "storage_dsn"},
		{name: "short secret", modify: func(c *Config) { c.Server.JWTSecret = "short" }, wantErr: "jwt_secret"},
		{name: "rate without window", modify: func(c *Config) { c.Server.RateWindow = 0 }, wantErr: "rate_window"},
		{name: "rate limit disabled", modify: func(c *Config) { c.Server.RateLimit = 0; c.Server.RateWindow = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.ValidateServer()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
