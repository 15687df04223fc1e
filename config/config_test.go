package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Create a temporary directory for test files
	tempDir := t.TempDir()

	configPath := filepath.Join(tempDir, "test_config.yaml")
	configContent := `
log_level: -4
fetch:
  backend: auto
  timeout: 10s
  retries: 5
  retry_delay: 500ms
  backoff: true
  proxy: http://127.0.0.1:3128
  headers:
    Accept-Language: de-DE
session:
  cookie_file: cookies.txt
storage:
  type: gcs
  bucket: media
  object_prefix: previews
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)

	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, -4, cfg.LogLevel)
	assert.Equal(t, BackendAuto, cfg.Fetch.Backend)
	assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 5, cfg.Fetch.Retries)
	assert.Equal(t, 500*time.Millisecond, cfg.Fetch.RetryDelay)
	assert.True(t, cfg.Fetch.Backoff)
	assert.True(t, cfg.Fetch.Headless)
	assert.Equal(t, "http://127.0.0.1:3128", cfg.Fetch.Proxy)
	assert.Equal(t, "de-DE", cfg.Fetch.Headers["Accept-Language"])
	assert.Equal(t, "cookies.txt", cfg.Session.CookieFile)
	assert.Equal(t, StorageGCS, cfg.Storage.Type)
	assert.Equal(t, "media", cfg.Storage.Bucket)
	assert.Equal(t, "previews", cfg.Storage.ObjectPrefix)
}

func TestLoadAppliesDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("log_level: 0\n"), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, *Default(), *cfg)
	assert.Equal(t, BackendHTTP, cfg.Fetch.Backend)
	assert.Equal(t, 3, cfg.Fetch.Retries)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, StorageLocal, cfg.Storage.Type)
	assert.Equal(t, "output", cfg.Storage.OutputDir)
}

func TestLoadNonExistentFile(t *testing.T) {
	cfg, err := Load("non_existent_file.yaml")

	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadInvalidYAML(t *testing.T) {
	tempDir := t.TempDir()

	configPath := filepath.Join(tempDir, "invalid_config.yaml")
	configContent := `
log_level: -4
fetch:
  backend: http
invalid_yaml: [this is not valid yaml
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)

	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"unknown backend", func(c *Config) { c.Fetch.Backend = "curl" }, "unsupported fetch backend"},
		{"unknown storage", func(c *Config) { c.Storage.Type = "s3" }, "unsupported storage type"},
		{"gcs without bucket", func(c *Config) { c.Storage.Type = StorageGCS }, "requires a bucket"},
		{"negative retries", func(c *Config) { c.Fetch.Retries = -1 }, "retries must be at least 1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}

	assert.NoError(t, Default().Validate())
}
