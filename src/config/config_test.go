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

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 25*time.Second, cfg.HTTPTimeout())
	assert.Equal(t, "https://api.nasdaq.com", cfg.Nasdaq.BaseURL)
	assert.Equal(t, "https://query1.finance.yahoo.com", cfg.Yahoo.BaseURL)
	assert.Equal(t, "us", cfg.AppStore.Storefront)
	assert.Equal(t, 50, cfg.AppStore.PageLimit)
	assert.Equal(t, []string{"expirationdate", "expirationDate", "expiryDate", "date", "expiration"}, cfg.Nasdaq.ExpirationParams)
}

func TestLoad(t *testing.T) {
	t.Run("no file keeps the defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("yaml file overrides a subset of fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		data := `
port: "8080"
app_store:
  storefront: de
  page_limit: 10
`
		require.NoError(t, os.WriteFile(path, []byte(data), 0644))

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "de", cfg.AppStore.Storefront)
		assert.Equal(t, 10, cfg.AppStore.PageLimit)
		// untouched sections keep their defaults
		assert.Equal(t, "https://api.nasdaq.com", cfg.Nasdaq.BaseURL)
	})

	t.Run("environment wins over the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("port: \"8080\"\n"), 0644))

		t.Setenv("PORT", "9090")
		t.Setenv("LOG_LEVEL", "debug")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("http_timeout_seconds: -1\n"), 0644))

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "http_timeout_seconds")
	})
}
