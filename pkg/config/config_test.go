package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setCreds(t *testing.T) {
	t.Helper()
	t.Setenv("ALPACA_API_KEY", "key")
	t.Setenv("ALPACA_SECRET_KEY", "secret")
}

func clearOptional(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ALPACA_BASE", "ALLOWED_SYMBOLS", "MAX_ORDER_VALUE", "REQUEST_TIMEOUT", "GOPACA_LISTEN", "GOPACA_LOG_LEVEL", "GOPACA_LOG_FILE"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	setCreds(t)
	clearOptional(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Empty(t, cfg.AllowedSymbols)
	assert.True(t, cfg.MaxOrderValue.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, ":8080", cfg.Listen)
}

func TestLoadEnvOverrides(t *testing.T) {
	setCreds(t)
	clearOptional(t)
	t.Setenv("ALPACA_BASE", "https://example.test/v2")
	t.Setenv("ALLOWED_SYMBOLS", "nvda, aapl ,,msft")
	t.Setenv("MAX_ORDER_VALUE", "2500.5")
	t.Setenv("REQUEST_TIMEOUT", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://example.test/v2", cfg.BaseURL)
	assert.Equal(t, []string{"NVDA", "AAPL", "MSFT"}, cfg.AllowedSymbols)
	assert.True(t, cfg.MaxOrderValue.Equal(decimal.RequireFromString("2500.5")))
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
}

func TestLoadMissingCredentials(t *testing.T) {
	clearOptional(t)
	t.Setenv("ALPACA_API_KEY", "")
	t.Setenv("ALPACA_SECRET_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key pair is required")
}

func TestLoadFileWithEnvOverride(t *testing.T) {
	clearOptional(t)
	t.Setenv("ALPACA_API_KEY", "")
	t.Setenv("ALPACA_SECRET_KEY", "env-secret")

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
base_url: https://file.test/v2
api_key: file-key
api_secret: file-secret
allowed_symbols: [nvda, aapl]
max_order_value: 500
request_timeout: 7
listen: ":9090"
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://file.test/v2", cfg.BaseURL)
	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, "env-secret", cfg.APISecret, "env must override the file")
	assert.Equal(t, []string{"NVDA", "AAPL"}, cfg.AllowedSymbols)
	assert.True(t, cfg.MaxOrderValue.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, 7*time.Second, cfg.RequestTimeout)
	assert.Equal(t, ":9090", cfg.Listen)
}

func TestLoadFileMissing(t *testing.T) {
	setCreds(t)
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
