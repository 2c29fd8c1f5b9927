package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/cloud9/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("CLOUD9_API_URL", "")
	t.Setenv("CLOUD9_CHAT_URL", "")
	t.Setenv("CLOUD9_PROVIDER", "")
	t.Setenv("CLOUD9_LOG_LEVEL", "")
	return dir
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.False(t, Exists())
	assert.True(t, cfg.MonthlyLimit().Equal(decimal.NewFromInt(25000)))
	assert.Equal(t, 10*time.Second, cfg.Timeout())
}

func TestSaveAndLoad(t *testing.T) {
	isolate(t)

	cfg := DefaultConfig()
	cfg.General.Provider = "gcp"
	cfg.API.BaseURL = "http://api.internal:9000"
	cfg.Budget.MonthlyLimit = 1200.5
	require.NoError(t, Save(cfg))
	require.True(t, Exists())

	info, err := os.Stat(ConfigPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
	assert.Equal(t, model.GCP, GetProvider(got))
	assert.True(t, got.MonthlyLimit().Equal(decimal.RequireFromString("1200.5")))
}

func TestLoadRejectsBadTOML(t *testing.T) {
	isolate(t)
	require.NoError(t, os.MkdirAll(ConfigDir(), 0o755))
	require.NoError(t, os.WriteFile(ConfigPath(), []byte("[api\nbase_url="), 0o600))

	_, err := Load()
	assert.ErrorContains(t, err, "parsing config")
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	cfg := DefaultConfig()
	cfg.General.Provider = "aws"

	assert.Equal(t, "http://127.0.0.1:8010", GetBaseURL(cfg))
	assert.Equal(t, model.AWS, GetProvider(cfg))

	t.Setenv("CLOUD9_API_URL", "http://env:1")
	t.Setenv("CLOUD9_CHAT_URL", "http://env:2")
	t.Setenv("CLOUD9_PROVIDER", "Azure")
	t.Setenv("CLOUD9_LOG_LEVEL", "debug")

	assert.Equal(t, "http://env:1", GetBaseURL(cfg))
	assert.Equal(t, "http://env:2", GetChatURL(cfg))
	assert.Equal(t, model.Azure, GetProvider(cfg))
	assert.Equal(t, "debug", GetLogLevel(cfg))
}

func TestDirs(t *testing.T) {
	dir := isolate(t)
	assert.Equal(t, filepath.Join(dir, "config", "cloud9"), ConfigDir())
	assert.Equal(t, filepath.Join(dir, "data", "cloud9"), DataDir())
}

func TestZeroValuesFallBack(t *testing.T) {
	var cfg Config
	assert.Equal(t, time.Duration(0), cfg.Timeout())
	assert.True(t, cfg.MonthlyLimit().Equal(decimal.NewFromInt(25000)))
	assert.Equal(t, "$", cfg.Currency())
}
