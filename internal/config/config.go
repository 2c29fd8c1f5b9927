package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/cloud9/internal/api"
	"github.com/theirongolddev/cloud9/internal/model"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
)

const appName = "cloud9"

// DefaultMonthlyLimit is the budget above which the popup reports "Over Budget".
const DefaultMonthlyLimit = 25000.0

// Config holds all cloud9 configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	API        APIConfig        `toml:"api"`
	Budget     BudgetConfig     `toml:"budget"`
	Appearance AppearanceConfig `toml:"appearance"`
	Log        LogConfig        `toml:"log"`
}

// GeneralConfig holds the selected provider.
type GeneralConfig struct {
	Provider string `toml:"provider,omitempty"`
}

// APIConfig holds backend endpoints.
type APIConfig struct {
	BaseURL    string `toml:"base_url"`
	ChatURL    string `toml:"chat_url"`
	TimeoutSec int    `toml:"timeout_sec"`
}

// BudgetConfig holds budget tracking settings.
type BudgetConfig struct {
	MonthlyLimit float64 `toml:"monthly_limit"`
	Currency     string  `toml:"currency"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LogConfig holds the log level name understood by zerolog.
type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:    api.DefaultBaseURL,
			ChatURL:    api.DefaultChatURL,
			TimeoutSec: 10,
		},
		Budget: BudgetConfig{
			MonthlyLimit: DefaultMonthlyLimit,
			Currency:     "$",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// DataDir returns the XDG-compliant data directory for the credential store and logs.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", appName)
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return toml.NewEncoder(f).Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// GetBaseURL returns the API base URL from env var or config, in that order.
func GetBaseURL(cfg Config) string {
	if v := os.Getenv("CLOUD9_API_URL"); v != "" {
		return v
	}
	return cfg.API.BaseURL
}

// GetChatURL returns the chat service URL from env var or config, in that order.
func GetChatURL(cfg Config) string {
	if v := os.Getenv("CLOUD9_CHAT_URL"); v != "" {
		return v
	}
	return cfg.API.ChatURL
}

// GetProvider returns the selected provider from env var or config, in that order.
func GetProvider(cfg Config) model.Provider {
	if v := os.Getenv("CLOUD9_PROVIDER"); v != "" {
		return model.ParseProvider(v)
	}
	return model.ParseProvider(cfg.General.Provider)
}

// GetLogLevel returns the log level from env var or config, in that order.
func GetLogLevel(cfg Config) string {
	if v := os.Getenv("CLOUD9_LOG_LEVEL"); v != "" {
		return v
	}
	return cfg.Log.Level
}

// Timeout returns the per-request timeout. Zero or negative values mean the client default.
func (c Config) Timeout() time.Duration {
	if c.API.TimeoutSec <= 0 {
		return 0
	}
	return time.Duration(c.API.TimeoutSec) * time.Second
}

// MonthlyLimit returns the budget ceiling as a decimal.
func (c Config) MonthlyLimit() decimal.Decimal {
	if c.Budget.MonthlyLimit <= 0 {
		return decimal.NewFromFloat(DefaultMonthlyLimit)
	}
	return decimal.NewFromFloat(c.Budget.MonthlyLimit)
}

// Currency returns the currency symbol, defaulting to "$".
func (c Config) Currency() string {
	if c.Budget.Currency == "" {
		return "$"
	}
	return c.Budget.Currency
}
