// Package cmd implements the cloud9 CLI commands.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/theirongolddev/cloud9/internal/api"
	"github.com/theirongolddev/cloud9/internal/config"
	"github.com/theirongolddev/cloud9/internal/model"
	"github.com/theirongolddev/cloud9/internal/store"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	flagProvider string
	flagAPIURL   string
	flagChatURL  string
	flagQuiet    bool
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:           "cloud9",
	Short:         "Multi-cloud cost and security dashboard",
	Long:          "Monitor cloud spend, idle resources and security posture across AWS, Azure and GCP.",
	RunE:          runDashboard,
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagProvider, "provider", "p", "", "Cloud provider (aws, azure, gcp)")
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Dashboard API base URL")
	rootCmd.PersistentFlags().StringVar(&flagChatURL, "chat-url", "", "Chat service URL")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log errors")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

// loadConfig loads the config file. A broken file falls back to defaults.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "  Config error, using defaults: %v\n", err)
		return config.DefaultConfig()
	}
	return cfg
}

// resolveProvider applies --provider over the env var and config file.
func resolveProvider(cfg config.Config) (model.Provider, error) {
	if flagProvider != "" {
		p := model.ParseProvider(flagProvider)
		if !p.Known() {
			return "", fmt.Errorf("unknown provider %q (want aws, azure or gcp)", flagProvider)
		}
		return p, nil
	}
	if p := config.GetProvider(cfg); p.Known() {
		return p, nil
	}
	return model.AWS, nil
}

// newClient builds the API client: flags, then env vars, then config.
func newClient(cfg config.Config) *api.Client {
	base := config.GetBaseURL(cfg)
	if flagAPIURL != "" {
		base = flagAPIURL
	}
	chat := config.GetChatURL(cfg)
	if flagChatURL != "" {
		chat = flagChatURL
	}
	return api.NewClient(api.Options{BaseURL: base, ChatURL: chat, Timeout: cfg.Timeout()})
}

// newLogger returns a zerolog logger writing to w at the configured level.
func newLogger(w io.Writer, cfg config.Config) zerolog.Logger {
	name := config.GetLogLevel(cfg)
	if flagLogLevel != "" {
		name = flagLogLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil || name == "" {
		level = zerolog.InfoLevel
	}
	if flagQuiet {
		level = zerolog.ErrorLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// consoleLogger is the stderr logger used by one-shot commands.
func consoleLogger(cfg config.Config) zerolog.Logger {
	return newLogger(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}, cfg)
}

// commandContext carries logger and is canceled on SIGINT/SIGTERM.
func commandContext(parent context.Context, logger zerolog.Logger) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	return logger.WithContext(ctx), cancel
}

// openStore opens the credential store in the data directory.
func openStore() (*store.Store, error) {
	return store.Open(store.DefaultPath(config.DataDir()))
}
