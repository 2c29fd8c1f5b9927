package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/cloud9/internal/config"
	"github.com/theirongolddev/cloud9/internal/model"
	"github.com/theirongolddev/cloud9/internal/tui"
	"github.com/theirongolddev/cloud9/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	theme.SetActive(cfg.Appearance.Theme)

	provider, err := resolveProvider(cfg)
	if err != nil {
		return err
	}

	// The alt screen owns the terminal, so logs go to a file.
	if err := os.MkdirAll(config.DataDir(), 0o750); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	logPath := filepath.Join(config.DataDir(), "cloud9.log")
	//nolint:gosec // log path lives in the user's data dir
	logf, err := os.OpenFile(logPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer func() { _ = logf.Close() }()
	logger := newLogger(logf, cfg)

	st, err := openStore()
	if err != nil {
		logger.Warn().Err(err).Msg("credential store unavailable")
		st = nil
	} else {
		defer func() { _ = st.Close() }()
	}

	saved := make(map[model.Provider]model.Credentials)
	if st != nil {
		for _, p := range model.Providers {
			if c, ok, err := st.LoadCredentials(p); err == nil && ok {
				saved[p] = c
			}
		}
	}

	// Force TrueColor profile so background styling produces ANSI codes.
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(tui.Options{
		Source:    newClient(cfg),
		Config:    cfg,
		Provider:  provider,
		Store:     st,
		Logger:    &logger,
		NeedSetup: flagProvider == "" && !config.GetProvider(cfg).Known(),
		Saved:     saved,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
