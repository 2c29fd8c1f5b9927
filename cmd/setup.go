package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/cloud9/internal/config"
	"github.com/theirongolddev/cloud9/internal/model"
	"github.com/theirongolddev/cloud9/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Choose a cloud provider and enter its credentials",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()

	st, err := openStore()
	if err != nil {
		return fmt.Errorf("opening credential store: %w", err)
	}
	defer func() { _ = st.Close() }()

	saved := make(map[model.Provider]model.Credentials)
	for _, p := range model.Providers {
		c, ok, err := st.LoadCredentials(p)
		if err != nil {
			return err
		}
		if ok {
			saved[p] = c
		}
	}

	vals := tui.NewSetupValues(cfg, saved)
	if flagProvider != "" {
		vals.Provider = string(model.ParseProvider(flagProvider))
	}

	if err := tui.NewSetupForm(vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled.")
			return nil
		}
		return err
	}

	if _, err := tui.SaveSetup(vals, st); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("  Provider: %s\n", model.Provider(vals.Provider).DisplayName())
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `cloud9 setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}
