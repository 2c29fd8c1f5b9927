package cmd

import (
	"fmt"

	"github.com/theirongolddev/cloud9/internal/api"
	"github.com/theirongolddev/cloud9/internal/cli"
	"github.com/theirongolddev/cloud9/internal/config"
	"github.com/theirongolddev/cloud9/internal/model"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration and stored credentials",
	RunE:  runConfig,
}

var configForgetCmd = &cobra.Command{
	Use:   "forget <provider>",
	Short: "Delete the stored credentials for a provider",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigForget,
}

func init() {
	configCmd.AddCommand(configForgetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	if p := config.GetProvider(cfg); p.Known() {
		fmt.Printf("    Provider: %s\n", p.DisplayName())
	} else {
		fmt.Println("    Provider: not configured")
	}
	fmt.Println()

	fmt.Println("  [API]")
	fmt.Printf("    Base URL: %s\n", config.GetBaseURL(cfg))
	fmt.Printf("    Chat URL: %s\n", config.GetChatURL(cfg))
	fmt.Printf("    Timeout:  %s\n", api.NewClient(api.Options{Timeout: cfg.Timeout()}).Timeout())
	fmt.Println()

	fmt.Println("  [Budget]")
	fmt.Printf("    Monthly limit: %s\n", cli.FormatMoney(cfg.MonthlyLimit(), cfg.Currency()))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	st, err := openStore()
	if err != nil {
		fmt.Printf("  Credential store unavailable: %v\n", err)
		return nil
	}
	defer func() { _ = st.Close() }()

	fmt.Println("  [Credentials]")
	providers, err := st.Providers()
	if err != nil {
		return err
	}
	if len(providers) == 0 {
		fmt.Println("    none stored")
	}
	for _, p := range providers {
		c, ok, err := st.LoadCredentials(p)
		if err != nil || !ok {
			continue
		}
		fmt.Printf("    %s (saved %s)\n", p.DisplayName(), c.SavedAt.Local().Format("2006-01-02 15:04"))
		for _, kv := range c.Masked() {
			fmt.Printf("      %-16s %s\n", kv[0]+":", kv[1])
		}
	}
	fmt.Println()

	fmt.Println("  Run `cloud9 setup` to reconfigure.")
	return nil
}

func runConfigForget(_ *cobra.Command, args []string) error {
	p := model.ParseProvider(args[0])
	if !p.Known() {
		return fmt.Errorf("unknown provider %q (want aws, azure or gcp)", args[0])
	}

	st, err := openStore()
	if err != nil {
		return fmt.Errorf("opening credential store: %w", err)
	}
	defer func() { _ = st.Close() }()

	if err := st.DeleteCredentials(p); err != nil {
		return err
	}
	fmt.Printf("  Removed %s credentials\n", p.DisplayName())
	return nil
}
