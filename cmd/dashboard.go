package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/theirongolddev/cloud9/internal/cli"
	"github.com/theirongolddev/cloud9/internal/widget"

	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print every dashboard widget once",
	RunE:  runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	kinds := []widget.Kind{
		widget.Metrics, widget.SpendOverview, widget.SpendHistory, widget.Instances,
		widget.Buckets, widget.IdleResources, widget.Security, widget.SecurityTrend,
	}
	return runReport(cmd, kinds, func(w io.Writer, r *report) {
		fmt.Fprintln(w, cli.RenderTitle(fmt.Sprintf("Cloud9 Dashboard - %s User", r.provider.DisplayName())))
		fmt.Fprintln(w)
		r.writeMetrics(w)
		r.writeSpendOverview(w)
		r.writeSpendHistory(w)
		r.writeInstances(w)
		r.writeBuckets(w)
		r.writeIdle(w)
		r.writeSecurity(w)
		r.writeTrend(w)
	})
}

// runReport performs one mount of kinds and prints the result.
// Widget failures are printed in place; only setup errors are returned.
func runReport(cmd *cobra.Command, kinds []widget.Kind, write func(io.Writer, *report)) error {
	cfg := loadConfig()
	provider, err := resolveProvider(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd.Context(), consoleLogger(cfg))
	defer cancel()

	r := &report{provider: provider, currency: cfg.Currency(), limit: cfg.MonthlyLimit()}
	loadReport(ctx, newClient(cfg), r, kinds...)

	fmt.Println()
	write(os.Stdout, r)
	return nil
}
