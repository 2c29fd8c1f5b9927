package cmd

import (
	"fmt"
	"io"

	"github.com/theirongolddev/cloud9/internal/cli"
	"github.com/theirongolddev/cloud9/internal/widget"

	"github.com/spf13/cobra"
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Spend against budget, with anomaly detection",
	RunE:  runBudget,
}

func init() {
	rootCmd.AddCommand(budgetCmd)
}

func runBudget(cmd *cobra.Command, _ []string) error {
	kinds := []widget.Kind{widget.Metrics, widget.SpendOverview, widget.SpendHistory}
	return runReport(cmd, kinds, func(w io.Writer, r *report) {
		fmt.Fprintln(w, cli.RenderTitle("Budget Monitoring"))
		fmt.Fprintln(w)
		r.writeBudget(w)
		r.writeSpendOverview(w)
		r.writeSpendHistory(w)
	})
}
