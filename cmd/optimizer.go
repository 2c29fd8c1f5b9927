package cmd

import (
	"fmt"
	"io"

	"github.com/theirongolddev/cloud9/internal/cli"
	"github.com/theirongolddev/cloud9/internal/widget"

	"github.com/spf13/cobra"
)

var optimizerCmd = &cobra.Command{
	Use:   "optimizer",
	Short: "Rightsizing recommendations",
	RunE:  runOptimizer,
}

func init() {
	rootCmd.AddCommand(optimizerCmd)
}

func runOptimizer(cmd *cobra.Command, _ []string) error {
	return runReport(cmd, []widget.Kind{widget.Optimizer}, func(w io.Writer, r *report) {
		fmt.Fprintln(w, cli.RenderTitle("Cloud Resource Optimization Recommendations"))
		fmt.Fprintln(w)
		r.writeOptimizer(w)
	})
}
