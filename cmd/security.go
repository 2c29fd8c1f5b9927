package cmd

import (
	"fmt"
	"io"

	"github.com/theirongolddev/cloud9/internal/cli"
	"github.com/theirongolddev/cloud9/internal/widget"

	"github.com/spf13/cobra"
)

var securityCmd = &cobra.Command{
	Use:   "security",
	Short: "Security posture and compliance trend",
	RunE:  runSecurity,
}

func init() {
	rootCmd.AddCommand(securityCmd)
}

func runSecurity(cmd *cobra.Command, _ []string) error {
	return runReport(cmd, []widget.Kind{widget.Security, widget.SecurityTrend}, func(w io.Writer, r *report) {
		fmt.Fprintln(w, cli.RenderTitle("Security Overview"))
		fmt.Fprintln(w)
		r.writeSecurity(w)
		r.writeTrend(w)
	})
}
