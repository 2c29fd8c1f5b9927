package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/theirongolddev/cloud9/internal/api"
	"github.com/theirongolddev/cloud9/internal/cli"
	"github.com/theirongolddev/cloud9/internal/model"
	"github.com/theirongolddev/cloud9/internal/spend"
	"github.com/theirongolddev/cloud9/internal/tui"
	"github.com/theirongolddev/cloud9/internal/widget"

	"github.com/shopspring/decimal"
)

// report is one CLI mount: every requested widget loaded concurrently,
// each holding its own outcome.
type report struct {
	provider model.Provider
	currency string
	limit    decimal.Decimal

	metrics   widget.State[api.Metrics]
	overview  widget.State[spend.Series]
	history   widget.State[spend.Series]
	instances widget.State[[]api.Instance]
	buckets   widget.State[[]api.Bucket]
	idle      widget.State[[]api.IdleResource]
	security  widget.State[api.SecurityReport]
	trend     widget.State[[]api.TrendPoint]
	optimizer widget.State[[]api.Recommendation]
}

func loadReport(ctx context.Context, src tui.Source, r *report, kinds ...widget.Kind) {
	provider := string(r.provider)
	loadSpend := func(ctx context.Context) (spend.Series, error) { return spend.Load(ctx, src) }

	var loaders []func(context.Context)
	for _, k := range kinds {
		switch k {
		case widget.Metrics:
			loaders = append(loaders, widget.Into(&r.metrics, k, src.Metrics))
		case widget.SpendOverview:
			loaders = append(loaders, widget.Into(&r.overview, k, loadSpend))
		case widget.SpendHistory:
			loaders = append(loaders, widget.Into(&r.history, k, loadSpend))
		case widget.Instances:
			loaders = append(loaders, widget.Into(&r.instances, k, func(ctx context.Context) ([]api.Instance, error) {
				return src.Instances(ctx, provider)
			}))
		case widget.Buckets:
			loaders = append(loaders, widget.Into(&r.buckets, k, func(ctx context.Context) ([]api.Bucket, error) {
				return src.Buckets(ctx, provider)
			}))
		case widget.IdleResources:
			loaders = append(loaders, widget.Into(&r.idle, k, src.IdleResources))
		case widget.Security:
			loaders = append(loaders, widget.Into(&r.security, k, src.Security))
		case widget.SecurityTrend:
			loaders = append(loaders, widget.Into(&r.trend, k, src.SecurityTrend))
		case widget.Optimizer:
			loaders = append(loaders, widget.Into(&r.optimizer, k, src.Optimize))
		}
	}
	widget.LoadAll(ctx, loaders...)
}

// section writes a widget heading, then its failure message or rendered body.
func section[T any](w io.Writer, st widget.State[T], render func(T) string) {
	fmt.Fprint(w, cli.RenderSection(st.Kind.Title()))
	switch st.Status {
	case widget.Ready:
		fmt.Fprint(w, render(st.Data))
	case widget.Failed:
		fmt.Fprint(w, cli.RenderFailure(st.Message()))
	}
	fmt.Fprintln(w)
}

func (r *report) writeMetrics(w io.Writer) {
	section(w, r.metrics, func(m api.Metrics) string {
		return cli.RenderTable(cli.Table{
			Headers:    []string{"Metric", "Value"},
			RightAlign: []bool{false, true},
			Rows: [][]string{
				{"Total Spend", cli.FormatMoney(m.TotalSpend, r.currency)},
				{"Idle Resources", cli.FormatNumber(int64(m.IdleResources))},
				{"Predicted Savings", cli.FormatMoney(m.PredictedSavings, r.currency)},
			},
		})
	})
}

func (r *report) writeBudget(w io.Writer) {
	st := r.metrics
	fmt.Fprint(w, cli.RenderSection("Budget"))
	switch st.Status {
	case widget.Failed:
		fmt.Fprint(w, cli.RenderFailure(st.Message()))
	case widget.Ready:
		used, _ := st.Data.TotalSpend.Float64()
		lim, _ := r.limit.Float64()
		over := st.Data.TotalSpend.GreaterThan(r.limit)
		label := "Within budget"
		if over {
			label = "Over Budget"
		}
		fmt.Fprintf(w, "  %s\n", cli.RenderGauge(used, lim, 30))
		fmt.Fprintf(w, "  %s of %s  %s\n",
			cli.FormatMoney(st.Data.TotalSpend, r.currency),
			cli.FormatMoney(r.limit, r.currency),
			cli.RenderStatus(label, !over))
	}
	fmt.Fprintln(w)
}

func (r *report) writeSpendOverview(w io.Writer) {
	section(w, r.overview, func(s spend.Series) string {
		if len(s) == 0 {
			return cli.RenderMuted("No spend data.")
		}
		peak := 0.0
		for _, p := range s {
			peak = max(peak, p.Amount)
		}
		var b strings.Builder
		for _, p := range s {
			b.WriteString(cli.RenderHorizontalBar(p.Period, p.Amount, peak, 30, cli.FormatAmount(p.Amount, r.currency)))
			b.WriteString("\n")
		}
		return b.String()
	})
}

func (r *report) writeSpendHistory(w io.Writer) {
	section(w, r.history, func(s spend.Series) string {
		var b strings.Builder
		if an := spend.Detect(s); an.Detected {
			b.WriteString(cli.RenderBanner(spend.Banner))
			fmt.Fprintf(&b, "  %s %s → %s %s (%s)\n",
				an.Previous.Period, cli.FormatAmount(an.Previous.Amount, r.currency),
				an.Current.Period, cli.FormatAmount(an.Current.Amount, r.currency),
				cli.FormatChange(an.SpikePct))
		}
		if len(s) == 0 {
			b.WriteString(cli.RenderMuted("No spend data."))
			return b.String()
		}
		fmt.Fprintf(&b, "  %s  %s\n", cli.RenderSparkline(s.Amounts()), strings.Join(s.Periods(), " "))
		return b.String()
	})
}

func (r *report) writeInstances(w io.Writer) {
	section(w, r.instances, func(list []api.Instance) string {
		if len(list) == 0 {
			return cli.RenderMuted("No instances found.")
		}
		rows := make([][]string, len(list))
		for i, in := range list {
			rows[i] = []string{in.ID, in.Type, in.State, in.LaunchTime}
		}
		return cli.RenderTable(cli.Table{Headers: []string{"Instance ID", "Type", "State", "Launch Time"}, Rows: rows})
	})
}

func (r *report) writeBuckets(w io.Writer) {
	section(w, r.buckets, func(list []api.Bucket) string {
		if len(list) == 0 {
			return cli.RenderMuted("No buckets found.")
		}
		rows := make([][]string, len(list))
		for i, bk := range list {
			access := cli.RenderStatus("Private", true)
			if bk.PublicAccess {
				access = cli.RenderStatus("Public", false)
			}
			rows[i] = []string{bk.Name, bk.CreationDate, access}
		}
		return cli.RenderTable(cli.Table{Headers: []string{"Bucket Name", "Creation Date", "Access"}, Rows: rows})
	})
}

func (r *report) writeIdle(w io.Writer) {
	section(w, r.idle, func(list []api.IdleResource) string {
		if len(list) == 0 {
			return cli.RenderMuted("No idle resources found.")
		}
		rows := make([][]string, len(list))
		for i, res := range list {
			rows[i] = []string{
				res.ID, res.ResourceType,
				cli.FormatFloat(res.CPUUsage) + "%", cli.FormatFloat(res.MemoryUsage) + "%",
				cli.FormatFloat(res.Uptime) + "h", res.Status,
			}
		}
		return cli.RenderTable(cli.Table{
			Headers:    []string{"ID", "Type", "CPU", "Memory", "Uptime", "Status"},
			RightAlign: []bool{false, false, true, true, true, false},
			Rows:       rows,
		})
	})
}

func (r *report) writeSecurity(w io.Writer) {
	section(w, r.security, func(s api.SecurityReport) string {
		flag := func(bad bool, badLabel, goodLabel string) string {
			if bad {
				return cli.RenderStatus(badLabel, false)
			}
			return cli.RenderStatus(goodLabel, true)
		}
		rows := [][]string{
			{"Compliance Score", cli.RenderStatus(strconv.Itoa(s.ComplianceScore)+"%", s.ComplianceScore >= 80)},
			{"Issues Found", cli.FormatNumber(int64(s.IssuesFound))},
			{"Public Buckets", flag(bool(s.PublicBuckets), "Exposed", "Secure")},
			{"Open Ports", cli.RenderStatus(cli.FormatPorts(s.OpenPorts), len(s.OpenPorts) == 0)},
			{"IAM Misconfiguration", flag(s.IAMMisconfiguration, "Risk", "Safe")},
			{"Encryption", flag(s.EncryptionMissing, "Missing", "Enabled")},
			{"MFA", flag(s.MFAMissing, "Not Enforced", "Enforced")},
			{"Suspicious Logins", flag(s.SuspiciousLoginDetected, "Detected", "None")},
		}
		var b strings.Builder
		b.WriteString(cli.RenderTable(cli.Table{Headers: []string{"Check", "Status"}, Rows: rows}))
		if len(s.Recommendations) > 0 {
			b.WriteString("\n  Recommendations\n")
			for _, rec := range s.Recommendations {
				fmt.Fprintf(&b, "   • %s\n", rec)
			}
		}
		return b.String()
	})
}

func (r *report) writeTrend(w io.Writer) {
	section(w, r.trend, func(pts []api.TrendPoint) string {
		if len(pts) == 0 {
			return cli.RenderMuted("No trend data.")
		}
		vals := make([]float64, len(pts))
		for i, p := range pts {
			vals[i] = float64(p.ComplianceScore)
		}
		first, last := pts[0], pts[len(pts)-1]
		return fmt.Sprintf("  %s  %s %d%% → %s %d%%\n",
			cli.RenderSparkline(vals), first.Date, first.ComplianceScore, last.Date, last.ComplianceScore)
	})
}

func (r *report) writeOptimizer(w io.Writer) {
	section(w, r.optimizer, func(recs []api.Recommendation) string {
		if len(recs) == 0 {
			return cli.RenderMuted("No recommendations.")
		}
		rows := make([][]string, len(recs))
		for i, rec := range recs {
			rows[i] = []string{rec.ResourceID, strconv.Itoa(rec.ClusterID), rec.Recommendation}
		}
		return cli.RenderTable(cli.Table{Headers: []string{"Resource ID", "Cluster ID", "Recommendation"}, Rows: rows})
	})
}
