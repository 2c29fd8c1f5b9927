package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cloud9/internal/api"
	"github.com/theirongolddev/cloud9/internal/cli"
	"github.com/theirongolddev/cloud9/internal/spend"
	"github.com/theirongolddev/cloud9/internal/tui/components"
	"github.com/theirongolddev/cloud9/internal/tui/theme"
	"github.com/theirongolddev/cloud9/internal/widget"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// stateBody renders a widget's spinner, failure message, or data.
func stateBody[T any](sp spinner.Model, st widget.State[T], render func(T) string) string {
	switch st.Status {
	case widget.Loading:
		return sp.View() + " " + components.MutedText("Loading...")
	case widget.Failed:
		return components.ErrorText(st.Message())
	}
	return render(st.Data)
}

func (a App) pageHeading(title string) string {
	t := theme.Active
	return lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true).Render("  "+title) + "\n"
}

func (a App) renderDashboardTab(cw int) string {
	var b strings.Builder
	b.WriteString(a.pageHeading(fmt.Sprintf("Cloud9 Dashboard - %s User", a.provider.DisplayName())))
	b.WriteString("\n")

	b.WriteString(a.renderMetricCards(cw))
	b.WriteString("\n")

	halves := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		b.WriteString(a.renderSpendOverview(cw))
		b.WriteString("\n")
		b.WriteString(a.renderSpendHistory(cw))
	} else {
		b.WriteString(components.CardRow([]string{
			a.renderSpendOverview(halves[0]),
			a.renderSpendHistory(halves[1]),
		}))
	}
	b.WriteString("\n")

	if a.isCompactLayout() {
		b.WriteString(a.renderInstances(cw))
		b.WriteString("\n")
		b.WriteString(a.renderBuckets(cw))
	} else {
		b.WriteString(components.CardRow([]string{
			a.renderInstances(halves[0]),
			a.renderBuckets(halves[1]),
		}))
	}
	b.WriteString("\n")

	b.WriteString(a.renderIdleResources(cw))
	b.WriteString("\n")

	if a.isCompactLayout() {
		b.WriteString(a.renderSecurityOverview(cw))
		b.WriteString("\n")
		b.WriteString(a.renderSecurityTrend(cw))
	} else {
		b.WriteString(components.CardRow([]string{
			a.renderSecurityOverview(halves[0]),
			a.renderSecurityTrend(halves[1]),
		}))
	}

	return b.String()
}

func (a App) renderMetricCards(cw int) string {
	st := a.widgets.metrics
	if st.Status != widget.Ready {
		return components.ContentCard("", stateBody(a.spinner, st, nil), cw)
	}
	m := st.Data
	t := theme.Active
	limit, _ := a.cfg.MonthlyLimit().Float64()
	return components.MetricCardRow([]components.Metric{
		{
			Label: "Total Spend",
			Value: cli.FormatMoney(m.TotalSpend, a.cfg.Currency()),
			Note:  "of " + cli.FormatCompactMoney(limit, a.cfg.Currency()) + " budget",
			Color: t.Status(!m.TotalSpend.GreaterThan(a.cfg.MonthlyLimit())),
		},
		{Label: "Idle Resources", Value: cli.FormatNumber(int64(m.IdleResources))},
		{Label: "Predicted Savings", Value: cli.FormatMoney(m.PredictedSavings, a.cfg.Currency()), Color: t.Good()},
	}, cw)
}

func (a App) renderSpendOverview(w int) string {
	st := a.widgets.overview
	body := stateBody(a.spinner, st, func(s spend.Series) string {
		if len(s) == 0 {
			return components.MutedText("No spend data.")
		}
		return components.BarChart(s.Amounts(), s.Periods(), theme.Active.Blue, components.CardInnerWidth(w), 8)
	})
	return components.ContentCard(st.Kind.Title(), body, w)
}

func (a App) renderSpendHistory(w int) string {
	st := a.widgets.history
	inner := components.CardInnerWidth(w)
	body := stateBody(a.spinner, st, func(s spend.Series) string {
		var b strings.Builder
		if an := spend.Detect(s); an.Detected {
			b.WriteString(components.Banner(spend.Banner, inner))
			b.WriteString("\n")
			b.WriteString(components.MutedText(fmt.Sprintf("%s → %s (%s)",
				cli.FormatAmount(an.Previous.Amount, a.cfg.Currency()),
				cli.FormatAmount(an.Current.Amount, a.cfg.Currency()),
				cli.FormatChange(an.SpikePct))))
			b.WriteString("\n")
		}
		if len(s) == 0 {
			b.WriteString(components.MutedText("No spend data."))
			return b.String()
		}
		b.WriteString(components.LineChart(s.Amounts(), s.Periods(), theme.Active.Accent, inner, 8, 0, 0))
		return b.String()
	})
	return components.ContentCard(st.Kind.Title(), body, w)
}

func (a App) renderInstances(w int) string {
	st := a.widgets.instances
	body := stateBody(a.spinner, st, func(list []api.Instance) string {
		if len(list) == 0 {
			return components.MutedText("No instances found.")
		}
		rows := make([][]string, len(list))
		for i, in := range list {
			rows[i] = []string{in.ID, in.Type, in.State, in.LaunchTime}
		}
		return components.Table([]string{"Instance ID", "Type", "State", "Launch Time"}, rows, components.CardInnerWidth(w))
	})
	return components.ContentCard(st.Kind.Title(), body, w)
}

func (a App) renderBuckets(w int) string {
	st := a.widgets.buckets
	body := stateBody(a.spinner, st, func(list []api.Bucket) string {
		if len(list) == 0 {
			return components.MutedText("No buckets found.")
		}
		rows := make([][]string, len(list))
		for i, bk := range list {
			access := components.StatusText("Private", true)
			if bk.PublicAccess {
				access = components.StatusText("Public", false)
			}
			rows[i] = []string{bk.Name, bk.CreationDate, access}
		}
		return components.Table([]string{"Bucket Name", "Creation Date", "Access"}, rows, components.CardInnerWidth(w))
	})
	return components.ContentCard(st.Kind.Title(), body, w)
}

func (a App) renderIdleResources(w int) string {
	st := a.widgets.idle
	body := stateBody(a.spinner, st, func(list []api.IdleResource) string {
		if len(list) == 0 {
			return components.MutedText("No idle resources found.")
		}
		rows := make([][]string, len(list))
		for i, r := range list {
			rows[i] = []string{
				r.ID, r.ResourceType,
				cli.FormatFloat(r.CPUUsage) + "%", cli.FormatFloat(r.MemoryUsage) + "%",
				cli.FormatFloat(r.Uptime) + "h", cli.FormatFloat(r.NetworkIn), cli.FormatFloat(r.DiskRead),
				r.Status,
			}
		}
		return components.Table(
			[]string{"ID", "Type", "CPU", "Memory", "Uptime", "Net In", "Disk Read", "Status"},
			rows, components.CardInnerWidth(w))
	})
	return components.ContentCard(st.Kind.Title(), body, w)
}

func (a App) renderSecurityOverview(w int) string {
	st := a.widgets.security
	body := stateBody(a.spinner, st, func(r api.SecurityReport) string {
		t := theme.Active
		label := lipgloss.NewStyle().Foreground(t.TextMuted)

		line := func(name, value string) string {
			return label.Render(fmt.Sprintf("%-22s", name)) + value + "\n"
		}

		var b strings.Builder
		b.WriteString(line("Compliance Score", components.Badge(fmt.Sprintf("%d%%", r.ComplianceScore), r.ComplianceScore >= 80)))
		b.WriteString(line("Issues Found", cli.FormatNumber(int64(r.IssuesFound))))
		b.WriteString(line("Public Buckets", pick(bool(r.PublicBuckets), "Exposed", "Secure")))
		ports := cli.FormatPorts(r.OpenPorts)
		b.WriteString(line("Open Ports", components.StatusText(ports, len(r.OpenPorts) == 0)))
		b.WriteString(line("IAM Misconfiguration", pick(r.IAMMisconfiguration, "Risk", "Safe")))
		b.WriteString(line("Encryption", pick(r.EncryptionMissing, "Missing", "Enabled")))
		b.WriteString(line("MFA", pick(r.MFAMissing, "Not Enforced", "Enforced")))
		b.WriteString(line("Suspicious Logins", pick(r.SuspiciousLoginDetected, "Detected", "None")))

		if len(r.Recommendations) > 0 {
			b.WriteString("\n")
			b.WriteString(label.Bold(true).Render("Recommendations"))
			for _, rec := range r.Recommendations {
				b.WriteString("\n • " + rec)
			}
		}
		return strings.TrimRight(b.String(), "\n")
	})
	return components.ContentCard(st.Kind.Title(), body, w)
}

// pick renders bad in red when flagged, good in green otherwise.
func pick(flagged bool, bad, good string) string {
	if flagged {
		return components.StatusText(bad, false)
	}
	return components.StatusText(good, true)
}

func (a App) renderSecurityTrend(w int) string {
	st := a.widgets.trend
	body := stateBody(a.spinner, st, func(pts []api.TrendPoint) string {
		if len(pts) == 0 {
			return components.MutedText("No trend data.")
		}
		vals := make([]float64, len(pts))
		labels := make([]string, len(pts))
		for i, p := range pts {
			vals[i] = float64(p.ComplianceScore)
			labels[i] = shortDate(p.Date)
		}
		return components.LineChart(vals, labels, theme.Active.Green, components.CardInnerWidth(w), 8, 50, 100)
	})
	return components.ContentCard(st.Kind.Title(), body, w)
}

// shortDate trims an ISO date to month-day for axis labels.
func shortDate(d string) string {
	if len(d) == len("2006-01-02") {
		return d[5:]
	}
	return d
}
