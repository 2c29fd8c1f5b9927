package components

import (
	"fmt"

	"github.com/theirongolddev/cloud9/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ColorForPct returns green/orange/red based on how much of a budget is used.
func ColorForPct(pct float64) lipgloss.Color {
	t := theme.Active
	switch {
	case pct > 1:
		return t.Bad()
	case pct >= 0.8:
		return t.Warn()
	default:
		return t.Good()
	}
}

// BudgetGauge renders a labeled bar of used against limit, e.g.
// "Monthly budget [██████░░░░] 62%". The bar saturates at 100% while the
// percentage keeps counting past it.
func BudgetGauge(label string, used, limit float64, barWidth int) string {
	t := theme.Active
	if limit <= 0 {
		return MutedText(label + ": no limit set")
	}

	pct := used / limit
	color := ColorForPct(pct)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(max(barWidth, 4)),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	pctStyle := lipgloss.NewStyle().Foreground(color).Bold(true)

	return labelStyle.Render(label) + " " +
		bar.ViewAs(min(max(pct, 0), 1)) + " " +
		pctStyle.Render(fmt.Sprintf("%.0f%%", pct*100))
}
