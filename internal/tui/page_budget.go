package tui

import (
	"strings"

	"github.com/theirongolddev/cloud9/internal/api"
	"github.com/theirongolddev/cloud9/internal/cli"
	"github.com/theirongolddev/cloud9/internal/tui/components"
)

func (a App) renderBudgetTab(cw int) string {
	var b strings.Builder
	b.WriteString(a.pageHeading("Budget Monitoring"))
	b.WriteString("\n")

	b.WriteString(a.renderBudgetGauge(cw))
	b.WriteString("\n")

	if a.isCompactLayout() {
		b.WriteString(a.renderSpendOverview(cw))
		b.WriteString("\n")
		b.WriteString(a.renderSpendHistory(cw))
		return b.String()
	}

	halves := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		a.renderSpendOverview(halves[0]),
		a.renderSpendHistory(halves[1]),
	}))
	return b.String()
}

func (a App) renderBudgetGauge(cw int) string {
	limit := a.cfg.MonthlyLimit()
	body := stateBody(a.spinner, a.widgets.metrics, func(m api.Metrics) string {
		used, _ := m.TotalSpend.Float64()
		lim, _ := limit.Float64()
		inner := components.CardInnerWidth(cw)
		status := components.StatusText("Within budget", true)
		if m.TotalSpend.GreaterThan(limit) {
			status = components.StatusText("Over Budget", false)
		}
		return components.BudgetGauge("Monthly budget", used, lim, max(inner-24, 10)) + "\n" +
			cli.FormatMoney(m.TotalSpend, a.cfg.Currency()) + " of " +
			cli.FormatMoney(limit, a.cfg.Currency()) + "  " + status
	})
	return components.ContentCard("Budget", body, cw)
}
