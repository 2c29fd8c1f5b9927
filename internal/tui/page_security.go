package tui

import (
	"strings"

	"github.com/theirongolddev/cloud9/internal/tui/components"
)

func (a App) renderSecurityTab(cw int) string {
	var b strings.Builder
	b.WriteString(a.pageHeading("Security Overview"))
	b.WriteString("\n")

	if a.isCompactLayout() {
		b.WriteString(a.renderSecurityOverview(cw))
		b.WriteString("\n")
		b.WriteString(a.renderSecurityTrend(cw))
		return b.String()
	}

	halves := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		a.renderSecurityOverview(halves[0]),
		a.renderSecurityTrend(halves[1]),
	}))
	return b.String()
}
