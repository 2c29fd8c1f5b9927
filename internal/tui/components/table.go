package components

import (
	"strings"

	"github.com/theirongolddev/cloud9/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Table renders a header row, a rule, and data rows fitted to width.
// Columns share the width in proportion to their widest cell; cells that
// still do not fit are truncated with an ellipsis.
func Table(headers []string, rows [][]string, width int) string {
	t := theme.Active
	if len(headers) == 0 {
		return ""
	}

	widths := columnWidths(headers, rows, width)

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	ruleStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	var b strings.Builder
	b.WriteString(headerStyle.Render(joinCells(headers, widths)))
	b.WriteString("\n")
	b.WriteString(ruleStyle.Render(strings.Repeat("─", min(width, sum(widths)+2*(len(widths)-1)))))
	for _, row := range rows {
		b.WriteString("\n")
		b.WriteString(cellStyle.Render(joinCells(row, widths)))
	}
	return b.String()
}

func columnWidths(headers []string, rows [][]string, width int) []int {
	n := len(headers)
	natural := make([]int, n)
	for i, h := range headers {
		natural[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < n && i < len(row); i++ {
			natural[i] = max(natural[i], lipgloss.Width(row[i]))
		}
	}

	avail := width - 2*(n-1)
	total := sum(natural)
	if total <= avail || total == 0 {
		return natural
	}

	out := make([]int, n)
	for i, w := range natural {
		out[i] = max(w*avail/total, 3)
	}
	return out
}

func joinCells(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = fit(cell, w)
	}
	return strings.Join(parts, "  ")
}

// fit truncates or pads s to exactly w display cells.
func fit(s string, w int) string {
	if lipgloss.Width(s) > w {
		runes := []rune(s)
		for len(runes) > 0 && lipgloss.Width(string(runes))+1 > w {
			runes = runes[:len(runes)-1]
		}
		s = string(runes) + "…"
	}
	return s + strings.Repeat(" ", max(w-lipgloss.Width(s), 0))
}

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}
