package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cloud9/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar: key hints on the left,
// provider, pending fetches and mount age on the right.
func RenderStatusBar(width int, provider string, pending int, mountAge string) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Width(width)

	left := " [?]help  [r]eload  [q]uit"

	var right []string
	if provider != "" {
		right = append(right, provider)
	}
	if pending > 0 {
		right = append(right, fmt.Sprintf("loading %d", pending))
	}
	if mountAge != "" {
		right = append(right, "mounted "+mountAge)
	}
	r := strings.Join(right, " · ") + " "

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(r), 0)
	return style.Render(left + strings.Repeat(" ", padding) + r)
}
