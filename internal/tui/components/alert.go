package components

import (
	"github.com/theirongolddev/cloud9/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Banner renders a full-width alert strip, used for the spend spike warning.
func Banner(msg string, width int) string {
	t := theme.Active
	return lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Background(t.Red).
		Bold(true).
		Width(max(width, lipgloss.Width(msg)+2)).
		Padding(0, 1).
		Render(msg)
}

// ErrorText renders a widget's failure message in place of its body.
func ErrorText(msg string) string {
	return lipgloss.NewStyle().Foreground(theme.Active.Red).Render(msg)
}

// MutedText renders secondary text such as empty-state notices.
func MutedText(msg string) string {
	return lipgloss.NewStyle().Foreground(theme.Active.TextMuted).Render(msg)
}

// Badge renders a short status label on a green or red background.
func Badge(label string, ok bool) string {
	t := theme.Active
	return lipgloss.NewStyle().
		Foreground(t.Background).
		Background(t.Status(ok)).
		Bold(true).
		Padding(0, 1).
		Render(label)
}

// StatusText colors a label green when ok, red otherwise.
func StatusText(label string, ok bool) string {
	return lipgloss.NewStyle().Foreground(theme.Active.Status(ok)).Render(label)
}
