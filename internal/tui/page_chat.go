package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/theirongolddev/cloud9/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

const (
	chatGreeting = "Hi! I can help with your cloud insights."
	chatTyping   = "Typing..."
)

type chatEntry struct {
	fromBot  bool
	text     string
	rendered string // markdown output for bot answers
}

// chatState is the Chat tab's transcript for one mount.
type chatState struct {
	mountID    string
	input      textinput.Model
	transcript []chatEntry
	waiting    bool
}

// chatReplyMsg is the chat service's answer, or the error from asking.
type chatReplyMsg struct {
	mountID string
	answer  string
	err     error
}

func newChatState(mountID string) chatState {
	ti := textinput.New()
	ti.Placeholder = "Ask about cloud usage or security..."
	ti.CharLimit = 500
	ti.Prompt = "› "

	return chatState{
		mountID:    mountID,
		input:      ti,
		transcript: []chatEntry{{fromBot: true, text: chatGreeting}},
	}
}

// submit appends the user's question and returns the command that asks it.
// Blank input is ignored.
func (c *chatState) submit(ctx context.Context, src Source) tea.Cmd {
	q := strings.TrimSpace(c.input.Value())
	if q == "" || c.waiting {
		return nil
	}
	c.transcript = append(c.transcript, chatEntry{text: q})
	c.input.SetValue("")
	c.waiting = true

	mountID := c.mountID
	return func() tea.Msg {
		answer, err := src.Ask(ctx, q)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("chat request failed")
		}
		return chatReplyMsg{mountID: mountID, answer: answer, err: err}
	}
}

func (c *chatState) receive(msg chatReplyMsg, width int) {
	c.waiting = false
	if msg.err != nil {
		c.transcript = append(c.transcript, chatEntry{fromBot: true, text: fmt.Sprintf("Failed to connect to chatbot: %v", msg.err)})
		return
	}
	c.transcript = append(c.transcript, chatEntry{
		fromBot:  true,
		text:     msg.answer,
		rendered: renderMarkdown(msg.answer, width),
	})
}

func (a App) updateChatInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		cmd := a.chat.submit(a.ctx, a.src)
		return a, cmd
	case "esc":
		a.chat.input.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.chat.input, cmd = a.chat.input.Update(msg)
	return a, cmd
}

func (a App) renderChatTab(cw, h int) string {
	t := theme.Active

	botStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	userStyle := lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Background(t.SurfaceHover).
		Padding(0, 1)
	whoStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	innerW := chatWidth(cw)

	var lines []string
	for _, e := range a.chat.transcript {
		if e.fromBot {
			lines = append(lines, whoStyle.Render("Cloud9"))
			if e.rendered != "" {
				lines = append(lines, e.rendered)
			} else {
				lines = append(lines, botStyle.Width(innerW).Render(e.text))
			}
		} else {
			lines = append(lines, lipgloss.PlaceHorizontal(innerW, lipgloss.Right, userStyle.Render(e.text)))
		}
		lines = append(lines, "")
	}
	if a.chat.waiting {
		lines = append(lines, dimStyle.Render(chatTyping))
	}

	// Keep the newest messages in view above the input.
	body := strings.Join(lines, "\n")
	bodyLines := strings.Split(body, "\n")
	room := max(h-6, 3)
	if len(bodyLines) > room {
		bodyLines = bodyLines[len(bodyLines)-room:]
	}

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Width(max(cw-2, 10))
	if a.chat.input.Focused() {
		inputStyle = inputStyle.BorderForeground(t.BorderAccent)
	}

	hint := "enter send · esc leave input"
	if !a.chat.input.Focused() {
		hint = "i to type · ←/→ switch tabs"
	}

	return lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Render("  Ask Cloud9!") + "\n\n" +
		strings.Join(bodyLines, "\n") + "\n" +
		inputStyle.Render(a.chat.input.View()) + "\n" +
		dimStyle.Render("  "+hint)
}

func chatWidth(cw int) int {
	return max(cw-4, 20)
}

// renderMarkdown renders a bot answer. Plain text falls back unchanged
// when the renderer cannot be built.
func renderMarkdown(text string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}
