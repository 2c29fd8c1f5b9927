// Package tui provides the interactive Bubble Tea dashboard for cloud9.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/cloud9/internal/config"
	"github.com/theirongolddev/cloud9/internal/model"
	"github.com/theirongolddev/cloud9/internal/store"
	"github.com/theirongolddev/cloud9/internal/tui/components"
	"github.com/theirongolddev/cloud9/internal/tui/theme"
	"github.com/theirongolddev/cloud9/internal/widget"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

// Tab indices, in the order of components.Tabs.
const (
	tabDashboard = iota
	tabBudget
	tabSecurity
	tabOptimizer
	tabChat
)

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180
	minContentHeight = 5
)

// Options configures NewApp.
type Options struct {
	Source   Source
	Config   config.Config
	Provider model.Provider
	Store    *store.Store // optional; credentials are not saved without it
	Logger   *zerolog.Logger
	// NeedSetup opens the provider wizard before the first mount.
	NeedSetup bool
	// Saved seeds the wizard with stored credential profiles.
	Saved map[model.Provider]model.Credentials
}

// App is the root Bubble Tea model.
type App struct {
	ctx      context.Context
	src      Source
	cfg      config.Config
	provider model.Provider
	store    *store.Store

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Current mount. Results tagged with another mountID are dropped.
	mountID   string
	mountedAt time.Time
	widgets   widgetSet
	pending   map[widget.Kind]bool
	spinner   spinner.Model
	chat      chatState

	// Provider wizard (huh form)
	setupForm *huh.Form
	setupVals *SetupValues
	needSetup bool
}

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	logger := opts.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	provider := opts.Provider
	if !provider.Known() {
		provider = model.AWS
	}

	a := App{
		ctx:       logger.WithContext(context.Background()),
		src:       opts.Source,
		cfg:       opts.Config,
		provider:  provider,
		store:     opts.Store,
		spinner:   sp,
		widgets:   newWidgetSet(),
		pending:   make(map[widget.Kind]bool),
		needSetup: opts.NeedSetup,
	}
	if a.needSetup {
		a.setupVals = NewSetupValues(opts.Config, opts.Saved)
		a.setupForm = NewSetupForm(a.setupVals)
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	if a.needSetup && a.setupForm != nil {
		return tea.Batch(tea.EnableMouseCellMotion, a.setupForm.Init())
	}
	// Init cannot keep state, so the first mount happens via a message.
	return tea.Batch(tea.EnableMouseCellMotion, func() tea.Msg { return remountMsg{} })
}

// remountMsg asks Update to mount the active tab.
type remountMsg struct{}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case remountMsg:
		cmd := a.mount()
		return a, cmd

	case tea.MouseMsg:
		if a.showHelp || a.setupForm != nil {
			return a, nil
		}
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && msg.Y <= 1 {
			if tab := a.tabAtX(msg.X); tab >= 0 && tab != a.activeTab {
				return a.switchTab(tab)
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		// Provider wizard intercepts all keys
		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		// Chat input captures typing while focused
		if a.activeTab == tabChat && a.chat.input.Focused() {
			return a.updateChatInput(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "r":
			cmd := a.mount()
			return a, cmd
		case "p":
			return a.openSetup()
		case "i":
			if a.activeTab == tabChat {
				cmd := a.chat.input.Focus()
				return a, cmd
			}
			return a, nil
		case "left":
			return a.switchTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
		case "right":
			return a.switchTab((a.activeTab + 1) % len(components.Tabs))
		}

		if len(msg.Runes) == 1 {
			if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 && idx != a.activeTab {
				return a.switchTab(idx)
			}
		}
		return a, nil

	case widgetMsg:
		if msg.mountID != a.mountID {
			return a, nil
		}
		msg.apply(&a.widgets)
		delete(a.pending, msg.kind)
		return a, nil

	case chatReplyMsg:
		if msg.mountID != a.chat.mountID || a.activeTab != tabChat {
			return a, nil
		}
		a.chat.receive(msg, chatWidth(a.contentWidth()))
		return a, nil

	case spinner.TickMsg:
		if len(a.pending) == 0 && !a.chat.waiting {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	// Forward unhandled messages (cursor blinks, etc.)
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.activeTab == tabChat {
		var cmd tea.Cmd
		a.chat.input, cmd = a.chat.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

// switchTab activates tab idx and mounts it.
func (a App) switchTab(idx int) (tea.Model, tea.Cmd) {
	a.activeTab = idx
	cmd := a.mount()
	return a, cmd
}

// openSetup re-enters the provider wizard from the dashboard.
func (a App) openSetup() (tea.Model, tea.Cmd) {
	saved := make(map[model.Provider]model.Credentials)
	if a.store != nil {
		for _, p := range model.Providers {
			if c, ok, err := a.store.LoadCredentials(p); err == nil && ok {
				saved[p] = c
			}
		}
	}
	a.setupVals = NewSetupValues(a.cfg, saved)
	a.setupVals.Provider = string(a.provider)
	a.setupForm = NewSetupForm(a.setupVals)
	if a.width > 0 {
		a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
	}
	return a, a.setupForm.Init()
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		cfg, err := SaveSetup(a.setupVals, a.store)
		if err != nil {
			zerolog.Ctx(a.ctx).Error().Err(err).Msg("saving setup")
		}
		a.cfg = cfg
		theme.SetActive(cfg.Appearance.Theme)
		a.spinner.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)
		if p := model.Provider(a.setupVals.Provider); p.Known() {
			a.provider = p
		}
		a.needSetup = false
		a.setupForm = nil
		cmd := a.mount()
		return a, cmd

	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		cmd := a.mount()
		return a, cmd
	}

	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  cloud9 needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	sectionStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Cyan).
		Background(t.Surface).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		title    string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"d b s o c", "Jump to tab"},
			{"← →", "Previous / Next tab"},
		}},
		{"Actions", [][2]string{
			{"r", "Reload the current page"},
			{"p", "Change provider / credentials"},
			{"i", "Focus chat input"},
			{"Esc", "Leave chat input"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind[0])),
				descStyle.Render(bind[1]))
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w) + "\n"

	age := ""
	if !a.mountedAt.IsZero() {
		age = time.Since(a.mountedAt).Truncate(time.Second).String() + " ago"
	}
	statusBar := components.RenderStatusBar(w, a.provider.DisplayName(), len(a.pending), age)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabDashboard:
		content = a.renderDashboardTab(cw)
	case tabBudget:
		content = a.renderBudgetTab(cw)
	case tabSecurity:
		content = a.renderSecurityTab(cw)
	case tabOptimizer:
		content = a.renderOptimizerTab(cw)
	case tabChat:
		content = a.renderChatTab(cw, contentH)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow the width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// One column separator between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
