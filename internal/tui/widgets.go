package tui

import (
	"context"
	"time"

	"github.com/theirongolddev/cloud9/internal/api"
	"github.com/theirongolddev/cloud9/internal/spend"
	"github.com/theirongolddev/cloud9/internal/widget"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// Source is the API surface the dashboard reads from. *api.Client satisfies it.
type Source interface {
	Metrics(ctx context.Context) (api.Metrics, error)
	Security(ctx context.Context) (api.SecurityReport, error)
	SecurityTrend(ctx context.Context) ([]api.TrendPoint, error)
	Instances(ctx context.Context, provider string) ([]api.Instance, error)
	Buckets(ctx context.Context, provider string) ([]api.Bucket, error)
	IdleResources(ctx context.Context) ([]api.IdleResource, error)
	SpendHistory(ctx context.Context) (api.SpendHistory, error)
	Optimize(ctx context.Context) ([]api.Recommendation, error)
	Ask(ctx context.Context, question string) (string, error)
}

// widgetSet holds every widget's state for the current mount.
type widgetSet struct {
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

func newWidgetSet() widgetSet {
	return widgetSet{
		metrics:   widget.NewLoading[api.Metrics](widget.Metrics),
		overview:  widget.NewLoading[spend.Series](widget.SpendOverview),
		history:   widget.NewLoading[spend.Series](widget.SpendHistory),
		instances: widget.NewLoading[[]api.Instance](widget.Instances),
		buckets:   widget.NewLoading[[]api.Bucket](widget.Buckets),
		idle:      widget.NewLoading[[]api.IdleResource](widget.IdleResources),
		security:  widget.NewLoading[api.SecurityReport](widget.Security),
		trend:     widget.NewLoading[[]api.TrendPoint](widget.SecurityTrend),
		optimizer: widget.NewLoading[[]api.Recommendation](widget.Optimizer),
	}
}

// widgetMsg carries one widget's fetch result back to Update.
type widgetMsg struct {
	mountID string
	kind    widget.Kind
	apply   func(*widgetSet)
}

// loadWidget wraps a single fetch as a command tagged with the mount it belongs to.
func loadWidget[T any](ctx context.Context, mountID string, kind widget.Kind, fetch widget.Fetch[T], set func(*widgetSet, widget.State[T])) tea.Cmd {
	return func() tea.Msg {
		st := widget.Load(ctx, kind, fetch)
		return widgetMsg{
			mountID: mountID,
			kind:    kind,
			apply:   func(w *widgetSet) { set(w, st) },
		}
	}
}

// pageWidgets lists the widgets each tab mounts.
var pageWidgets = map[int][]widget.Kind{
	tabDashboard: {
		widget.Metrics, widget.SpendOverview, widget.SpendHistory, widget.Instances,
		widget.Buckets, widget.IdleResources, widget.Security, widget.SecurityTrend,
	},
	tabBudget:    {widget.Metrics, widget.SpendOverview, widget.SpendHistory},
	tabSecurity:  {widget.Security, widget.SecurityTrend},
	tabOptimizer: {widget.Optimizer},
	tabChat:      nil,
}

// mount starts a fresh mount of the active tab: new ID, all widgets
// loading, one fetch command per widget on the page.
func (a *App) mount() tea.Cmd {
	a.mountID = uuid.NewString()
	a.mountedAt = time.Now()
	a.widgets = newWidgetSet()
	a.pending = make(map[widget.Kind]bool)

	if a.activeTab == tabChat {
		a.chat = newChatState(a.mountID)
		return a.chat.input.Focus()
	}

	var cmds []tea.Cmd
	for _, k := range pageWidgets[a.activeTab] {
		a.pending[k] = true
		cmds = append(cmds, a.fetchCmd(k))
	}
	cmds = append(cmds, a.spinner.Tick)
	return tea.Batch(cmds...)
}

func (a App) fetchCmd(k widget.Kind) tea.Cmd {
	ctx, id, src := a.ctx, a.mountID, a.src
	provider := string(a.provider)
	loadSpend := func(ctx context.Context) (spend.Series, error) { return spend.Load(ctx, src) }

	switch k {
	case widget.Metrics:
		return loadWidget(ctx, id, k, src.Metrics, func(w *widgetSet, s widget.State[api.Metrics]) { w.metrics = s })
	case widget.SpendOverview:
		return loadWidget(ctx, id, k, loadSpend, func(w *widgetSet, s widget.State[spend.Series]) { w.overview = s })
	case widget.SpendHistory:
		return loadWidget(ctx, id, k, loadSpend, func(w *widgetSet, s widget.State[spend.Series]) { w.history = s })
	case widget.Instances:
		fetch := func(ctx context.Context) ([]api.Instance, error) { return src.Instances(ctx, provider) }
		return loadWidget(ctx, id, k, fetch, func(w *widgetSet, s widget.State[[]api.Instance]) { w.instances = s })
	case widget.Buckets:
		fetch := func(ctx context.Context) ([]api.Bucket, error) { return src.Buckets(ctx, provider) }
		return loadWidget(ctx, id, k, fetch, func(w *widgetSet, s widget.State[[]api.Bucket]) { w.buckets = s })
	case widget.IdleResources:
		return loadWidget(ctx, id, k, src.IdleResources, func(w *widgetSet, s widget.State[[]api.IdleResource]) { w.idle = s })
	case widget.Security:
		return loadWidget(ctx, id, k, src.Security, func(w *widgetSet, s widget.State[api.SecurityReport]) { w.security = s })
	case widget.SecurityTrend:
		return loadWidget(ctx, id, k, src.SecurityTrend, func(w *widgetSet, s widget.State[[]api.TrendPoint]) { w.trend = s })
	case widget.Optimizer:
		return loadWidget(ctx, id, k, src.Optimize, func(w *widgetSet, s widget.State[[]api.Recommendation]) { w.optimizer = s })
	}
	return nil
}
