// Package widget models dashboard widgets as independent fetch-and-render units.
// A widget's failure is held in its own state and never reaches its siblings.
package widget

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Kind identifies a widget.
type Kind string

const (
	Metrics       Kind = "metrics"
	SpendOverview Kind = "spend-overview"
	SpendHistory  Kind = "spend-history"
	Instances     Kind = "instances"
	Buckets       Kind = "buckets"
	IdleResources Kind = "idle-resources"
	Security      Kind = "security"
	SecurityTrend Kind = "security-trend"
	Optimizer     Kind = "optimizer"
)

var kindInfo = map[Kind]struct{ title, failure string }{
	Metrics:       {"Metrics", "Failed to fetch metrics"},
	SpendOverview: {"Spend Overview", "Failed to fetch spend overview"},
	SpendHistory:  {"Spend History", "Failed to fetch spend history"},
	Instances:     {"Active Instances", "Failed to fetch instances"},
	Buckets:       {"Storage Buckets", "Failed to fetch storage buckets"},
	IdleResources: {"Idle Resources", "Failed to fetch idle resources"},
	Security:      {"Security Overview", "Failed to fetch security data"},
	SecurityTrend: {"Security Compliance Trend", "Failed to fetch security trend data"},
	Optimizer:     {"Optimization Recommendations", "Failed to fetch optimization data"},
}

// Title is the heading shown above the widget.
func (k Kind) Title() string {
	if info, ok := kindInfo[k]; ok {
		return info.title
	}
	return string(k)
}

// FailureMessage is the fixed text shown when the widget's fetch fails.
func (k Kind) FailureMessage() string {
	if info, ok := kindInfo[k]; ok {
		return info.failure
	}
	return "Failed to fetch data"
}

// Status is the lifecycle of a single widget fetch.
type Status int

const (
	Loading Status = iota
	Ready
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// State is one widget's data for the current mount.
type State[T any] struct {
	Kind   Kind
	Status Status
	Data   T
	Err    error
}

// NewLoading returns the state a widget starts each mount in.
func NewLoading[T any](kind Kind) State[T] {
	return State[T]{Kind: kind, Status: Loading}
}

// Ready reports whether Data is usable.
func (s State[T]) Ready() bool { return s.Status == Ready }

// Message returns the failure text, or "" when the widget did not fail.
func (s State[T]) Message() string {
	if s.Status != Failed {
		return ""
	}
	return s.Kind.FailureMessage()
}

// Fetch produces a widget's data.
type Fetch[T any] func(ctx context.Context) (T, error)

// Load runs fetch once and folds the outcome into a State.
func Load[T any](ctx context.Context, kind Kind, fetch Fetch[T]) State[T] {
	data, err := fetch(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("widget", string(kind)).Msg("widget fetch failed")
		return State[T]{Kind: kind, Status: Failed, Err: err}
	}
	return State[T]{Kind: kind, Status: Ready, Data: data}
}

// LoadAll runs the loaders concurrently and waits for every one of them.
// Loaders record their own outcome, so none can cancel another.
func LoadAll(ctx context.Context, loaders ...func(context.Context)) {
	var g errgroup.Group
	for _, load := range loaders {
		g.Go(func() error {
			load(ctx)
			return nil
		})
	}
	_ = g.Wait()
}

// Into adapts Load to LoadAll by writing the resulting state to dst.
func Into[T any](dst *State[T], kind Kind, fetch Fetch[T]) func(context.Context) {
	return func(ctx context.Context) {
		*dst = Load(ctx, kind, fetch)
	}
}
