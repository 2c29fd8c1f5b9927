// Package popup builds the compact alert summary shown by the browser-extension popup
// and serves it over local HTTP.
package popup

import (
	"context"
	"fmt"
	"time"

	"github.com/theirongolddev/cloud9/internal/api"
	"github.com/theirongolddev/cloud9/internal/widget"

	"github.com/shopspring/decimal"
)

// Source is the part of the API client the popup reads.
type Source interface {
	Metrics(ctx context.Context) (api.Metrics, error)
	Security(ctx context.Context) (api.SecurityReport, error)
}

// BudgetStatus compares total spend against the monthly limit.
type BudgetStatus struct {
	TotalSpend decimal.Decimal `json:"total_spend"`
	Limit      decimal.Decimal `json:"limit"`
	OverBudget bool            `json:"over_budget"`
	Label      string          `json:"label"`
}

// Summary is one popup mount. Nil sections failed to load; Errors says why.
type Summary struct {
	FetchedAt        time.Time         `json:"fetched_at"`
	Budget           *BudgetStatus     `json:"budget,omitempty"`
	IdleResources    *int              `json:"idle_resources,omitempty"`
	PredictedSavings *decimal.Decimal  `json:"predicted_savings,omitempty"`
	SecurityIssues   *int              `json:"security_issues,omitempty"`
	Errors           map[string]string `json:"errors,omitempty"`
}

// NewBudgetStatus reports over budget only when spend is strictly above limit.
func NewBudgetStatus(spend, limit decimal.Decimal) BudgetStatus {
	over := spend.GreaterThan(limit)
	label := "OK"
	if over {
		label = "Over Budget"
	}
	return BudgetStatus{TotalSpend: spend, Limit: limit, OverBudget: over, Label: label}
}

// Build fetches metrics and security as two independent widgets.
func Build(ctx context.Context, src Source, limit decimal.Decimal) Summary {
	var (
		metrics  widget.State[api.Metrics]
		security widget.State[api.SecurityReport]
	)
	widget.LoadAll(ctx,
		widget.Into(&metrics, widget.Metrics, src.Metrics),
		widget.Into(&security, widget.Security, src.Security),
	)

	s := Summary{FetchedAt: time.Now()}
	if metrics.Ready() {
		b := NewBudgetStatus(metrics.Data.TotalSpend, limit)
		idle := metrics.Data.IdleResources
		savings := metrics.Data.PredictedSavings
		s.Budget = &b
		s.IdleResources = &idle
		s.PredictedSavings = &savings
	} else {
		s.addError(metrics.Kind, metrics.Message())
	}
	if security.Ready() {
		issues := security.Data.IssuesFound
		s.SecurityIssues = &issues
	} else {
		s.addError(security.Kind, security.Message())
	}
	return s
}

func (s *Summary) addError(k widget.Kind, msg string) {
	if s.Errors == nil {
		s.Errors = make(map[string]string)
	}
	s.Errors[string(k)] = msg
}

// IdleLabel renders the idle count, e.g. "4 detected".
func (s Summary) IdleLabel() string {
	if s.IdleResources == nil {
		return ""
	}
	return fmt.Sprintf("%d detected", *s.IdleResources)
}

// SecurityLabel renders the issue count, e.g. "2 issues".
func (s Summary) SecurityLabel() string {
	if s.SecurityIssues == nil {
		return ""
	}
	return fmt.Sprintf("%d issues", *s.SecurityIssues)
}
