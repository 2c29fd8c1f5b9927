package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/cloud9/internal/api"
	"github.com/theirongolddev/cloud9/internal/model"
	"github.com/theirongolddev/cloud9/internal/popup"
	"github.com/theirongolddev/cloud9/internal/spend"
	"github.com/theirongolddev/cloud9/internal/widget"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDown = errors.New("connection refused")

type stubSource struct {
	failSpend bool
}

func (s stubSource) Metrics(context.Context) (api.Metrics, error) {
	return api.Metrics{TotalSpend: decimal.NewFromInt(26000), IdleResources: 4, PredictedSavings: decimal.NewFromInt(400)}, nil
}

func (s stubSource) Security(context.Context) (api.SecurityReport, error) {
	return api.SecurityReport{IssuesFound: 2, ComplianceScore: 71, Recommendations: []string{"Enable MFA."}}, nil
}

func (s stubSource) SecurityTrend(context.Context) ([]api.TrendPoint, error) {
	return []api.TrendPoint{{Date: "2025-06-01", ComplianceScore: 80}, {Date: "2025-06-02", ComplianceScore: 90}}, nil
}

func (s stubSource) Instances(context.Context, string) ([]api.Instance, error) {
	return nil, errDown
}

func (s stubSource) Buckets(context.Context, string) ([]api.Bucket, error) {
	return []api.Bucket{{Name: "logs", CreationDate: "2024-01-01", PublicAccess: true}}, nil
}

func (s stubSource) IdleResources(context.Context) ([]api.IdleResource, error) {
	return nil, nil
}

func (s stubSource) SpendHistory(context.Context) (api.SpendHistory, error) {
	if s.failSpend {
		return api.SpendHistory{}, errDown
	}
	return api.SpendHistory{Months: []string{"Jan", "Feb", "Mar"}, Spend: []float64{2000, 2000, 2600}}, nil
}

func (s stubSource) Optimize(context.Context) ([]api.Recommendation, error) {
	return []api.Recommendation{{ResourceID: "vm-3", ClusterID: 2, Recommendation: "Downsize"}}, nil
}

func (s stubSource) Ask(context.Context, string) (string, error) {
	return "", errDown
}

func newTestReport() *report {
	return &report{provider: model.Azure, currency: "$", limit: decimal.NewFromInt(25000)}
}

func TestReportIsolatesFailures(t *testing.T) {
	r := newTestReport()
	loadReport(context.Background(), stubSource{}, r,
		widget.Metrics, widget.SpendHistory, widget.Instances, widget.Buckets, widget.IdleResources)

	assert.Equal(t, widget.Failed, r.instances.Status)
	assert.True(t, r.metrics.Ready())
	assert.True(t, r.buckets.Ready())
	assert.True(t, r.history.Ready())

	var buf bytes.Buffer
	r.writeInstances(&buf)
	r.writeBuckets(&buf)
	r.writeIdle(&buf)
	r.writeSpendHistory(&buf)

	out := buf.String()
	assert.Contains(t, out, "Failed to fetch instances")
	assert.Contains(t, out, "logs")
	assert.Contains(t, out, "No idle resources found.")
	assert.Contains(t, out, spend.Banner)
	assert.Contains(t, out, "+30.0%")
}

func TestReportSpendFailureShowsMessage(t *testing.T) {
	r := newTestReport()
	loadReport(context.Background(), stubSource{failSpend: true}, r, widget.SpendOverview, widget.SpendHistory)

	var buf bytes.Buffer
	r.writeSpendOverview(&buf)
	r.writeSpendHistory(&buf)

	assert.Contains(t, buf.String(), "Failed to fetch spend overview")
	assert.Contains(t, buf.String(), "Failed to fetch spend history")
	assert.NotContains(t, buf.String(), spend.Banner)
}

func TestReportBudgetAndSecurity(t *testing.T) {
	r := newTestReport()
	loadReport(context.Background(), stubSource{}, r, widget.Metrics, widget.Security, widget.Optimizer)

	var buf bytes.Buffer
	r.writeBudget(&buf)
	r.writeSecurity(&buf)
	r.writeOptimizer(&buf)

	out := buf.String()
	assert.Contains(t, out, "Over Budget")
	assert.Contains(t, out, "$26,000.00")
	assert.Contains(t, out, "None")
	assert.Contains(t, out, "Enable MFA.")
	assert.Contains(t, out, "Downsize")
}

func TestWritePopupSummary(t *testing.T) {
	sum := popup.Build(context.Background(), stubSource{}, decimal.NewFromInt(25000))

	var buf bytes.Buffer
	writePopupSummary(&buf, sum, "$")

	out := buf.String()
	assert.Contains(t, out, "Over Budget")
	assert.Contains(t, out, "4 detected")
	assert.Contains(t, out, "$400.00")
	assert.Contains(t, out, "2 issues")
}

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"popup", "serve", "--detach", "--addr", ":9", "--detach=true"})
	assert.Equal(t, []string{"popup", "serve", "--addr", ":9"}, got)
}

func TestPIDFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "popup.pid")
	require.NoError(t, writePID(path, 4242))

	pid, err := readPID(path)
	require.NoError(t, err)
	assert.Equal(t, 4242, pid)

	require.NoError(t, ensurePopupNotRunning(filepath.Join(t.TempDir(), "missing.pid")))
}
