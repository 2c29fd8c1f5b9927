package popup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/theirongolddev/cloud9/internal/api"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSource struct {
	metrics     api.Metrics
	metricsErr  error
	security    api.SecurityReport
	securityErr error
}

func (f fakeSource) Metrics(context.Context) (api.Metrics, error) {
	return f.metrics, f.metricsErr
}

func (f fakeSource) Security(context.Context) (api.SecurityReport, error) {
	return f.security, f.securityErr
}

var limit = decimal.NewFromInt(25000)

func TestBudgetStatusFlipsStrictlyAboveLimit(t *testing.T) {
	assert.False(t, NewBudgetStatus(decimal.NewFromInt(25000), limit).OverBudget)
	assert.Equal(t, "OK", NewBudgetStatus(decimal.NewFromInt(25000), limit).Label)

	over := NewBudgetStatus(decimal.RequireFromString("25000.01"), limit)
	assert.True(t, over.OverBudget)
	assert.Equal(t, "Over Budget", over.Label)
}

func TestBuildAllSections(t *testing.T) {
	s := Build(context.Background(), fakeSource{
		metrics:  api.Metrics{TotalSpend: decimal.NewFromInt(26000), IdleResources: 4, PredictedSavings: decimal.NewFromInt(400)},
		security: api.SecurityReport{IssuesFound: 2},
	}, limit)

	require.NotNil(t, s.Budget)
	assert.True(t, s.Budget.OverBudget)
	assert.Equal(t, "4 detected", s.IdleLabel())
	assert.Equal(t, "2 issues", s.SecurityLabel())
	assert.True(t, s.PredictedSavings.Equal(decimal.NewFromInt(400)))
	assert.Empty(t, s.Errors)
}

func TestBuildIsolatesFailedSection(t *testing.T) {
	s := Build(context.Background(), fakeSource{
		metricsErr: errors.New("connection refused"),
		security:   api.SecurityReport{IssuesFound: 5},
	}, limit)

	assert.Nil(t, s.Budget)
	assert.Nil(t, s.IdleResources)
	assert.Empty(t, s.IdleLabel())
	assert.Equal(t, "5 issues", s.SecurityLabel())
	assert.Equal(t, map[string]string{"metrics": "Failed to fetch metrics"}, s.Errors)
}

func TestPopupEndpoint(t *testing.T) {
	var logs bytes.Buffer
	svc := New(Config{Limit: limit}, fakeSource{
		metrics:     api.Metrics{TotalSpend: decimal.NewFromInt(100), IdleResources: 1},
		securityErr: errors.New("timeout"),
	}, zerolog.New(&logs))

	srv := httptest.NewServer(svc.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/popup")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	budget, ok := body["budget"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "OK", budget["label"])
	assert.Equal(t, float64(1), body["idle_resources"])
	assert.NotContains(t, body, "security_issues")
	assert.Equal(t, map[string]any{"security": "Failed to fetch security data"}, body["errors"])

	assert.Contains(t, logs.String(), `"path":"/v1/popup"`)
	assert.Contains(t, logs.String(), `"request_id"`)
}

func TestHealthAndStatus(t *testing.T) {
	svc := New(Config{Limit: limit}, fakeSource{}, zerolog.Nop())

	rec := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())

	rec = httptest.NewRecorder()
	svc.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/popup", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	svc.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/status", nil))
	var st Status
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&st))
	assert.Equal(t, int64(1), st.Requests)
	assert.Equal(t, 0, st.LastErrors)
}

func TestRunStopsOnCancel(t *testing.T) {
	svc := New(Config{Addr: "127.0.0.1:0", Limit: limit}, fakeSource{}, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()
	cancel()
	assert.NoError(t, <-done)
}
