package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Options{BaseURL: srv.URL, ChatURL: srv.URL, Timeout: 2 * time.Second})
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, body)
}

func TestMetricsDecodesMoneyAsDecimal(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/metrics", r.URL.Path)
		writeJSON(w, `{"totalSpend": 26543.21, "idleResources": 4, "predictedSavings": 400, "anomalies": 3}`)
	}))

	m, err := c.Metrics(context.Background())
	require.NoError(t, err)
	assert.True(t, m.TotalSpend.Equal(decimal.RequireFromString("26543.21")))
	assert.Equal(t, 4, m.IdleResources)
	assert.True(t, m.PredictedSavings.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, 3, m.Anomalies)
}

func TestSecurityAcceptsIntegerPublicBuckets(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{
			"issues_found": 2,
			"compliance_score": 71,
			"public_buckets": 1,
			"open_ports": [22, 3389],
			"iam_misconfiguration": true,
			"encryption_missing": false,
			"mfa_missing": false,
			"suspicious_login_detected": true,
			"recommendations": ["Restrict public access to storage buckets."]
		}`)
	}))

	got, err := c.Security(context.Background())
	require.NoError(t, err)

	want := SecurityReport{
		IssuesFound:             2,
		ComplianceScore:         71,
		PublicBuckets:           true,
		OpenPorts:               []int{22, 3389},
		IAMMisconfiguration:     true,
		SuspiciousLoginDetected: true,
		Recommendations:         []string{"Restrict public access to storage buckets."},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("security report mismatch (-want +got):\n%s", diff)
	}
}

func TestFlagUnmarshal(t *testing.T) {
	cases := map[string]bool{"true": true, "false": false, "0": false, "1": true, "2": true}
	for raw, want := range cases {
		var f Flag
		require.NoError(t, json.Unmarshal([]byte(raw), &f), raw)
		assert.Equal(t, want, bool(f), raw)
	}

	var f Flag
	assert.Error(t, json.Unmarshal([]byte(`"yes"`), &f))
}

func TestProviderScopedEndpointsSendQuery(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gcp", r.URL.Query().Get("provider"))
		switch r.URL.Path {
		case "/instances":
			writeJSON(w, `{"instances": [{"id": "vm-1", "type": "e2-medium", "state": "running", "launch_time": "2025-01-02"}]}`)
		case "/storage":
			writeJSON(w, `{"buckets": [{"name": "gcp-storage-1234", "creation_date": "2024-03-01", "public_access": true}]}`)
		default:
			http.NotFound(w, r)
		}
	}))

	instances, err := c.Instances(context.Background(), "gcp")
	require.NoError(t, err)
	assert.Equal(t, []Instance{{ID: "vm-1", Type: "e2-medium", State: "running", LaunchTime: "2025-01-02"}}, instances)

	buckets, err := c.Buckets(context.Background(), "gcp")
	require.NoError(t, err)
	assert.Equal(t, []Bucket{{Name: "gcp-storage-1234", CreationDate: "2024-03-01", PublicAccess: true}}, buckets)
}

func TestProviderQueryOmittedWhenEmpty(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		writeJSON(w, `{"instances": []}`)
	}))

	instances, err := c.Instances(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, instances)
}

func TestSpendHistoryAndTrend(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/spend-history":
			writeJSON(w, `{"months": ["Jan", "Feb"], "spend": [2000, 2600.5]}`)
		case "/security/trend":
			writeJSON(w, `[{"date": "2025-06-01", "compliance_score": 81}, {"date": "2025-06-02", "compliance_score": 77}]`)
		case "/ai/idle-detection":
			writeJSON(w, `{"idle_resources": [{"id": "vm-9", "resource_type": "VM", "cpu_usage": 1.5, "memory_usage": 3, "uptime": 40, "network_in": 0.2, "disk_read": 120, "status": "Idle"}]}`)
		default:
			http.NotFound(w, r)
		}
	}))

	h, err := c.SpendHistory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SpendHistory{Months: []string{"Jan", "Feb"}, Spend: []float64{2000, 2600.5}}, h)

	trend, err := c.SecurityTrend(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []TrendPoint{{Date: "2025-06-01", ComplianceScore: 81}, {Date: "2025-06-02", ComplianceScore: 77}}, trend)

	idle, err := c.IdleResources(context.Background())
	require.NoError(t, err)
	require.Len(t, idle, 1)
	assert.Equal(t, "Idle", idle[0].Status)
	assert.InDelta(t, 1.5, idle[0].CPUUsage, 1e-9)
}

func TestOptimizeUsesPost(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/optimizer", r.URL.Path)
		writeJSON(w, `{"recommendations": [{"resource_id": "vm-3", "cluster_id": 1, "recommendation": "Switch to spot instances"}]}`)
	}))

	recs, err := c.Optimize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Recommendation{{ResourceID: "vm-3", ClusterID: 1, Recommendation: "Switch to spot instances"}}, recs)
}

func TestAskPostsQuestion(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "which buckets are public?", req.Question)
		writeJSON(w, `{"response": "Two buckets are public."}`)
	}))

	answer, err := c.Ask(context.Background(), "which buckets are public?")
	require.NoError(t, err)
	assert.Equal(t, "Two buckets are public.", answer)
}

func TestStatusErrors(t *testing.T) {
	unavailable := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := unavailable.Metrics(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusServiceUnavailable, se.Code)
	assert.Equal(t, "/metrics", se.Path)

	broken := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err = broken.Security(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnavailable))
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Code)
}

func TestMalformedBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"months": "not-an-array"}`)
	}))

	_, err := c.SpendHistory(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing /spend-history")
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Options{BaseURL: "http://example.test/"})
	assert.Equal(t, "http://example.test", c.BaseURL())
	assert.Equal(t, DefaultChatURL, c.chatURL)
	assert.Equal(t, defaultTimeout, c.Timeout())
}
