package widget

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestLoadReady(t *testing.T) {
	st := Load(context.Background(), Instances, func(context.Context) ([]string, error) {
		return []string{"i-1"}, nil
	})
	assert.Equal(t, Ready, st.Status)
	assert.True(t, st.Ready())
	assert.Equal(t, []string{"i-1"}, st.Data)
	assert.Empty(t, st.Message())
}

func TestLoadFailureUsesStaticMessage(t *testing.T) {
	var buf bytes.Buffer
	ctx := zerolog.New(&buf).WithContext(context.Background())

	st := Load(ctx, Buckets, func(context.Context) ([]string, error) {
		return nil, errors.New("dial tcp: connection refused")
	})
	assert.Equal(t, Failed, st.Status)
	assert.Equal(t, "Failed to fetch storage buckets", st.Message())
	assert.Nil(t, st.Data)
	assert.Contains(t, buf.String(), `"widget":"buckets"`)
}

func TestNewLoading(t *testing.T) {
	st := NewLoading[int](Metrics)
	assert.Equal(t, Loading, st.Status)
	assert.False(t, st.Ready())
	assert.Empty(t, st.Message())
}

func TestFailureMessages(t *testing.T) {
	want := map[Kind]string{
		Metrics:       "Failed to fetch metrics",
		SpendOverview: "Failed to fetch spend overview",
		SpendHistory:  "Failed to fetch spend history",
		Instances:     "Failed to fetch instances",
		Buckets:       "Failed to fetch storage buckets",
		IdleResources: "Failed to fetch idle resources",
		Security:      "Failed to fetch security data",
		SecurityTrend: "Failed to fetch security trend data",
		Optimizer:     "Failed to fetch optimization data",
	}
	for k, msg := range want {
		assert.Equal(t, msg, k.FailureMessage(), k)
		assert.NotEqual(t, string(k), k.Title(), k)
	}
	assert.Equal(t, "Failed to fetch data", Kind("other").FailureMessage())
}

func TestLoadAllIsolatesFailures(t *testing.T) {
	var (
		metrics  State[int]
		security State[string]
		trend    State[[]int]
	)

	LoadAll(context.Background(),
		Into(&metrics, Metrics, func(context.Context) (int, error) { return 42, nil }),
		Into(&security, Security, func(context.Context) (string, error) { return "", errors.New("boom") }),
		Into(&trend, SecurityTrend, func(ctx context.Context) ([]int, error) {
			time.Sleep(10 * time.Millisecond)
			return []int{80, 82}, ctx.Err()
		}),
	)

	require.Equal(t, Ready, metrics.Status)
	assert.Equal(t, 42, metrics.Data)
	assert.Equal(t, Failed, security.Status)
	require.Equal(t, Ready, trend.Status)
	assert.Equal(t, []int{80, 82}, trend.Data)
}

func TestLoadAllRunsConcurrently(t *testing.T) {
	var running, peak atomic.Int32
	release := make(chan struct{})

	loader := func(context.Context) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		<-release
		running.Add(-1)
	}

	done := make(chan struct{})
	go func() {
		LoadAll(context.Background(), loader, loader, loader)
		close(done)
	}()

	require.Eventually(t, func() bool { return running.Load() == 3 }, time.Second, time.Millisecond)
	close(release)
	<-done
	assert.Equal(t, int32(3), peak.Load())
}
