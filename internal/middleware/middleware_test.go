package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/receiptsplit/internal/metrics"
)

type ping struct{}

func okUnary(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
	return connect.NewResponse(&ping{}), nil
}

func notFoundUnary(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
	return nil, connect.NewError(connect.CodeNotFound, errors.New("missing"))
}

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		calls    int
		wantPass int
	}{
		{name: "burst allows initial requests", rps: 1, burst: 3, calls: 3, wantPass: 3},
		{name: "exceeding burst blocks", rps: 1, burst: 2, calls: 5, wantPass: 2},
		{name: "zero rps disables limiting", rps: 0, burst: 1, calls: 50, wantPass: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			krl := NewKeyedRateLimiter(tt.rps, tt.burst)
			passed := 0
			for range tt.calls {
				if krl.Allow("client") {
					passed++
				}
			}
			assert.Equal(t, tt.wantPass, passed)
		})
	}
}

func TestKeyedRateLimiter_KeysAreIndependent(t *testing.T) {
	krl := NewKeyedRateLimiter(1, 1)
	assert.True(t, krl.Allow("a"))
	assert.False(t, krl.Allow("a"))
	assert.True(t, krl.Allow("b"))
}

func TestKeyedRateLimiter_Sweep(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	krl := NewKeyedRateLimiter(1, 1)
	krl.now = func() time.Time { return now }

	krl.Allow("old")
	now = now.Add(10 * time.Minute)
	krl.Allow("new")

	assert.Equal(t, 1, krl.Sweep(5*time.Minute))
	assert.Equal(t, 1, krl.Len())

	// the refilled bucket for "new" still works after a sweep
	now = now.Add(2 * time.Second)
	assert.True(t, krl.Allow("new"))
}

func TestRateLimitInterceptor(t *testing.T) {
	m := metrics.New(false)
	krl := NewKeyedRateLimiter(1, 2)
	call := RateLimitInterceptor(krl, m).WrapUnary(okUnary)

	req := connect.NewRequest(&ping{})
	for range 2 {
		_, err := call(context.Background(), req)
		require.NoError(t, err)
	}

	_, err := call(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, connect.CodeResourceExhausted, connect.CodeOf(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimited.WithLabelValues("")))
}

func TestMetricsInterceptor(t *testing.T) {
	m := metrics.New(false)

	_, err := MetricsInterceptor(m).WrapUnary(okUnary)(context.Background(), connect.NewRequest(&ping{}))
	require.NoError(t, err)
	_, err = MetricsInterceptor(m).WrapUnary(notFoundUnary)(context.Background(), connect.NewRequest(&ping{}))
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RPCRequests.WithLabelValues("", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RPCRequests.WithLabelValues("", "not_found")))
}

func TestLoggingInterceptor_PassesThrough(t *testing.T) {
	resp, err := LoggingInterceptor().WrapUnary(okUnary)(context.Background(), connect.NewRequest(&ping{}))
	require.NoError(t, err)
	assert.NotNil(t, resp)

	_, err = LoggingInterceptor().WrapUnary(notFoundUnary)(context.Background(), connect.NewRequest(&ping{}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestClientKey(t *testing.T) {
	assert.Equal(t, "10.0.0.1", clientKey("10.0.0.1:5123"))
	assert.Equal(t, "::1", clientKey("[::1]:80"))
	assert.Equal(t, "10.0.0.1", clientKey("10.0.0.1"))
}
