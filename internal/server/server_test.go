package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/receiptsplit/internal/metrics"
	"github.com/mmynk/receiptsplit/internal/middleware"
	"github.com/mmynk/receiptsplit/internal/service"
	"github.com/mmynk/receiptsplit/internal/storage/sqlite"
	"github.com/mmynk/receiptsplit/pkg/api"
)

func newTestServer(t *testing.T, limiter *middleware.KeyedRateLimiter) (*httptest.Server, *metrics.Metrics) {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	m := metrics.New(false)
	handler := New(service.NewBillService(store, m), Options{
		CORSOrigins: []string{"https://split.example"},
		RateLimiter: limiter,
		Metrics:     m,
	})

	srv := httptest.NewServer(H2C(handler))
	t.Cleanup(func() {
		srv.Close()
		store.Close()
	})
	return srv, m
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
	assert.NotEmpty(t, resp.Header.Get("Content-Type"))
}

func TestConnectRoundTrip_And_Metrics(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	client := api.NewBillServiceClient(srv.Client(), srv.URL)

	_, err := client.GetBill(context.Background(), connect.NewRequest(&api.GetBillRequest{SessionID: "nope"}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	created, err := client.CreateBill(context.Background(), connect.NewRequest(&api.CreateBillRequest{HostName: "Alice"}))
	require.NoError(t, err)
	assert.NotEmpty(t, created.Msg.SessionID)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	text := string(body)
	assert.Contains(t, text, `receiptsplit_rpc_requests_total{code="not_found",procedure="/receiptsplit.v1.BillService/GetBill"} 1`)
	assert.Contains(t, text, `receiptsplit_rpc_requests_total{code="ok",procedure="/receiptsplit.v1.BillService/CreateBill"} 1`)
}

func TestPlainJSONPost(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, err := http.Post(srv.URL+api.BillServiceCalculateSharesProcedure, "application/json", strings.NewReader(
		`{"items":[{"name":"Pizza","price":"10.00","quantity":1,"selected_by":["A","B","C"]}],"participants":["A","B","C"]}`,
	))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"total":"3.33"`)
	assert.Contains(t, string(body), `"remaining":"0.01"`)
}

func TestUnknownFieldRejected(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, err := http.Post(srv.URL+api.BillServiceGetBillProcedure, "application/json",
		strings.NewReader(`{"session":"abc"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCORS(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+api.BillServiceGetBillProcedure, nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://split.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "https://split.example", resp.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://evil.example")
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Empty(t, resp2.Header.Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	srv, m := newTestServer(t, middleware.NewKeyedRateLimiter(0.001, 2))
	client := api.NewBillServiceClient(srv.Client(), srv.URL)

	var codes []connect.Code
	for range 3 {
		_, err := client.GetBill(context.Background(), connect.NewRequest(&api.GetBillRequest{SessionID: "nope"}))
		codes = append(codes, connect.CodeOf(err))
	}

	assert.Equal(t, []connect.Code{connect.CodeNotFound, connect.CodeNotFound, connect.CodeResourceExhausted}, codes)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimited.WithLabelValues(api.BillServiceGetBillProcedure)))
}
