package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveComputation(t *testing.T) {
	m := New(false)

	m.ObserveComputation(OutcomeOK, 2, 1)
	m.ObserveComputation(OutcomeOK, 0, 0)
	m.ObserveComputation(OutcomeNoParticipants, 1, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Computations.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Computations.WithLabelValues(OutcomeNoParticipants)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Unclaimed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Orphaned))
}

func TestRegistriesAreIndependent(t *testing.T) {
	a := New(false)
	b := New(false)

	a.BillsPurged.Add(3)

	assert.Equal(t, 3.0, testutil.ToFloat64(a.BillsPurged))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.BillsPurged))
}

func TestHandler(t *testing.T) {
	m := New(true)
	m.RPCRequests.WithLabelValues("/receiptsplit.v1.BillService/GetBill", "ok").Inc()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.True(t, strings.Contains(text, `receiptsplit_rpc_requests_total{code="ok",procedure="/receiptsplit.v1.BillService/GetBill"} 1`))
	assert.True(t, strings.Contains(text, "go_goroutines"))
}

func TestCollectorCount(t *testing.T) {
	m := New(false)
	m.RPCDuration.WithLabelValues("p").Observe(0.1)

	count, err := testutil.GatherAndCount(m.Registry(), "receiptsplit_rpc_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
