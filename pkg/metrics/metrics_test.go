package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Observe(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRender("coin98", true)
	m.ObserveRender("coin98", false)
	m.ObserveRender("coin98", true)
	m.ObserveDelivery("tapchibitcoin", false)
	m.ObserveCycle("coin98", OutcomeCompleted, 3*time.Second)
	m.ObserveCycle("coin98", OutcomeSkipped, 0)
	m.SetRunning("coin98", true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RendersTotal.WithLabelValues("coin98", ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RendersTotal.WithLabelValues("coin98", ResultFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DeliveriesTotal.WithLabelValues("tapchibitcoin", ResultFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CyclesTotal.WithLabelValues("coin98", OutcomeSkipped)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.CycleDuration))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Running.WithLabelValues("coin98")))

	m.SetRunning("coin98", false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Running.WithLabelValues("coin98")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRender("coin98", true)
		m.ObserveDelivery("coin98", true)
		m.ObserveCycle("coin98", OutcomeFailed, time.Second)
		m.SetRunning("coin98", true)
	})
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg).ObserveCycle("tapchibitcoin", OutcomeEmpty, time.Second)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `crawler_cycles_total{outcome="empty",source="tapchibitcoin"} 1`)
}
