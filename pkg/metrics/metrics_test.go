package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	m := New()

	m.Generated("file")
	m.Generated("file")
	m.Lookup("once", true)
	m.Lookup("once", false)
	m.Lookup("once", false)
	m.Wrote(WriteIndex)
	m.StorageFailed("save")
	m.Advanced()
	m.Served("/resources/{id}", http.StatusOK)
	m.Since("once", time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Generations.WithLabelValues("file")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Lookups.WithLabelValues("once", ResultHit)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Lookups.WithLabelValues("once", ResultMiss)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Writes.WithLabelValues(WriteIndex)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StorageErrors.WithLabelValues("save")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SequenceAdvances))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/resources/{id}", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.OperationDuration))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Generated("text")
		m.Lookup("cached", true)
		m.Wrote(WriteResource)
		m.StorageFailed("get")
		m.Advanced()
		m.Since("once", time.Now())
		m.Served("/cached", http.StatusOK)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.Generated("structured")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `mockrr_generations_total{source="structured"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestNew_Independent(t *testing.T) {
	a, b := New(), New()
	a.Advanced()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.SequenceAdvances))
}
