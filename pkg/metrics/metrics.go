package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mockrr"

// Lookup results.
const (
	ResultHit  = "hit"
	ResultMiss = "miss"
)

// Write kinds.
const (
	WriteResource = "resource"
	WriteIndex    = "index"
	WriteCursor   = "cursor"
	WriteVersion  = "version"
)

// Metrics holds the collectors for one mockrr instance.
type Metrics struct {
	registry *prometheus.Registry

	Generations       *prometheus.CounterVec
	Lookups           *prometheus.CounterVec
	Writes            *prometheus.CounterVec
	StorageErrors     *prometheus.CounterVec
	SequenceAdvances  prometheus.Counter
	OperationDuration *prometheus.HistogramVec
	HTTPRequests      *prometheus.CounterVec
}

// New creates metrics on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Resources built from input, by factory.",
		}, []string{"source"}),
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache reads, by operation and result.",
		}, []string{"op", "result"}),
		Writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_writes_total",
			Help:      "Cache writes, by kind of entry.",
		}, []string{"kind"}),
		StorageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_errors_total",
			Help:      "Cache backend failures, by operation.",
		}, []string{"op"}),
		SequenceAdvances: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sequence_advances_total",
			Help:      "Sequence cursor moves.",
		}),
		OperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of orchestrator calls.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"op"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Requests served by the demo router.",
		}, []string{"route", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Generations,
		m.Lookups,
		m.Writes,
		m.StorageErrors,
		m.SequenceAdvances,
		m.OperationDuration,
		m.HTTPRequests,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Generated records a resource built by the given factory.
func (m *Metrics) Generated(source string) {
	if m == nil {
		return
	}
	m.Generations.WithLabelValues(source).Inc()
}

// Lookup records a cache read.
func (m *Metrics) Lookup(op string, hit bool) {
	if m == nil {
		return
	}
	result := ResultMiss
	if hit {
		result = ResultHit
	}
	m.Lookups.WithLabelValues(op, result).Inc()
}

// Wrote records a cache write.
func (m *Metrics) Wrote(kind string) {
	if m == nil {
		return
	}
	m.Writes.WithLabelValues(kind).Inc()
}

// StorageFailed records a backend failure.
func (m *Metrics) StorageFailed(op string) {
	if m == nil {
		return
	}
	m.StorageErrors.WithLabelValues(op).Inc()
}

// Advanced records a sequence cursor move.
func (m *Metrics) Advanced() {
	if m == nil {
		return
	}
	m.SequenceAdvances.Inc()
}

// Since records the time elapsed since start for op.
func (m *Metrics) Since(op string, start time.Time) {
	if m == nil {
		return
	}
	m.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Served records a request handled by the demo router.
func (m *Metrics) Served(route string, status int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
