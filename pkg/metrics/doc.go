// Package metrics exposes mockrr activity as Prometheus metrics.
//
// Metrics are registered on a dedicated registry together with the Go
// runtime and process collectors:
//
//   - mockrr_generations_total: resources built from input (labels: source)
//   - mockrr_cache_lookups_total: cache reads (labels: op, result)
//   - mockrr_cache_writes_total: cache writes (labels: kind)
//   - mockrr_storage_errors_total: backend failures (labels: op)
//   - mockrr_sequence_advances_total: sequence cursor moves
//   - mockrr_operation_duration_seconds: orchestrator call latency (labels: op)
//   - mockrr_http_requests_total: requests served by mockrr serve (labels: route, status)
//
// # Label Conventions
//
//   - source: resource, structured, callback, file, object, text
//   - result: hit, miss
//   - kind: resource, index, cursor, version
//   - op: lowercase operation names (once, sequence, update, cached, ...)
//
// # Usage
//
//	m := metrics.New()
//	mux.Handle("/metrics", m.Handler())
//
// Every recording method is safe to call on a nil *Metrics, which records
// nothing.
package metrics
