package mockrr

import (
	"log/slog"
	"time"

	"github.com/getmockd/mockrr/pkg/metrics"
	"github.com/getmockd/mockrr/pkg/resource"
)

// Option configures a Mockrr.
type Option func(*Mockrr)

// WithRegistry sets the resource registry. Defaults to a registry with JSON only.
func WithRegistry(r *resource.Registry) Option {
	return func(m *Mockrr) {
		if r != nil {
			m.registry = r
		}
	}
}

// WithContentType sets the content type of generated resources.
func WithContentType(ct string) Option {
	return func(m *Mockrr) {
		m.contentType = ct
	}
}

// WithCharset sets the charset of generated resources.
func WithCharset(cs string) Option {
	return func(m *Mockrr) {
		m.charset = cs
	}
}

// WithVersioning keeps a snapshot of every cached resource.
func WithVersioning(enabled bool) Option {
	return func(m *Mockrr) {
		m.versioning = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Mockrr) {
		m.log = log
	}
}

// WithMetrics records activity on m.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Mockrr) {
		m.metrics = mt
	}
}

// WithClock sets the time source used for index and version timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Mockrr) {
		if now != nil {
			m.now = now
		}
	}
}
