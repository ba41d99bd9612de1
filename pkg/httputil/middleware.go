package httputil

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request id.
const RequestIDHeader = "X-Request-Id"

// StatusRecorder remembers the status written through it.
type StatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *StatusRecorder) WriteHeader(code int) {
	if r.Status == 0 {
		r.Status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *StatusRecorder) Write(b []byte) (int, error) {
	if r.Status == 0 {
		r.Status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *StatusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Observer receives the route pattern and status of every finished request.
type Observer func(route string, status int)

// Instrument tags each request with an id, echoing one the client sent,
// logs it at debug and reports it to observe.
func Instrument(next http.Handler, log *slog.Logger, observe Observer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		rec := &StatusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.Status == 0 {
			rec.Status = http.StatusOK
		}

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		if observe != nil {
			observe(route, rec.Status)
		}
		if log != nil {
			log.Debug("request served",
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
				"route", route,
				"status", rec.Status,
				"duration", time.Since(start),
			)
		}
	})
}
