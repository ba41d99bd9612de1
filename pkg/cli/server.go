package cli

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/getmockd/mockrr/pkg/cli/internal/parse"
	"github.com/getmockd/mockrr/pkg/httputil"
	"github.com/getmockd/mockrr/pkg/metrics"
	"github.com/getmockd/mockrr/pkg/mockrr"
	"github.com/getmockd/mockrr/pkg/resource"
)

// maxBodySize caps POST bodies.
const maxBodySize = 1 << 20

// sequenceSteps are rotated by GET /sequence/{id}.
var sequenceSteps = []any{
	resource.Text("First resource"),
	resource.Text("Second resource"),
	resource.Text("Third resource"),
}

// server is the demo router of mockrr serve.
type server struct {
	m   *mockrr.Mockrr
	log *slog.Logger
	now func() time.Time
}

// newServer routes the demo endpoints and /metrics. mt may be nil.
func newServer(m *mockrr.Mockrr, mt *metrics.Metrics, log *slog.Logger) http.Handler {
	if mt == nil {
		mt = metrics.New()
	}
	s := &server{m: m, log: log, now: time.Now}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /resources/{id}", s.once)
	mux.HandleFunc("POST /resources/{id}", s.update)
	mux.HandleFunc("GET /sequence/{id}", s.sequence)
	mux.HandleFunc("GET /cached", s.cached)
	mux.HandleFunc("GET /versions", s.versions)
	mux.HandleFunc("GET /versions/{ts}", s.version)
	mux.Handle("GET /metrics", mt.Handler())
	return httputil.Instrument(mux, log, mt.Served)
}

// once serves the resource cached under id, creating it with a random
// checksum on the first request.
func (s *server) once(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	res, err := s.m.Once(r.Context(), id, resource.Callback(func(resource.Vars, string, string) (any, error) {
		return map[string]any{"id": id, "checksum": 999 + rand.IntN(9001)}, nil
	}))
	s.respond(w, res, err)
}

// sequence caches the next of three steps under sequence/{id}.
func (s *server) sequence(w http.ResponseWriter, r *http.Request) {
	res, err := s.m.Sequence(r.Context(), "sequence/"+r.PathValue("id"), "sequence", sequenceSteps)
	s.respond(w, res, err)
}

// update merges a JSON object or array body into the resource cached under
// id. Objects are stamped with updated_at.
func (s *server) update(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		httputil.WriteBadRequest(w, "invalid_body", err.Error())
		return
	}
	patch, ok := parse.Structured(string(body))
	if !ok {
		httputil.WriteBadRequest(w, "invalid_body", "body must be a JSON object or array")
		return
	}
	if obj, isObj := patch.(map[string]any); isObj {
		obj["updated_at"] = s.now().Unix()
	}
	res, err := s.m.Update(r.Context(), r.PathValue("id"), resource.Merge{Patch: patch})
	s.respond(w, res, err)
}

func (s *server) cached(w http.ResponseWriter, r *http.Request) {
	idx, err := s.m.CachedList(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	httputil.WriteOK(w, idx)
}

func (s *server) versions(w http.ResponseWriter, r *http.Request) {
	versions, err := s.m.CachedVersions(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	httputil.WriteOK(w, versions)
}

func (s *server) version(w http.ResponseWriter, r *http.Request) {
	ts := r.PathValue("ts")
	res, err := s.m.CachedVersion(r.Context(), ts)
	if err == nil && res == nil {
		httputil.WriteNotFound(w, "not_found", "no version "+ts)
		return
	}
	s.respond(w, res, err)
}

func (s *server) respond(w http.ResponseWriter, res resource.Resource, err error) {
	if err != nil {
		s.fail(w, err)
		return
	}
	if err := res.Render(w); err != nil {
		s.log.Error("render failed", "error", err)
	}
}

func (s *server) fail(w http.ResponseWriter, err error) {
	if status := httputil.StatusOf(err); status >= http.StatusInternalServerError && status != http.StatusNotImplemented {
		s.log.Error("request failed", "error", err)
	}
	httputil.WriteErr(w, err)
}
