package resource

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"sync"
)

// Handler builds one resource variant.
type Handler interface {
	// ContentType returns the media type served by this handler, without parameters.
	ContentType() string
	// New builds a resource from structured data.
	New(data any, charset string) (Resource, error)
	// Parse builds a resource from raw text in the handler's format.
	Parse(raw []byte, charset string) (Resource, error)
	// Restore rebuilds a resource from a serialized record.
	Restore(rec Record) (Resource, error)
}

// Builtin returns the handlers shipped with this package.
func Builtin() []Handler {
	return []Handler{JSONHandler{}, XMLHandler{}, YAMLHandler{}}
}

// Registry maps content types to handlers and builds resources.
type Registry struct {
	mu          sync.RWMutex
	handlers    map[string]Handler
	includeRoot string
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithIncludeRoot sets the directory that relative resource files are
// resolved against when they cannot be read directly.
func WithIncludeRoot(dir string) RegistryOption {
	return func(r *Registry) {
		r.includeRoot = dir
	}
}

// NewRegistry creates a registry with the JSON handler registered.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		handlers: map[string]Handler{TypeJSON: JSONHandler{}},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a handler for its content type.
func (r *Registry) Register(h Handler) error {
	if h == nil {
		return fmt.Errorf("%w: nil handler", ErrInvalidHandler)
	}
	ct := h.ContentType()
	mt, params, err := mime.ParseMediaType(ct)
	if err != nil || len(params) > 0 || mt != ct {
		return fmt.Errorf("%w: content type %q must be a bare lowercase media type", ErrInvalidHandler, ct)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[ct]; exists {
		return fmt.Errorf("%w: %s is already registered", ErrInvalidHandler, ct)
	}
	r.handlers[ct] = h
	return nil
}

// Handler returns the handler for a content type. Parameters such as
// charset are ignored and an empty type means JSON.
func (r *Registry) Handler(contentType string) (Handler, error) {
	mt, err := MediaType(contentType)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handlers[mt]
	if !ok {
		return nil, &UnsupportedTypeError{ContentType: mt}
	}
	return h, nil
}

// Types returns the registered content types in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.handlers))
	for ct := range r.handlers {
		types = append(types, ct)
	}
	slices.Sort(types)
	return types
}

// IncludeRoot returns the include root directory.
func (r *Registry) IncludeRoot() string {
	return r.includeRoot
}

// MediaType strips parameters from a content type.
func MediaType(contentType string) (string, error) {
	if contentType == "" {
		return TypeJSON, nil
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", &UnsupportedTypeError{ContentType: contentType}
	}
	return mt, nil
}

// Resolve finds a readable file, first at path itself and then below the
// include root.
func (r *Registry) Resolve(path string) (string, bool) {
	for _, candidate := range r.candidates(path) {
		if readable(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func (r *Registry) candidates(path string) []string {
	out := []string{path}
	if r.includeRoot != "" {
		out = append(out, filepath.Join(r.includeRoot, path))
	}
	return out
}

func readable(path string) bool {
	if path == "" {
		return false
	}
	fi, err := os.Stat(path)
	if err != nil || !fi.Mode().IsRegular() {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// FromStructured builds a resource from maps, lists or structs.
func (r *Registry) FromStructured(contentType, charset string, data any) (Resource, error) {
	h, err := r.Handler(contentType)
	if err != nil {
		return nil, err
	}
	return h.New(data, charset)
}

// FromString builds a resource from text in the handler's format.
func (r *Registry) FromString(contentType, charset, text string) (Resource, error) {
	h, err := r.Handler(contentType)
	if err != nil {
		return nil, err
	}
	return h.Parse([]byte(text), charset)
}

// FromFile builds a resource from the contents of a file.
func (r *Registry) FromFile(contentType, charset, path string) (Resource, error) {
	h, err := r.Handler(contentType)
	if err != nil {
		return nil, err
	}
	resolved, ok := r.Resolve(path)
	if !ok {
		return nil, &FileError{Path: path, Tried: r.candidates(path), Err: os.ErrNotExist}
	}
	raw, err := os.ReadFile(resolved)
	if err != nil {
		return nil, &FileError{Path: path, Tried: []string{resolved}, Err: err}
	}
	return h.Parse(raw, charset)
}

// FromCallback builds a resource from the result of fn. Text results are
// parsed in the handler's format and resources are returned as they are.
// Numbers and booleans are formatted as text first, as Generate does.
// Anything else is treated as structured data.
func (r *Registry) FromCallback(contentType, charset string, fn Callback, vars Vars) (Resource, error) {
	h, err := r.Handler(contentType)
	if err != nil {
		return nil, err
	}
	if vars == nil {
		vars = Vars{}
	}
	out, err := fn(vars, h.ContentType(), charset)
	if err != nil {
		return nil, fmt.Errorf("resource callback: %w", err)
	}
	switch t := out.(type) {
	case Resource:
		return t, nil
	case string:
		return h.Parse([]byte(t), charset)
	case Text:
		return h.Parse([]byte(t), charset)
	case []byte:
		return h.Parse(t, charset)
	}
	if text, ok := scalarText(reflect.ValueOf(out)); ok {
		return h.Parse([]byte(text), charset)
	}
	return h.New(out, charset)
}
