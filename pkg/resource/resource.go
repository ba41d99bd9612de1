package resource

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// Well-known content types.
const (
	TypeJSON = "application/json"
	TypeXML  = "application/xml"
	TypeYAML = "application/yaml"
)

// DefaultCharset is used when no charset is given.
const DefaultCharset = "utf-8"

// Vars are the named values passed to a Callback.
type Vars map[string]any

// Callback produces resource data on demand. The result may be structured
// data or raw text in the resource's format.
type Callback func(vars Vars, contentType, charset string) (any, error)

// Resource is a typed mock response.
type Resource interface {
	ContentType() string
	Charset() string
	Status() int
	Headers() *Headers
	Data() any

	// SetStatus sets the response status code and returns the resource.
	SetStatus(code int) Resource
	// AddHeader sets a header, replacing any existing value, and returns the resource.
	AddHeader(name, value string) Resource

	// Replace applies an override. The result is the receiver, modified in
	// place, unless the override is a Replacement.
	Replace(o Override) (Resource, error)

	// Body returns the serialized payload encoded in the resource's charset.
	Body() ([]byte, error)
	// Render writes headers, status and body to w.
	Render(w http.ResponseWriter) error

	// MarshalData returns the payload in its record form.
	MarshalData() (json.RawMessage, error)

	Clone() Resource
}

// Base holds the state shared by every resource variant.
type Base struct {
	data        any
	contentType string
	charset     string
	status      int
	headers     *Headers
}

func newBase(data any, contentType, charset string) *Base {
	if charset == "" {
		charset = DefaultCharset
	}
	b := &Base{
		data:        data,
		contentType: contentType,
		charset:     charset,
		status:      http.StatusOK,
		headers:     NewHeaders(),
	}
	b.headers.Set("Content-Type", contentType+"; charset="+charset)
	return b
}

func restoreBase(data any, rec Record) *Base {
	b := newBase(data, rec.Type, rec.Charset)
	if rec.Headers != nil && rec.Headers.Len() > 0 {
		b.headers = rec.Headers.Clone()
	}
	return b
}

// ContentType returns the media type without parameters.
func (b *Base) ContentType() string { return b.contentType }

// Charset returns the declared charset.
func (b *Base) Charset() string { return b.charset }

// Status returns the response status code.
func (b *Base) Status() int { return b.status }

// Headers returns the live header list.
func (b *Base) Headers() *Headers { return b.headers }

// Data returns the payload.
func (b *Base) Data() any { return b.data }

func (b *Base) clone(data any) *Base {
	return &Base{
		data:        data,
		contentType: b.contentType,
		charset:     b.charset,
		status:      b.status,
		headers:     b.headers.Clone(),
	}
}

func render(w http.ResponseWriter, r Resource) error {
	body, err := r.Body()
	if err != nil {
		return err
	}
	r.Headers().WriteTo(w.Header())
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(r.Status())
	_, err = w.Write(body)
	return err
}
