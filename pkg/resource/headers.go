package resource

import (
	"encoding/json"
	"net/http"
)

// Header is a single response header.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Headers is an ordered header list. Names are canonicalised, so setting an
// existing header in any case replaces it in place.
type Headers struct {
	list []Header
}

// NewHeaders creates an empty header list.
func NewHeaders() *Headers {
	return &Headers{}
}

// Set adds or replaces a header, keeping the position of an existing one.
func (h *Headers) Set(name, value string) {
	name = http.CanonicalHeaderKey(name)
	for i := range h.list {
		if h.list[i].Name == name {
			h.list[i].Value = value
			return
		}
	}
	h.list = append(h.list, Header{Name: name, Value: value})
}

// Get returns the value of a header and whether it is present.
func (h *Headers) Get(name string) (string, bool) {
	name = http.CanonicalHeaderKey(name)
	for _, hdr := range h.list {
		if hdr.Name == name {
			return hdr.Value, true
		}
	}
	return "", false
}

// Del removes a header.
func (h *Headers) Del(name string) {
	name = http.CanonicalHeaderKey(name)
	for i, hdr := range h.list {
		if hdr.Name == name {
			h.list = append(h.list[:i], h.list[i+1:]...)
			return
		}
	}
}

// Len returns the number of headers.
func (h *Headers) Len() int {
	return len(h.list)
}

// All returns a copy of the headers in insertion order.
func (h *Headers) All() []Header {
	out := make([]Header, len(h.list))
	copy(out, h.list)
	return out
}

// Clone returns an independent copy.
func (h *Headers) Clone() *Headers {
	return &Headers{list: h.All()}
}

// WriteTo copies the headers onto an http.Header.
func (h *Headers) WriteTo(dst http.Header) {
	for _, hdr := range h.list {
		dst.Set(hdr.Name, hdr.Value)
	}
}

// MarshalJSON encodes the headers as an ordered list.
func (h *Headers) MarshalJSON() ([]byte, error) {
	if h == nil || h.list == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(h.list)
}

// UnmarshalJSON decodes an ordered header list.
func (h *Headers) UnmarshalJSON(data []byte) error {
	var list []Header
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	h.list = nil
	for _, hdr := range list {
		h.Set(hdr.Name, hdr.Value)
	}
	return nil
}
