package resource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ohler55/ojg/jp"
)

var jsonCodec = codec{
	contentType: TypeJSON,
	decode:      DecodeJSON,
	normalize:   normalizeJSON,
}

// DecodeJSON parses JSON text. Text that does not start with '[', '{' or '"'
// after trimming is taken as a plain string.
func DecodeJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || (trimmed[0] != '[' && trimmed[0] != '{' && trimmed[0] != '"') {
		return string(raw), nil
	}
	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// JSONHandler builds JSON resources.
type JSONHandler struct{}

func (JSONHandler) ContentType() string { return TypeJSON }

func (JSONHandler) New(data any, charset string) (Resource, error) {
	v, err := normalizeJSON(data)
	if err != nil {
		return nil, &DecodeError{ContentType: TypeJSON, Err: err}
	}
	return &JSONResource{Base: newBase(v, TypeJSON, charset)}, nil
}

func (JSONHandler) Parse(raw []byte, charset string) (Resource, error) {
	raw, err := decodeCharset(raw, charset)
	if err != nil {
		return nil, err
	}
	v, err := DecodeJSON(raw)
	if err != nil {
		return nil, &DecodeError{ContentType: TypeJSON, Err: err}
	}
	return &JSONResource{Base: newBase(v, TypeJSON, charset)}, nil
}

func (JSONHandler) Restore(rec Record) (Resource, error) {
	var v any
	if len(rec.Data) > 0 {
		if err := json.Unmarshal(rec.Data, &v); err != nil {
			return nil, &DecodeError{ContentType: TypeJSON, Err: err}
		}
	}
	return &JSONResource{Base: restoreBase(v, rec)}, nil
}

// JSONResource is a resource with a JSON payload.
type JSONResource struct {
	*Base
}

func (r *JSONResource) SetStatus(code int) Resource {
	r.status = code
	return r
}

func (r *JSONResource) AddHeader(name, value string) Resource {
	r.headers.Set(name, value)
	return r
}

func (r *JSONResource) Replace(o Override) (Resource, error) {
	data, other, err := replaceData(r.data, o, jsonCodec, r.charset)
	if err != nil {
		return nil, err
	}
	if other != nil {
		return other, nil
	}
	r.data = data
	return r, nil
}

// Body returns the payload as JSON indented with four spaces.
func (r *JSONResource) Body() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(r.data); err != nil {
		return nil, fmt.Errorf("encode json body: %w", err)
	}
	return encodeCharset(bytes.TrimRight(buf.Bytes(), "\n"), r.charset)
}

func (r *JSONResource) Render(w http.ResponseWriter) error {
	return render(w, r)
}

func (r *JSONResource) MarshalData() (json.RawMessage, error) {
	return json.Marshal(r.data)
}

func (r *JSONResource) Clone() Resource {
	return &JSONResource{Base: r.clone(cloneValue(r.data))}
}

// Query evaluates a JSONPath expression against the payload.
func (r *JSONResource) Query(path string) ([]any, error) {
	x, err := jp.ParseString(path)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONPath %q: %w", path, err)
	}
	return x.Get(r.data), nil
}
