package resource

import (
	"encoding/json"
	"fmt"
	"net/http"

	"gopkg.in/yaml.v3"
)

var yamlCodec = codec{
	contentType: TypeYAML,
	decode:      decodeYAML,
	normalize:   normalizeYAML,
}

func decodeYAML(raw []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// normalizeYAML converts v into the generic tree produced by yaml.v3.
func normalizeYAML(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := yaml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return decodeYAML(raw)
}

// YAMLHandler builds YAML resources. Scalars keep their YAML types, so the
// text "42" becomes an integer.
type YAMLHandler struct{}

func (YAMLHandler) ContentType() string { return TypeYAML }

func (YAMLHandler) New(data any, charset string) (Resource, error) {
	v, err := normalizeYAML(data)
	if err != nil {
		return nil, &DecodeError{ContentType: TypeYAML, Err: err}
	}
	return &YAMLResource{Base: newBase(v, TypeYAML, charset)}, nil
}

func (YAMLHandler) Parse(raw []byte, charset string) (Resource, error) {
	raw, err := decodeCharset(raw, charset)
	if err != nil {
		return nil, err
	}
	v, err := decodeYAML(raw)
	if err != nil {
		return nil, &DecodeError{ContentType: TypeYAML, Err: err}
	}
	return &YAMLResource{Base: newBase(v, TypeYAML, charset)}, nil
}

// Restore decodes a record whose data holds the YAML document as a JSON string.
func (YAMLHandler) Restore(rec Record) (Resource, error) {
	var doc string
	if err := json.Unmarshal(rec.Data, &doc); err != nil {
		return nil, &DecodeError{ContentType: TypeYAML, Err: err}
	}
	v, err := decodeYAML([]byte(doc))
	if err != nil {
		return nil, &DecodeError{ContentType: TypeYAML, Err: err}
	}
	return &YAMLResource{Base: restoreBase(v, rec)}, nil
}

// YAMLResource is a resource with a YAML payload.
type YAMLResource struct {
	*Base
}

func (r *YAMLResource) SetStatus(code int) Resource {
	r.status = code
	return r
}

func (r *YAMLResource) AddHeader(name, value string) Resource {
	r.headers.Set(name, value)
	return r
}

func (r *YAMLResource) Replace(o Override) (Resource, error) {
	data, other, err := replaceData(r.data, o, yamlCodec, r.charset)
	if err != nil {
		return nil, err
	}
	if other != nil {
		return other, nil
	}
	r.data = data
	return r, nil
}

func (r *YAMLResource) Body() ([]byte, error) {
	out, err := yaml.Marshal(r.data)
	if err != nil {
		return nil, fmt.Errorf("encode yaml body: %w", err)
	}
	return encodeCharset(out, r.charset)
}

func (r *YAMLResource) Render(w http.ResponseWriter) error {
	return render(w, r)
}

// MarshalData stores the document text so YAML scalar types survive the
// round trip.
func (r *YAMLResource) MarshalData() (json.RawMessage, error) {
	out, err := yaml.Marshal(r.data)
	if err != nil {
		return nil, fmt.Errorf("encode yaml data: %w", err)
	}
	return json.Marshal(string(out))
}

func (r *YAMLResource) Clone() Resource {
	return &YAMLResource{Base: r.clone(cloneValue(r.data))}
}
