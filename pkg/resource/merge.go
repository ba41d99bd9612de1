package resource

import (
	"encoding/json"
	"maps"
	"reflect"
)

// codec decodes and normalizes payloads for a structured resource format.
type codec struct {
	contentType string
	// decode parses raw text.
	decode func(raw []byte) (any, error)
	// normalize converts Go values into the format's native tree.
	normalize func(v any) (any, error)
}

// replaceData computes the new payload of a structured resource. A non-nil
// Resource result means the override was a wholesale replacement.
func replaceData(current any, o Override, c codec, charset string) (any, Resource, error) {
	switch o := o.(type) {
	case Replacement:
		if o.Resource == nil {
			return nil, nil, invalidOverride("nil replacement resource")
		}
		return nil, o.Resource, nil

	case Substitution:
		v, err := c.value(o.Value)
		return v, nil, err

	case Merge:
		if !isContainer(current) {
			v, err := c.value(o.Patch)
			return v, nil, err
		}
		if !isStructured(o.Patch) {
			return nil, nil, invalidOverride("cannot merge %T into structured payload", o.Patch)
		}
		patch, err := c.normalize(o.Patch)
		if err != nil {
			return nil, nil, invalidOverride("%v", err)
		}
		return replaceRecursive(current, patch), nil, nil

	case CallbackPatch:
		if o.Fn == nil {
			return nil, nil, invalidOverride("nil callback")
		}
		out, err := o.Fn(Vars{"cached": cloneValue(current)}, c.contentType, charset)
		if err != nil {
			return nil, nil, err
		}
		patch, err := c.callbackValue(out)
		if err != nil {
			return nil, nil, err
		}
		merged, err := mergeShallow(current, patch)
		return merged, nil, err

	default:
		return nil, nil, invalidOverride("unknown override %T", o)
	}
}

// value converts override input into a payload. Text is decoded, anything
// else is normalized.
func (c codec) value(v any) (any, error) {
	switch t := v.(type) {
	case string:
		return c.decodeText([]byte(t))
	case Text:
		return c.decodeText([]byte(t))
	case []byte:
		return c.decodeText(t)
	case Resource:
		return nil, invalidOverride("use a Replacement to swap resources")
	}
	out, err := c.normalize(v)
	if err != nil {
		return nil, invalidOverride("%v", err)
	}
	return out, nil
}

func (c codec) decodeText(raw []byte) (any, error) {
	v, err := c.decode(raw)
	if err != nil {
		return nil, &DecodeError{ContentType: c.contentType, Err: err}
	}
	return v, nil
}

// callbackValue decodes text callback results and normalizes the rest.
// Numbers and booleans are kept as they are.
func (c codec) callbackValue(out any) (any, error) {
	switch t := out.(type) {
	case string, []byte, Text:
		return c.value(t)
	}
	return c.normalize(out)
}

// replaceRecursive merges patch into base: maps by key, lists by index, and
// anything else is replaced by patch.
func replaceRecursive(base, patch any) any {
	switch p := patch.(type) {
	case map[string]any:
		b, ok := base.(map[string]any)
		if !ok {
			return cloneValue(p)
		}
		out := maps.Clone(b)
		if out == nil {
			out = make(map[string]any, len(p))
		}
		for k, v := range p {
			out[k] = replaceRecursive(b[k], v)
		}
		return out
	case []any:
		b, ok := base.([]any)
		if !ok {
			return cloneValue(p)
		}
		out := make([]any, max(len(b), len(p)))
		copy(out, b)
		for i, v := range p {
			if i < len(b) {
				out[i] = replaceRecursive(b[i], v)
			} else {
				out[i] = cloneValue(v)
			}
		}
		return out
	default:
		return patch
	}
}

// mergeShallow overwrites top-level keys of a map payload, or appends to a
// list payload.
func mergeShallow(base, patch any) (any, error) {
	switch b := base.(type) {
	case map[string]any:
		p, ok := patch.(map[string]any)
		if !ok {
			return nil, invalidOverride("callback returned %T for an object payload", patch)
		}
		out := maps.Clone(b)
		if out == nil {
			out = make(map[string]any, len(p))
		}
		maps.Copy(out, p)
		return out, nil
	case []any:
		p, ok := patch.([]any)
		if !ok {
			return nil, invalidOverride("callback returned %T for a list payload", patch)
		}
		out := make([]any, 0, len(b)+len(p))
		out = append(out, b...)
		return append(out, p...), nil
	default:
		return nil, invalidOverride("cannot merge callback result into %T payload", base)
	}
}

func isContainer(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}

// isStructured reports whether v is a map, list or struct.
func isStructured(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.([]byte); ok {
		return false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return true
	}
	return false
}

// cloneValue deep-copies maps and lists. Other values are returned as is.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// normalizeJSON converts v into the generic tree produced by encoding/json.
func normalizeJSON(v any) (any, error) {
	if isNative(v) {
		return cloneValue(v), nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// isNative reports whether v only holds values encoding/json decodes to.
func isNative(v any) bool {
	switch t := v.(type) {
	case nil, string, bool, float64:
		return true
	case map[string]any:
		for _, e := range t {
			if !isNative(e) {
				return false
			}
		}
		return true
	case []any:
		for _, e := range t {
			if !isNative(e) {
				return false
			}
		}
		return true
	}
	return false
}
