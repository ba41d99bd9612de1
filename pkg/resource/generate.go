package resource

import (
	"fmt"
	"reflect"
	"strconv"
)

// File marks a string input as a file path.
type File string

// Text marks a string input as literal text, skipping the file lookup.
type Text string

// Source names the factory Generate used.
type Source string

// Generate sources.
const (
	SourceResource   Source = "resource"
	SourceStructured Source = "structured"
	SourceCallback   Source = "callback"
	SourceFile       Source = "file"
	SourceObject     Source = "object"
	SourceText       Source = "text"
)

// Generate builds a resource from input, choosing the factory from its
// shape in this order: Resource, map or list, Callback, readable file path,
// struct, scalar. Strings that name a readable file, directly or below the
// include root, are read as files.
func (r *Registry) Generate(input any, contentType, charset string) (Resource, Source, error) {
	res, src, err := r.generate(input, contentType, charset)
	if err != nil {
		return nil, src, &GenerationError{Input: fmt.Sprintf("%T", input), Err: err}
	}
	return res, src, nil
}

func (r *Registry) generate(input any, ct, cs string) (Resource, Source, error) {
	switch v := input.(type) {
	case nil:
		return nil, "", ErrCannotGenerate
	case Resource:
		return v, SourceResource, nil
	case Callback:
		return r.fromGeneratedCallback(v, ct, cs)
	case func(Vars, string, string) (any, error):
		return r.fromGeneratedCallback(v, ct, cs)
	case File:
		res, err := r.FromFile(ct, cs, string(v))
		return res, SourceFile, err
	case Text:
		res, err := r.FromString(ct, cs, string(v))
		return res, SourceText, err
	case []byte:
		res, err := r.FromString(ct, cs, string(v))
		return res, SourceText, err
	case string:
		if _, ok := r.Resolve(v); ok {
			res, err := r.FromFile(ct, cs, v)
			return res, SourceFile, err
		}
		res, err := r.FromString(ct, cs, v)
		return res, SourceText, err
	}

	rv := reflect.ValueOf(input)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, "", ErrCannotGenerate
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		res, err := r.FromStructured(ct, cs, input)
		return res, SourceStructured, err
	case reflect.Struct:
		res, err := r.FromStructured(ct, cs, input)
		return res, SourceObject, err
	}

	if text, ok := scalarText(rv); ok {
		res, err := r.FromString(ct, cs, text)
		return res, SourceText, err
	}
	return nil, "", ErrCannotGenerate
}

func (r *Registry) fromGeneratedCallback(fn Callback, ct, cs string) (Resource, Source, error) {
	mt, err := MediaType(ct)
	if err != nil {
		return nil, SourceCallback, err
	}
	if cs == "" {
		cs = DefaultCharset
	}
	res, err := r.FromCallback(mt, cs, fn, Vars{"type": mt, "charset": cs})
	return res, SourceCallback, err
}

func scalarText(rv reflect.Value) (string, bool) {
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64), true
	}
	return "", false
}
