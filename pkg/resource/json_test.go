package resource

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJSON(t *testing.T, data any) Resource {
	t.Helper()
	res, err := JSONHandler{}.New(data, "")
	require.NoError(t, err)
	return res
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    any
		wantErr bool
	}{
		{name: "object", input: `{"a":1}`, want: map[string]any{"a": float64(1)}},
		{name: "list", input: `[1,"x"]`, want: []any{float64(1), "x"}},
		{name: "quoted string", input: `"hello"`, want: "hello"},
		{name: "leading whitespace", input: "  \n{\"a\":true}", want: map[string]any{"a": true}},
		{name: "bare text", input: "First resource", want: "First resource"},
		{name: "bare number is text", input: "42", want: "42"},
		{name: "bare with quotes", input: `say "hi"`, want: `say "hi"`},
		{name: "empty", input: "", want: ""},
		{name: "malformed object", input: `{"a":`, wantErr: true},
		{name: "malformed string", input: `"abc`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeJSON([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSONHandler_ParseMalformed(t *testing.T) {
	_, err := JSONHandler{}.Parse([]byte(`[1,`), "")

	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, TypeJSON, decErr.ContentType)
	assert.Equal(t, http.StatusUnprocessableEntity, decErr.StatusCode())
}

func TestJSONResource_Defaults(t *testing.T) {
	res := newJSON(t, map[string]any{"a": 1})

	assert.Equal(t, TypeJSON, res.ContentType())
	assert.Equal(t, DefaultCharset, res.Charset())
	assert.Equal(t, http.StatusOK, res.Status())
	ct, ok := res.Headers().Get("Content-Type")
	require.True(t, ok)
	assert.Equal(t, "application/json; charset=utf-8", ct)
	assert.Equal(t, map[string]any{"a": float64(1)}, res.Data())
}

func TestJSONResource_Chaining(t *testing.T) {
	res := newJSON(t, "x").SetStatus(http.StatusForbidden).AddHeader("x-mock", "1")

	assert.Equal(t, http.StatusForbidden, res.Status())
	v, _ := res.Headers().Get("X-Mock")
	assert.Equal(t, "1", v)
}

func TestJSONResource_Body(t *testing.T) {
	res := newJSON(t, map[string]any{"name": "<b>", "tags": []any{"a"}})

	body, err := res.Body()
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"name\": \"<b>\",\n    \"tags\": [\n        \"a\"\n    ]\n}", string(body))
}

func TestJSONResource_BodyCharset(t *testing.T) {
	res, err := JSONHandler{}.New("café", "iso-8859-1")
	require.NoError(t, err)

	body, err := res.Body()
	require.NoError(t, err)
	assert.Equal(t, []byte{'"', 'c', 'a', 'f', 0xe9, '"'}, body)

	bad, err := JSONHandler{}.New("x", "no-such-charset")
	require.NoError(t, err)
	_, err = bad.Body()
	var encErr *EncodingError
	assert.ErrorAs(t, err, &encErr)
}

func TestJSONResource_Render(t *testing.T) {
	res := newJSON(t, map[string]any{"ok": true}).SetStatus(http.StatusCreated).AddHeader("X-Mock", "yes")

	rec := httptest.NewRecorder()
	require.NoError(t, res.Render(rec))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "yes", rec.Header().Get("X-Mock"))
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestJSONResource_Replace(t *testing.T) {
	tests := []struct {
		name    string
		current any
		o       Override
		want    any
		wantErr error
	}{
		{
			name:    "merge nested maps",
			current: map[string]any{"user": map[string]any{"name": "a", "age": 1}, "keep": true},
			o:       Merge{Patch: map[string]any{"user": map[string]any{"name": "b"}}},
			want:    map[string]any{"user": map[string]any{"name": "b", "age": float64(1)}, "keep": true},
		},
		{
			name:    "merge lists by index",
			current: []any{"a", "b", "c"},
			o:       Merge{Patch: []any{"x"}},
			want:    []any{"x", "b", "c"},
		},
		{
			name:    "merge extends lists",
			current: []any{"a"},
			o:       Merge{Patch: []any{"x", "y"}},
			want:    []any{"x", "y"},
		},
		{
			name:    "merge scalar over map value",
			current: map[string]any{"a": map[string]any{"b": 1}},
			o:       Merge{Patch: map[string]any{"a": "flat"}},
			want:    map[string]any{"a": "flat"},
		},
		{
			name:    "merge text into scalar payload substitutes",
			current: "old",
			o:       Merge{Patch: "new"},
			want:    "new",
		},
		{
			name:    "merge structure into scalar payload substitutes",
			current: "old",
			o:       Merge{Patch: map[string]any{"a": 1}},
			want:    map[string]any{"a": float64(1)},
		},
		{
			name:    "merge text into structured payload",
			current: map[string]any{"a": 1},
			o:       Merge{Patch: "text"},
			wantErr: ErrInvalidOverride,
		},
		{
			name:    "substitution",
			current: map[string]any{"a": 1},
			o:       Substitution{Value: `{"b":2}`},
			want:    map[string]any{"b": float64(2)},
		},
		{
			name:    "callback merges into object",
			current: map[string]any{"a": 1, "b": 2},
			o: CallbackPatch{Fn: func(vars Vars, _, _ string) (any, error) {
				cached := vars["cached"].(map[string]any)
				return map[string]any{"b": cached["b"].(float64) + 1, "c": 3}, nil
			}},
			want: map[string]any{"a": float64(1), "b": float64(3), "c": float64(3)},
		},
		{
			name:    "callback appends to list",
			current: []any{"a"},
			o: CallbackPatch{Fn: func(Vars, string, string) (any, error) {
				return `["b"]`, nil
			}},
			want: []any{"a", "b"},
		},
		{
			name:    "callback onto scalar payload",
			current: "text",
			o: CallbackPatch{Fn: func(Vars, string, string) (any, error) {
				return map[string]any{"a": 1}, nil
			}},
			wantErr: ErrInvalidOverride,
		},
		{
			name:    "callback shape mismatch",
			current: map[string]any{"a": 1},
			o: CallbackPatch{Fn: func(Vars, string, string) (any, error) {
				return []any{1}, nil
			}},
			wantErr: ErrInvalidOverride,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newJSON(t, tt.current)
			got, err := res.Replace(tt.o)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Same(t, res, got)
			assert.Equal(t, tt.want, got.Data())
		})
	}
}

func TestJSONResource_ReplaceWithResource(t *testing.T) {
	res := newJSON(t, "a")
	other := newJSON(t, "b")

	got, err := res.Replace(Replacement{Resource: other})
	require.NoError(t, err)
	assert.Same(t, other, got)
	assert.Equal(t, "a", res.Data())

	_, err = res.Replace(Replacement{})
	assert.ErrorIs(t, err, ErrInvalidOverride)
}

func TestJSONResource_CallbackError(t *testing.T) {
	boom := errors.New("boom")
	res := newJSON(t, map[string]any{})

	_, err := res.Replace(CallbackPatch{Fn: func(Vars, string, string) (any, error) { return nil, boom }})
	assert.ErrorIs(t, err, boom)
}

func TestJSONResource_CallbackSeesCopy(t *testing.T) {
	res := newJSON(t, map[string]any{"a": 1})

	_, err := res.Replace(CallbackPatch{Fn: func(vars Vars, _, _ string) (any, error) {
		vars["cached"].(map[string]any)["a"] = "mutated"
		return map[string]any{}, nil
	}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1)}, res.Data())
}

func TestJSONResource_Clone(t *testing.T) {
	res := newJSON(t, map[string]any{"list": []any{1}}).SetStatus(http.StatusAccepted)
	c := res.Clone()

	c.Data().(map[string]any)["list"].([]any)[0] = "changed"
	c.AddHeader("X-New", "1")

	assert.Equal(t, []any{float64(1)}, res.Data().(map[string]any)["list"])
	_, ok := res.Headers().Get("X-New")
	assert.False(t, ok)
	assert.Equal(t, http.StatusAccepted, c.Status())
}

func TestJSONResource_Query(t *testing.T) {
	res := newJSON(t, map[string]any{"users": []any{
		map[string]any{"name": "ann"},
		map[string]any{"name": "bob"},
	}}).(*JSONResource)

	got, err := res.Query("$.users[*].name")
	require.NoError(t, err)
	assert.Equal(t, []any{"ann", "bob"}, got)

	_, err = res.Query("$.users[?(@.name ==")
	assert.Error(t, err)
}

func TestOverrideOf(t *testing.T) {
	res := newJSON(t, "x")
	cb := Callback(func(Vars, string, string) (any, error) { return nil, nil })
	fn := func(Vars, string, string) (any, error) { return nil, nil }

	assert.IsType(t, Replacement{}, OverrideOf(res))
	assert.IsType(t, CallbackPatch{}, OverrideOf(cb))
	assert.IsType(t, CallbackPatch{}, OverrideOf(fn))
	assert.Equal(t, Substitution{Value: 1}, OverrideOf(Substitution{Value: 1}))
	assert.Equal(t, Merge{Patch: map[string]any{"a": 1}}, OverrideOf(map[string]any{"a": 1}))
	assert.Equal(t, Merge{Patch: "text"}, OverrideOf("text"))
}
