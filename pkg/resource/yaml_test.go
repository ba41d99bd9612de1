package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestYAMLHandler_Parse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  any
	}{
		{name: "mapping", input: "a: 1\nb: [x]\n", want: map[string]any{"a": 1, "b": []any{"x"}}},
		{name: "sequence", input: "- 1\n- two\n", want: []any{1, "two"}},
		{name: "integer scalar", input: "42", want: 42},
		{name: "text scalar", input: "First resource", want: "First resource"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := YAMLHandler{}.Parse([]byte(tt.input), "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Data())
		})
	}

	_, err := YAMLHandler{}.Parse([]byte("a: [1"), "")
	var decErr *DecodeError
	assert.ErrorAs(t, err, &decErr)
}

func TestYAMLResource_Merge(t *testing.T) {
	res, err := YAMLHandler{}.Parse([]byte("user:\n  name: ann\n  age: 30\n"), "")
	require.NoError(t, err)

	_, err = res.Replace(Merge{Patch: map[string]any{"user": map[string]any{"age": 31}}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"user": map[string]any{"name": "ann", "age": 31}}, res.Data())
}

func TestYAMLResource_Body(t *testing.T) {
	res, err := YAMLHandler{}.New(map[string]any{"list": []any{"a"}}, "")
	require.NoError(t, err)

	body, err := res.Body()
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, yaml.Unmarshal(body, &out))
	assert.Equal(t, map[string]any{"list": []any{"a"}}, out)

	ct, _ := res.Headers().Get("Content-Type")
	assert.Equal(t, "application/yaml; charset=utf-8", ct)
}
