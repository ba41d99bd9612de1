package resource

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	require.NoError(t, reg.Register(XMLHandler{}))
	require.NoError(t, reg.Register(YAMLHandler{}))
	return reg
}

func TestMarshal_RoundTrip(t *testing.T) {
	reg := newTestRegistry(t)

	tests := []struct {
		name string
		ct   string
		raw  string
	}{
		{name: "json object", ct: TypeJSON, raw: `{"a":[1,{"b":null}]}`},
		{name: "json scalar", ct: TypeJSON, raw: "plain"},
		{name: "yaml", ct: TypeYAML, raw: "count: 3\nratio: 0.5\nok: true\n"},
		{name: "xml", ct: TypeXML, raw: `<a x="1"><b>t</b></a>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := reg.FromString(tt.ct, "", tt.raw)
			require.NoError(t, err)
			res.AddHeader("X-Mock", "1").SetStatus(http.StatusTeapot)

			blob, err := Marshal(res)
			require.NoError(t, err)
			got, err := reg.Unmarshal(blob)
			require.NoError(t, err)

			wantBody, err := res.Body()
			require.NoError(t, err)
			gotBody, err := got.Body()
			require.NoError(t, err)

			assert.Equal(t, string(wantBody), string(gotBody))
			assert.Equal(t, res.ContentType(), got.ContentType())
			assert.Equal(t, res.Charset(), got.Charset())
			assert.Equal(t, res.Headers().All(), got.Headers().All())
			assert.Equal(t, http.StatusOK, got.Status(), "status is not serialized")
		})
	}
}

func TestMarshal_YAMLKeepsIntegers(t *testing.T) {
	reg := newTestRegistry(t)
	res, err := reg.FromString(TypeYAML, "", "count: 3")
	require.NoError(t, err)

	blob, err := Marshal(res)
	require.NoError(t, err)
	got, err := reg.Unmarshal(blob)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"count": 3}, got.Data())
}

func TestMarshal_Format(t *testing.T) {
	res, err := JSONHandler{}.New(map[string]any{"a": 1}, "")
	require.NoError(t, err)

	blob, err := Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "application/json",
		"charset": "utf-8",
		"headers": [{"name": "Content-Type", "value": "application/json; charset=utf-8"}],
		"data": {"a": 1}
	}`, string(blob))
}

func TestUnmarshal_Errors(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Unmarshal([]byte(`not json`))
	assert.Error(t, err)

	_, err = reg.Unmarshal([]byte(`{"type":"application/xml","charset":"utf-8","data":"<a/>"}`))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}
