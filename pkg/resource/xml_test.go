package resource

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXMLHandler_New(t *testing.T) {
	res, err := XMLHandler{}.New(map[string]any{"name": "ann", "tags": []any{"a", "b"}}, "")
	require.NoError(t, err)

	doc := res.(*XMLResource).Document()
	assert.Equal(t, "resource", doc.Root().Tag)
	assert.Equal(t, "ann", doc.FindElement("/resource/name").Text())
	items := doc.FindElements("/resource/tags/item")
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[1].Text())

	ct, _ := res.Headers().Get("Content-Type")
	assert.Equal(t, "application/xml; charset=utf-8", ct)
}

func TestXMLHandler_Parse(t *testing.T) {
	res, err := XMLHandler{}.Parse([]byte(`<user id="7"><name>bob</name></user>`), "")
	require.NoError(t, err)
	root := res.(*XMLResource).Document().Root()
	assert.Equal(t, "7", root.SelectAttrValue("id", ""))

	for _, raw := range []string{"plain text", "", "<open>"} {
		_, err := XMLHandler{}.Parse([]byte(raw), "")
		var decErr *DecodeError
		assert.ErrorAs(t, err, &decErr, "input %q", raw)
	}
}

func TestXMLHandler_NewFromDocument(t *testing.T) {
	doc := etree.NewDocument()
	doc.CreateElement("root").SetText("x")

	res, err := XMLHandler{}.New(doc, "")
	require.NoError(t, err)

	doc.Root().SetText("changed")
	assert.Equal(t, "x", res.(*XMLResource).Document().Root().Text())
}

func TestXMLResource_Body(t *testing.T) {
	res, err := XMLHandler{}.Parse([]byte(`<a><b>1</b></a>`), "")
	require.NoError(t, err)

	body, err := res.Body()
	require.NoError(t, err)
	assert.Contains(t, string(body), "<a>\n  <b>1</b>\n</a>")
}

func TestXMLResource_Replace(t *testing.T) {
	res, err := XMLHandler{}.Parse([]byte(`<a>1</a>`), "")
	require.NoError(t, err)

	got, err := res.Replace(Merge{Patch: `<b>2</b>`})
	require.NoError(t, err)
	assert.Same(t, res, got)
	assert.Equal(t, "b", got.(*XMLResource).Document().Root().Tag)

	got, err = res.Replace(Substitution{Value: map[string]any{"c": 3}})
	require.NoError(t, err)
	assert.Equal(t, "3", got.(*XMLResource).Document().FindElement("/resource/c").Text())

	var seen any
	got, err = res.Replace(CallbackPatch{Fn: func(vars Vars, _, _ string) (any, error) {
		seen = vars["cached"]
		return `<d/>`, nil
	}})
	require.NoError(t, err)
	assert.Contains(t, seen, "<c>3</c>")
	assert.Equal(t, "d", got.(*XMLResource).Document().Root().Tag)

	_, err = res.Replace(Merge{Patch: "not xml"})
	var decErr *DecodeError
	assert.ErrorAs(t, err, &decErr)
}

func TestXMLResource_Clone(t *testing.T) {
	res, err := XMLHandler{}.Parse([]byte(`<a>1</a>`), "")
	require.NoError(t, err)

	c := res.Clone()
	c.(*XMLResource).Document().Root().SetText("2")
	assert.Equal(t, "1", res.(*XMLResource).Document().Root().Text())
}

func TestXMLHandler_NewInvalidNames(t *testing.T) {
	data := map[string]any{
		"first name": "Ada",
		"1st":        true,
		"a&b":        1,
		"":           "empty",
		"ns:tag":     "colon",
		"ok_name-2":  "kept",
	}
	res, err := XMLHandler{}.New(data, "")
	require.NoError(t, err)

	blob, err := Marshal(res)
	require.NoError(t, err)
	reg := NewRegistry()
	require.NoError(t, reg.Register(XMLHandler{}))
	restored, err := reg.Unmarshal(blob)
	require.NoError(t, err)

	doc := restored.(*XMLResource).Document()
	assert.Equal(t, "kept", doc.FindElement("/resource/ok_name-2").Text())

	got := make(map[string]string)
	for _, e := range doc.FindElements("/resource/entry") {
		got[e.SelectAttrValue("key", "?")] = e.Text()
	}
	assert.Equal(t, map[string]string{
		"first name": "Ada",
		"1st":        "true",
		"a&b":        "1",
		"":           "empty",
		"ns:tag":     "colon",
	}, got)
}

func TestIsXMLName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"user", true},
		{"_id", true},
		{"a.b-c_1", true},
		{"名前", true},
		{"", false},
		{"1st", false},
		{"-x", false},
		{"first name", false},
		{"a&b", false},
		{"ns:tag", false},
		{"<x>", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isXMLName(tt.name), "name %q", tt.name)
	}
}
