package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockrr/pkg/resource"
)

func TestSeeds(t *testing.T) {
	dir := t.TempDir()
	cfg := NewDefault()
	cfg.Resources = []ResourceDef{
		{ID: "file", File: "users.json", baseDir: dir},
		{ID: "text", Text: "hello", Status: 202, Headers: map[string]string{"X-A": "1"}},
		{ID: "data", Data: map[string]any{"a": 1}, Type: "application/yaml", Charset: "iso-8859-1"},
		{ID: "scalar", Data: "users.json", baseDir: dir},
		{ID: "expr", Expr: `{"kind": type}`},
	}

	seeds, err := cfg.Seeds()
	require.NoError(t, err)
	require.Len(t, seeds, 5)

	assert.Equal(t, resource.File(filepath.Join(dir, "users.json")), seeds[0].Input)
	assert.Equal(t, "application/json", seeds[0].ContentType)

	assert.Equal(t, resource.Text("hello"), seeds[1].Input)
	assert.Equal(t, 202, seeds[1].Status)
	assert.Equal(t, map[string]string{"X-A": "1"}, seeds[1].Headers)

	assert.Equal(t, map[string]any{"a": 1}, seeds[2].Input)
	assert.Equal(t, "application/yaml", seeds[2].ContentType)
	assert.Equal(t, "iso-8859-1", seeds[2].Charset)

	assert.Equal(t, resource.Text("users.json"), seeds[3].Input, "string data is never a path")

	cb, ok := seeds[4].Input.(resource.Callback)
	require.True(t, ok)
	out, err := cb(resource.Vars{"type": "application/json"}, "application/json", "utf-8")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"kind": "application/json"}, out)
}

func TestSeeds_BadExpr(t *testing.T) {
	cfg := NewDefault()
	cfg.Resources = []ResourceDef{{ID: "x", Expr: "1 +"}}

	_, err := cfg.Seeds()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resources[0]")
}

func TestSeeds_Glob(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "fixtures", "a.json"), "{}")
	writeFile(t, filepath.Join(dir, "fixtures", "nested", "b.json"), "[]")
	writeFile(t, filepath.Join(dir, "fixtures", "c.txt"), "skip")

	tests := []struct {
		name string
		def  ResourceDef
		want []string
	}{
		{
			name: "recursive",
			def:  ResourceDef{Glob: "fixtures/**/*.json", baseDir: dir},
			want: []string{"fixtures/a.json", "fixtures/nested/b.json"},
		},
		{
			name: "flat with prefix",
			def:  ResourceDef{ID: "fx", Glob: "fixtures/*", baseDir: dir},
			want: []string{"fx/fixtures/a.json", "fx/fixtures/c.txt"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefault()
			cfg.Resources = []ResourceDef{tt.def}

			seeds, err := cfg.Seeds()
			require.NoError(t, err)
			var ids []string
			for _, s := range seeds {
				ids = append(ids, s.ID)
				assert.IsType(t, resource.File(""), s.Input)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	cfg := NewDefault()
	cfg.Resources = []ResourceDef{{Glob: "nothing/*.json", baseDir: dir}}
	_, err := cfg.Seeds()
	assert.ErrorContains(t, err, "matched no files")
}
