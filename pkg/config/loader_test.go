package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	global := t.TempDir()

	writeFile(t, filepath.Join(global, "config.yaml"), `
charset: iso-8859-1
versioning: true
log:
  level: info
cache:
  backend: memory
  size: 10
`)
	writeFile(t, filepath.Join(dir, "mockrr.yaml"), `
versioning: false
log:
  level: debug
cache:
  size: 20
`)
	writeFile(t, filepath.Join(dir, ".env"), "MOCKRR_CACHE_SIZE=30\nMOCKRR_SERVE_ADDR=:9999\n")

	cfg, err := Load(LoadOptions{
		Dir:       dir,
		GlobalDir: global,
		Getenv:    env(map[string]string{"MOCKRR_CACHE_SIZE": "40"}),
	})
	require.NoError(t, err)

	assert.Equal(t, "iso-8859-1", cfg.Charset)
	assert.Equal(t, SourceGlobal, cfg.Sources["charset"])
	assert.False(t, cfg.Versioning)
	assert.Equal(t, SourceLocal, cfg.Sources["versioning"])
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, BackendMemory, cfg.Cache.Backend)
	assert.Equal(t, 40, cfg.Cache.Size, "process environment beats .env")
	assert.Equal(t, SourceEnv, cfg.Sources["cache.size"])
	assert.Equal(t, ":9999", cfg.Serve.Addr)
	assert.Equal(t, filepath.Join(dir, "mockrr.yaml"), cfg.File)
}

func TestLoad_NoFiles(t *testing.T) {
	cfg, err := Load(LoadOptions{Dir: t.TempDir(), GlobalDir: "-", Getenv: env(nil)})
	require.NoError(t, err)
	assert.Equal(t, NewDefault().Serve, cfg.Serve)
	assert.Empty(t, cfg.File)
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "conf", "custom.yaml"), "contentType: application/yaml\n")
	writeFile(t, filepath.Join(dir, "mockrr.yaml"), "contentType: application/xml\n")

	cfg, err := Load(LoadOptions{Dir: dir, GlobalDir: "-", ConfigFile: "conf/custom.yaml", Getenv: env(nil)})
	require.NoError(t, err)
	assert.Equal(t, "application/yaml", cfg.ContentType)

	cfg, err = Load(LoadOptions{Dir: dir, GlobalDir: "-", Getenv: env(map[string]string{EnvConfig: "conf/custom.yaml"})})
	require.NoError(t, err)
	assert.Equal(t, "application/yaml", cfg.ContentType)

	_, err = Load(LoadOptions{Dir: dir, GlobalDir: "-", ConfigFile: "missing.yaml", Getenv: env(nil)})
	var ce *ConfigError
	assert.ErrorAs(t, err, &ce)
}

func TestLoad_Env(t *testing.T) {
	cfg, err := Load(LoadOptions{
		Dir:       t.TempDir(),
		GlobalDir: "-",
		Getenv: env(map[string]string{
			EnvVersioning:  "yes",
			EnvEtcdEndpts:  "a:2379, b:2379,",
			EnvEtcdTimeout: "2s",
			EnvS3UseSSL:    "true",
			EnvBackend:     "etcd",
		}),
	})
	require.NoError(t, err)
	assert.True(t, cfg.Versioning)
	assert.True(t, cfg.Cache.S3.UseSSL)
	assert.Equal(t, []string{"a:2379", "b:2379"}, cfg.Cache.Etcd.Endpoints)
	assert.Equal(t, 2*time.Second, cfg.Cache.Etcd.DialTimeout)
	assert.Equal(t, SourceEnv, cfg.Sources["cache.backend"])
}

func TestLoad_BadEnv(t *testing.T) {
	tests := map[string]string{
		EnvCacheSize:   "ten",
		EnvVersioning:  "maybe",
		EnvEtcdTimeout: "soon",
	}
	for name, value := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(LoadOptions{Dir: t.TempDir(), GlobalDir: "-", Getenv: env(map[string]string{name: value})})
			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, "$"+name, ce.Path)
		})
	}
}

func TestLoadFile_Schema(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "empty file", content: ""},
		{name: "full file", content: `
version: "1"
includeRoot: fixtures
contentType: application/json
log: {level: INFO, format: json}
cache:
  backend: etcd
  etcd:
    endpoints: [localhost:2379]
    dialTimeout: 1500ms
resources:
  - id: user
    data: {name: ann}
    status: 201
    headers: {X-Mock: "yes"}
`},
		{name: "unknown key", content: "colour: red\n", wantErr: "colour"},
		{name: "wrong type", content: "versioning: often\n", wantErr: "/versioning"},
		{name: "bad backend", content: "cache: {backend: redis}\n", wantErr: "/cache/backend"},
		{name: "bad table", content: "cache: {table: drop table}\n", wantErr: "/cache/table"},
		{name: "two inputs", content: "resources: [{id: a, text: x, file: y}]\n", wantErr: "/resources/0"},
		{name: "status range", content: "resources: [{id: a, text: x, status: 99}]\n", wantErr: "/resources/0/status"},
		{name: "broken yaml", content: "log: [\n", wantErr: "mockrr.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "mockrr.yaml")
			writeFile(t, path, tt.content)

			cfg, err := LoadFile(path)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.NotNil(t, cfg)
				return
			}
			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Contains(t, ce.Error(), tt.wantErr)
		})
	}
}

func TestLoadFile_ResolvesPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mockrr.yaml")
	writeFile(t, path, `
includeRoot: fixtures
cache:
  dir: .cache
  etcd:
    dialTimeout: 3s
resources:
  - id: a
    file: a.json
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "fixtures"), cfg.IncludeRoot)
	assert.Equal(t, filepath.Join(dir, ".cache"), cfg.Cache.Dir)
	assert.Equal(t, 3*time.Second, cfg.Cache.Etcd.DialTimeout)
	require.Len(t, cfg.Resources, 1)
	assert.Equal(t, dir, cfg.Resources[0].baseDir)
	assert.True(t, cfg.setFields["cache.etcd.dialTimeout"])
	assert.False(t, cfg.setFields["resources.id"])
}

func TestResolvePath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, "/abs/file", ResolvePath("/base", "/abs/file"))
	assert.Equal(t, filepath.Join("/base", "rel"), ResolvePath("/base", "rel"))
	assert.Equal(t, filepath.Join(home, "x"), ResolvePath("/base", "~/x"))
}

func TestSchema(t *testing.T) {
	s := Schema()
	assert.Contains(t, string(s), `"resources"`)
	s[0] = 'x'
	assert.Equal(t, byte('{'), Schema()[0])
}
