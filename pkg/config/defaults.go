package config

import (
	"time"

	"github.com/getmockd/mockrr/pkg/cache/memory"
	"github.com/getmockd/mockrr/pkg/cache/postgres"
	"github.com/getmockd/mockrr/pkg/resource"
)

// DefaultAddr is the default listen address of mockrr serve.
const DefaultAddr = ":4280"

// DefaultDialTimeout is the default etcd dial timeout.
const DefaultDialTimeout = 5 * time.Second

// NewDefault returns a Config holding the built-in defaults.
func NewDefault() *Config {
	cfg := &Config{
		Version:     "1",
		ContentType: resource.TypeJSON,
		Charset:     resource.DefaultCharset,
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			Size:    memory.DefaultSize,
			Table:   postgres.DefaultTable,
			Etcd: EtcdConfig{
				DialTimeout: DefaultDialTimeout,
			},
		},
		Serve:   ServeConfig{Addr: DefaultAddr},
		Sources: make(map[string]string),
	}

	for _, key := range []string{
		"contentType", "charset", "versioning",
		"log.level", "log.format",
		"cache.backend", "cache.size", "cache.table", "cache.etcd.dialTimeout",
		"serve.addr",
	} {
		cfg.Sources[key] = SourceDefault
	}
	return cfg
}
