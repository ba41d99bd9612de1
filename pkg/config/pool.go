package config

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/getmockd/mockrr/pkg/cache"
	"github.com/getmockd/mockrr/pkg/cache/etcd"
	"github.com/getmockd/mockrr/pkg/cache/file"
	"github.com/getmockd/mockrr/pkg/cache/memory"
	"github.com/getmockd/mockrr/pkg/cache/postgres"
	"github.com/getmockd/mockrr/pkg/cache/s3"
	"github.com/getmockd/mockrr/pkg/logging"
	"github.com/getmockd/mockrr/pkg/resource"
)

// OpenPool connects to the configured cache backend.
func (c CacheConfig) OpenPool(ctx context.Context, log *slog.Logger) (cache.Pool, error) {
	if log == nil {
		log = logging.Nop()
	}
	var (
		pool cache.Pool
		err  error
	)
	switch c.Backend {
	case BackendFile, "":
		pool, err = asPool(file.New(c.Dir, file.WithLogger(log)))
	case BackendMemory:
		pool, err = asPool(memory.New(c.Size))
	case BackendPostgres:
		var opts []postgres.Option
		if c.Table != "" {
			opts = append(opts, postgres.WithTable(c.Table))
		}
		pool, err = asPool(postgres.Open(ctx, c.DSN, opts...))
	case BackendS3:
		pool, err = asPool(s3.New(s3.Config{
			Endpoint:  c.S3.Endpoint,
			Region:    c.S3.Region,
			AccessKey: c.S3.AccessKey,
			SecretKey: c.S3.SecretKey,
			Bucket:    c.S3.Bucket,
			Prefix:    c.S3.Prefix,
			UseSSL:    c.S3.UseSSL,
		}))
	case BackendEtcd:
		pool, err = asPool(etcd.Open(etcd.Config{
			Endpoints:   c.Etcd.Endpoints,
			Username:    c.Etcd.Username,
			Password:    c.Etcd.Password,
			Prefix:      c.Etcd.Prefix,
			DialTimeout: c.Etcd.DialTimeout,
		}))
	default:
		return nil, &cache.ValidationError{Field: "cache.backend", Message: fmt.Sprintf("unknown backend %q", c.Backend)}
	}
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", c.Backend, err)
	}
	log.Debug("cache opened", "backend", c.Backend)
	return pool, nil
}

// asPool keeps a failed constructor from producing a non-nil interface
// holding a nil pointer.
func asPool[P cache.Pool](p P, err error) (cache.Pool, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Registry builds a resource registry with every built-in handler and the
// configured include root.
func (c *Config) Registry() (*resource.Registry, error) {
	reg := resource.NewRegistry(resource.WithIncludeRoot(c.IncludeRoot))
	for _, h := range resource.Builtin() {
		if h.ContentType() == resource.TypeJSON {
			continue
		}
		if err := reg.Register(h); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
