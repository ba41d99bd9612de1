package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/getmockd/mockrr/pkg/cache"
	"github.com/getmockd/mockrr/pkg/mockrr"
	"github.com/getmockd/mockrr/pkg/resource"
)

// Validate checks the merged configuration. Every problem is reported; the
// result joins *cache.ValidationError values.
func (c *Config) Validate() error {
	var errs []error
	fail := func(field, format string, args ...any) {
		errs = append(errs, &cache.ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if _, err := resource.MediaType(c.ContentType); err != nil {
		fail("contentType", "%v", err)
	}
	if !validCharset(c.Charset) {
		fail("charset", "unknown charset %q", c.Charset)
	}
	if !slices.Contains([]string{"debug", "info", "warn", "warning", "error"}, strings.ToLower(c.Log.Level)) {
		fail("log.level", "unknown level %q", c.Log.Level)
	}
	if !slices.Contains([]string{"text", "json"}, strings.ToLower(c.Log.Format)) {
		fail("log.format", "unknown format %q", c.Log.Format)
	}
	if c.Serve.Addr == "" {
		fail("serve.addr", "must not be empty")
	}

	cc := c.Cache
	switch cc.Backend {
	case BackendFile:
	case BackendMemory:
		if cc.Size < 0 {
			fail("cache.size", "must not be negative")
		}
	case BackendPostgres:
		if cc.DSN == "" {
			fail("cache.dsn", "is required for the postgres backend")
		}
	case BackendS3:
		if cc.S3.Endpoint == "" {
			fail("cache.s3.endpoint", "is required for the s3 backend")
		}
		if cc.S3.Bucket == "" {
			fail("cache.s3.bucket", "is required for the s3 backend")
		}
	case BackendEtcd:
		if len(cc.Etcd.Endpoints) == 0 {
			fail("cache.etcd.endpoints", "is required for the etcd backend")
		}
		if cc.Etcd.DialTimeout < 0 {
			fail("cache.etcd.dialTimeout", "must not be negative")
		}
	default:
		fail("cache.backend", "unknown backend %q, expected one of %s", cc.Backend, strings.Join(Backends, ", "))
	}

	ids := make(map[string]int)
	for i, d := range c.Resources {
		field := fmt.Sprintf("resources[%d]", i)
		if err := d.validate(); err != nil {
			fail(field, "%v", err)
			continue
		}
		if d.ID == "" {
			continue
		}
		if prev, ok := ids[d.ID]; ok {
			fail(field, "id %q is already used by resources[%d]", d.ID, prev)
		}
		ids[d.ID] = i
	}

	return errors.Join(errs...)
}

func (d ResourceDef) validate() error {
	kinds := 0
	for _, set := range []bool{d.File != "", d.Glob != "", d.Data != nil, d.Text != "", d.Expr != ""} {
		if set {
			kinds++
		}
	}
	switch {
	case kinds != 1:
		return errors.New("exactly one of file, glob, data, text and expr must be set")
	case d.ID == "" && d.Glob == "":
		return errors.New("id is required")
	case d.ID != "" && mockrr.IsReservedKey(d.ID):
		return fmt.Errorf("id %q is a reserved key", d.ID)
	case d.Status != 0 && (d.Status < 100 || d.Status > 599):
		return fmt.Errorf("status %d is out of range", d.Status)
	case d.Charset != "" && !validCharset(d.Charset):
		return fmt.Errorf("unknown charset %q", d.Charset)
	}
	if d.Type != "" {
		if _, err := resource.MediaType(d.Type); err != nil {
			return err
		}
	}
	return nil
}

func validCharset(name string) bool {
	_, err := htmlindex.Get(name)
	return err == nil
}
