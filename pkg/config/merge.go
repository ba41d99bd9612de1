package config

// Merge applies the values set in source to target and records sourceType
// for each of them. Strings and numbers count as set when non-zero. Booleans
// count as set when source was loaded from a file that names them, or when
// they are true.
func Merge(target, source *Config, sourceType string) {
	if source == nil {
		return
	}
	if target.Sources == nil {
		target.Sources = make(map[string]string)
	}
	m := merger{sources: target.Sources, sourceType: sourceType}

	m.str(&target.IncludeRoot, source.IncludeRoot, "includeRoot")
	m.str(&target.ContentType, source.ContentType, "contentType")
	m.str(&target.Charset, source.Charset, "charset")
	if source.boolIsSet("versioning", source.Versioning) {
		target.Versioning = source.Versioning
		m.mark("versioning")
	}

	m.str(&target.Log.Level, source.Log.Level, "log.level")
	m.str(&target.Log.Format, source.Log.Format, "log.format")

	tc, sc := &target.Cache, &source.Cache
	m.str(&tc.Backend, sc.Backend, "cache.backend")
	m.str(&tc.Dir, sc.Dir, "cache.dir")
	if sc.Size != 0 {
		tc.Size = sc.Size
		m.mark("cache.size")
	}
	m.str(&tc.DSN, sc.DSN, "cache.dsn")
	m.str(&tc.Table, sc.Table, "cache.table")

	m.str(&tc.S3.Endpoint, sc.S3.Endpoint, "cache.s3.endpoint")
	m.str(&tc.S3.Region, sc.S3.Region, "cache.s3.region")
	m.str(&tc.S3.AccessKey, sc.S3.AccessKey, "cache.s3.accessKey")
	m.str(&tc.S3.SecretKey, sc.S3.SecretKey, "cache.s3.secretKey")
	m.str(&tc.S3.Bucket, sc.S3.Bucket, "cache.s3.bucket")
	m.str(&tc.S3.Prefix, sc.S3.Prefix, "cache.s3.prefix")
	if source.boolIsSet("cache.s3.useSSL", sc.S3.UseSSL) {
		tc.S3.UseSSL = sc.S3.UseSSL
		m.mark("cache.s3.useSSL")
	}

	if len(sc.Etcd.Endpoints) > 0 {
		tc.Etcd.Endpoints = append([]string(nil), sc.Etcd.Endpoints...)
		m.mark("cache.etcd.endpoints")
	}
	m.str(&tc.Etcd.Username, sc.Etcd.Username, "cache.etcd.username")
	m.str(&tc.Etcd.Password, sc.Etcd.Password, "cache.etcd.password")
	m.str(&tc.Etcd.Prefix, sc.Etcd.Prefix, "cache.etcd.prefix")
	if sc.Etcd.DialTimeout != 0 {
		tc.Etcd.DialTimeout = sc.Etcd.DialTimeout
		m.mark("cache.etcd.dialTimeout")
	}

	m.str(&target.Serve.Addr, source.Serve.Addr, "serve.addr")

	if len(source.Resources) > 0 {
		target.Resources = mergeResources(target.Resources, source.Resources)
		m.mark("resources")
	}
	if source.File != "" {
		target.File = source.File
	}
}

type merger struct {
	sources    map[string]string
	sourceType string
}

func (m merger) str(dst *string, src, key string) {
	if src == "" {
		return
	}
	*dst = src
	m.mark(key)
}

func (m merger) mark(key string) {
	m.sources[key] = m.sourceType
}

// MarkSet records keys as explicitly set, so Merge applies them even when
// they hold false.
func (c *Config) MarkSet(keys ...string) {
	if c.setFields == nil {
		c.setFields = make(map[string]bool)
	}
	for _, k := range keys {
		c.setFields[k] = true
	}
}

func (c *Config) boolIsSet(key string, v bool) bool {
	if c.setFields != nil {
		return c.setFields[key]
	}
	return v
}

// mergeResources appends next to prev. Definitions with an id already
// present in prev replace it in place.
func mergeResources(prev, next []ResourceDef) []ResourceDef {
	out := append([]ResourceDef(nil), prev...)
	pos := make(map[string]int, len(out))
	for i, d := range out {
		if d.ID != "" {
			pos[d.ID] = i
		}
	}
	for _, d := range next {
		if i, ok := pos[d.ID]; ok && d.ID != "" {
			out[i] = d
			continue
		}
		if d.ID != "" {
			pos[d.ID] = len(out)
		}
		out = append(out, d)
	}
	return out
}
