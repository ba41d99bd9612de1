package config

import "time"

// Config is the complete mockrr configuration.
type Config struct {
	Version     string `yaml:"version,omitempty" json:"version,omitempty"`
	IncludeRoot string `yaml:"includeRoot,omitempty" json:"includeRoot,omitempty"`
	ContentType string `yaml:"contentType,omitempty" json:"contentType,omitempty"`
	Charset     string `yaml:"charset,omitempty" json:"charset,omitempty"`
	Versioning  bool   `yaml:"versioning,omitempty" json:"versioning,omitempty"`

	Log   LogConfig   `yaml:"log,omitempty" json:"log"`
	Cache CacheConfig `yaml:"cache,omitempty" json:"cache"`
	Serve ServeConfig `yaml:"serve,omitempty" json:"serve"`

	Resources []ResourceDef `yaml:"resources,omitempty" json:"resources,omitempty"`

	// File is the local config file that was loaded, if any.
	File string `yaml:"-" json:"file,omitempty"`

	// Sources tracks where each value came from.
	Sources map[string]string `yaml:"-" json:"-"`

	// setFields holds the dotted keys present in a loaded file, so explicit
	// false booleans can be told apart from missing ones.
	setFields map[string]bool
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `yaml:"level,omitempty" json:"level,omitempty"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend string `yaml:"backend,omitempty" json:"backend,omitempty"`

	// Dir is the file backend directory. Empty means the system temp dir.
	Dir string `yaml:"dir,omitempty" json:"dir,omitempty"`

	// Size is the memory backend capacity.
	Size int `yaml:"size,omitempty" json:"size,omitempty"`

	DSN   string `yaml:"dsn,omitempty" json:"dsn,omitempty"`
	Table string `yaml:"table,omitempty" json:"table,omitempty"`

	S3   S3Config   `yaml:"s3,omitempty" json:"s3"`
	Etcd EtcdConfig `yaml:"etcd,omitempty" json:"etcd"`
}

// S3Config configures the s3 backend.
type S3Config struct {
	Endpoint  string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	Region    string `yaml:"region,omitempty" json:"region,omitempty"`
	AccessKey string `yaml:"accessKey,omitempty" json:"accessKey,omitempty"`
	SecretKey string `yaml:"secretKey,omitempty" json:"-"`
	Bucket    string `yaml:"bucket,omitempty" json:"bucket,omitempty"`
	Prefix    string `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	UseSSL    bool   `yaml:"useSSL,omitempty" json:"useSSL,omitempty"`
}

// EtcdConfig configures the etcd backend.
type EtcdConfig struct {
	Endpoints   []string      `yaml:"endpoints,omitempty" json:"endpoints,omitempty"`
	Username    string        `yaml:"username,omitempty" json:"username,omitempty"`
	Password    string        `yaml:"password,omitempty" json:"-"`
	Prefix      string        `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	DialTimeout time.Duration `yaml:"dialTimeout,omitempty" json:"dialTimeout,omitempty"`
}

// ServeConfig configures mockrr serve.
type ServeConfig struct {
	Addr string `yaml:"addr,omitempty" json:"addr,omitempty"`
}

// ResourceDef declares a resource to seed. Exactly one of File, Glob, Data,
// Text and Expr is set.
type ResourceDef struct {
	ID      string            `yaml:"id,omitempty" json:"id,omitempty"`
	File    string            `yaml:"file,omitempty" json:"file,omitempty"`
	Glob    string            `yaml:"glob,omitempty" json:"glob,omitempty"`
	Data    any               `yaml:"data,omitempty" json:"data,omitempty"`
	Text    string            `yaml:"text,omitempty" json:"text,omitempty"`
	Expr    string            `yaml:"expr,omitempty" json:"expr,omitempty"`
	Type    string            `yaml:"type,omitempty" json:"type,omitempty"`
	Charset string            `yaml:"charset,omitempty" json:"charset,omitempty"`
	Status  int               `yaml:"status,omitempty" json:"status,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`

	// baseDir resolves relative File and Glob paths.
	baseDir string
}

// Backends.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
	BackendEtcd     = "etcd"
)

// Backends lists the supported cache backends.
var Backends = []string{BackendFile, BackendMemory, BackendPostgres, BackendS3, BackendEtcd}

// Value sources.
const (
	SourceDefault = "default"
	SourceGlobal  = "global"
	SourceLocal   = "local"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)
