package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Environment variable names.
const (
	EnvConfig      = "MOCKRR_CONFIG"
	EnvIncludeRoot = "MOCKRR_INCLUDE_ROOT"
	EnvContentType = "MOCKRR_CONTENT_TYPE"
	EnvCharset     = "MOCKRR_CHARSET"
	EnvVersioning  = "MOCKRR_VERSIONING"
	EnvLogLevel    = "MOCKRR_LOG_LEVEL"
	EnvLogFormat   = "MOCKRR_LOG_FORMAT"
	EnvBackend     = "MOCKRR_CACHE_BACKEND"
	EnvCacheDir    = "MOCKRR_CACHE_DIR"
	EnvCacheSize   = "MOCKRR_CACHE_SIZE"
	EnvDSN         = "MOCKRR_CACHE_DSN"
	EnvTable       = "MOCKRR_CACHE_TABLE"
	EnvS3Endpoint  = "MOCKRR_S3_ENDPOINT"
	EnvS3Region    = "MOCKRR_S3_REGION"
	EnvS3AccessKey = "MOCKRR_S3_ACCESS_KEY"
	EnvS3SecretKey = "MOCKRR_S3_SECRET_KEY"
	EnvS3Bucket    = "MOCKRR_S3_BUCKET"
	EnvS3Prefix    = "MOCKRR_S3_PREFIX"
	EnvS3UseSSL    = "MOCKRR_S3_USE_SSL"
	EnvEtcdEndpts  = "MOCKRR_ETCD_ENDPOINTS"
	EnvEtcdUser    = "MOCKRR_ETCD_USERNAME"
	EnvEtcdPass    = "MOCKRR_ETCD_PASSWORD"
	EnvEtcdPrefix  = "MOCKRR_ETCD_PREFIX"
	EnvEtcdTimeout = "MOCKRR_ETCD_DIAL_TIMEOUT"
	EnvServeAddr   = "MOCKRR_SERVE_ADDR"
)

// LoadEnv applies MOCKRR_* variables found through getenv to cfg. Malformed
// numbers, booleans and durations are errors.
func LoadEnv(cfg *Config, getenv func(string) string) error {
	src := &Config{setFields: make(map[string]bool)}

	src.IncludeRoot = getenv(EnvIncludeRoot)
	src.ContentType = getenv(EnvContentType)
	src.Charset = getenv(EnvCharset)
	src.Log.Level = getenv(EnvLogLevel)
	src.Log.Format = getenv(EnvLogFormat)
	src.Cache.Backend = getenv(EnvBackend)
	src.Cache.Dir = getenv(EnvCacheDir)
	src.Cache.DSN = getenv(EnvDSN)
	src.Cache.Table = getenv(EnvTable)
	src.Cache.S3.Endpoint = getenv(EnvS3Endpoint)
	src.Cache.S3.Region = getenv(EnvS3Region)
	src.Cache.S3.AccessKey = getenv(EnvS3AccessKey)
	src.Cache.S3.SecretKey = getenv(EnvS3SecretKey)
	src.Cache.S3.Bucket = getenv(EnvS3Bucket)
	src.Cache.S3.Prefix = getenv(EnvS3Prefix)
	src.Cache.Etcd.Username = getenv(EnvEtcdUser)
	src.Cache.Etcd.Password = getenv(EnvEtcdPass)
	src.Cache.Etcd.Prefix = getenv(EnvEtcdPrefix)
	src.Serve.Addr = getenv(EnvServeAddr)

	if v := getenv(EnvEtcdEndpts); v != "" {
		for _, e := range strings.Split(v, ",") {
			if e = strings.TrimSpace(e); e != "" {
				src.Cache.Etcd.Endpoints = append(src.Cache.Etcd.Endpoints, e)
			}
		}
	}
	if v := getenv(EnvCacheSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return envError(EnvCacheSize, v, err)
		}
		src.Cache.Size = n
	}
	if v := getenv(EnvEtcdTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return envError(EnvEtcdTimeout, v, err)
		}
		src.Cache.Etcd.DialTimeout = d
	}
	if err := envBool(getenv, EnvVersioning, "versioning", &src.Versioning, src.setFields); err != nil {
		return err
	}
	if err := envBool(getenv, EnvS3UseSSL, "cache.s3.useSSL", &src.Cache.S3.UseSSL, src.setFields); err != nil {
		return err
	}

	Merge(cfg, src, SourceEnv)
	return nil
}

func envBool(getenv func(string) string, name, key string, dst *bool, set map[string]bool) error {
	v := getenv(name)
	if v == "" {
		return nil
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		*dst = true
	case "0", "false", "no", "off":
		*dst = false
	default:
		return envError(name, v, fmt.Errorf("not a boolean"))
	}
	set[key] = true
	return nil
}

func envError(name, value string, err error) error {
	return &ConfigError{Path: "$" + name, Message: fmt.Sprintf("invalid value %q: %v", value, err)}
}
