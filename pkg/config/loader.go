package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// GlobalConfigDir is the directory below the user config dir that holds the
// global config.
const GlobalConfigDir = "mockrr"

// LocalConfigFileNames are searched for in the working directory, in order.
var LocalConfigFileNames = []string{"mockrr.yaml", "mockrr.yml", ".mockrr.yaml", ".mockrr.yml"}

// GlobalConfigFileNames are searched for in the global config dir, in order.
var GlobalConfigFileNames = []string{"config.yaml", "config.yml"}

// DotenvFile is read from the working directory.
const DotenvFile = ".env"

// LoadOptions control where Load looks.
type LoadOptions struct {
	// ConfigFile is an explicit local config path. It must exist.
	ConfigFile string

	// Dir is the working directory. Defaults to os.Getwd.
	Dir string

	// GlobalDir holds the global config. Defaults to the mockrr directory
	// below os.UserConfigDir. Set it to "-" to skip the global config.
	GlobalDir string

	// Getenv looks up environment variables. Defaults to os.Getenv.
	Getenv func(string) string
}

// ConfigError is a problem with a config file or variable.
type ConfigError struct {
	Path    string
	Line    int
	Message string
}

func (e *ConfigError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d): %s", e.Path, e.Line, e.Message)
	}
	return e.Path + ": " + e.Message
}

// Load reads every config layer below flags and merges them.
func Load(opts LoadOptions) (*Config, error) {
	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		dir = wd
	}

	getenv, err := envLookup(opts.Getenv, filepath.Join(dir, DotenvFile))
	if err != nil {
		return nil, err
	}

	cfg := NewDefault()

	if globalPath := findGlobal(opts.GlobalDir); globalPath != "" {
		global, err := LoadFile(globalPath)
		if err != nil {
			return nil, err
		}
		Merge(cfg, global, SourceGlobal)
	}

	localPath := opts.ConfigFile
	if localPath == "" {
		localPath = getenv(EnvConfig)
	}
	if localPath != "" && !filepath.IsAbs(localPath) {
		localPath = filepath.Join(dir, localPath)
	}
	if localPath == "" {
		localPath = findFile(dir, LocalConfigFileNames)
	}
	if localPath != "" {
		local, err := LoadFile(localPath)
		if err != nil {
			return nil, err
		}
		Merge(cfg, local, SourceLocal)
	}

	if err := LoadEnv(cfg, getenv); err != nil {
		return nil, err
	}
	for i := range cfg.Resources {
		if cfg.Resources[i].baseDir == "" {
			cfg.Resources[i].baseDir = dir
		}
	}
	return cfg, nil
}

// envLookup prefers the process environment and falls back to the dotenv
// file, if there is one.
func envLookup(getenv func(string) string, dotenvPath string) (func(string) string, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	dotenv, err := godotenv.Read(dotenvPath)
	if errors.Is(err, fs.ErrNotExist) {
		return getenv, nil
	}
	if err != nil {
		return nil, &ConfigError{Path: dotenvPath, Message: err.Error()}
	}
	return func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}, nil
}

func findGlobal(dir string) string {
	if dir == "-" {
		return ""
	}
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(base, GlobalConfigDir)
	}
	return findFile(dir, GlobalConfigFileNames)
}

func findFile(dir string, names []string) string {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// LoadFile reads, validates and decodes one YAML config file. Relative
// paths in includeRoot, cache.dir and resources are resolved against the
// file's directory.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Message: err.Error()}
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, yamlError(path, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	if err := validateSchema(path, doc); err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, yamlError(path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	base := filepath.Dir(abs)

	cfg.File = abs
	cfg.Sources = make(map[string]string)
	cfg.setFields = make(map[string]bool)
	collectKeys(doc, "", cfg.setFields)
	if cfg.IncludeRoot != "" {
		cfg.IncludeRoot = ResolvePath(base, cfg.IncludeRoot)
	}
	if cfg.Cache.Dir != "" {
		cfg.Cache.Dir = ResolvePath(base, cfg.Cache.Dir)
	}
	for i := range cfg.Resources {
		cfg.Resources[i].baseDir = base
	}
	return &cfg, nil
}

func yamlError(path string, err error) error {
	var te *yaml.TypeError
	if errors.As(err, &te) && len(te.Errors) > 0 {
		return &ConfigError{Path: path, Message: te.Errors[0]}
	}
	return &ConfigError{Path: path, Message: err.Error()}
}

// collectKeys records the dotted path of every mapping key below the top
// level, resources excluded.
func collectKeys(v any, prefix string, out map[string]bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return
	}
	for k, child := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		out[key] = true
		if key != "resources" {
			collectKeys(child, key, out)
		}
	}
}

// ResolvePath resolves target against base unless it is absolute. A leading
// ~/ expands to the home directory.
func ResolvePath(base, target string) string {
	if filepath.IsAbs(target) {
		return target
	}
	if strings.HasPrefix(target, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, target[2:])
		}
	}
	return filepath.Join(base, target)
}
