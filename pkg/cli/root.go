package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockrr/pkg/config"
	"github.com/getmockd/mockrr/pkg/logging"
)

var (
	// Persistent flags available to all subcommands
	configFile      string
	jsonOutput      bool
	logLevel        string
	logFormat       string
	backendFlag     string
	cacheDirFlag    string
	includeRootFlag string
	contentTypeFlag string
	charsetFlag     string
	versioningFlag  bool

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"

	// cfg and logger are set by loadConfig before any command runs.
	cfg    *config.Config
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mockrr",
	Short: "mockrr generates mock API responses and caches them by id",
	Long: `mockrr builds JSON, XML and YAML resources from data, files, text or
expressions, caches them by id and serves them back, so mocked APIs stay
stable across requests.

Configuration is read from mockrr.yaml in the working directory, the global
config at $XDG_CONFIG_HOME/mockrr/config.yaml, MOCKRR_* environment variables
and flags, in increasing order of precedence.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the CLI and exits with its status.
func Execute() {
	os.Exit(Main())
}

// Main runs the CLI with the process arguments and returns the exit code.
func Main() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "Config file (default: mockrr.yaml in the working directory)")
	pf.BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&logFormat, "log-format", "", "Log format: text, json")
	pf.StringVar(&backendFlag, "backend", "", "Cache backend: file, memory, postgres, s3, etcd")
	pf.StringVar(&cacheDirFlag, "cache-dir", "", "Directory of the file backend")
	pf.StringVar(&includeRootFlag, "include-root", "", "Directory relative file paths are also looked up in")
	pf.StringVar(&contentTypeFlag, "content-type", "", "Default content type of generated resources")
	pf.StringVar(&charsetFlag, "charset", "", "Default charset of generated resources")
	pf.BoolVar(&versioningFlag, "versioning", false, "Keep a snapshot of every cached write")
}

// loadConfig layers the configuration, applies changed flags and sets up
// the logger.
func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(config.LoadOptions{ConfigFile: configFile})
	if err != nil {
		return err
	}
	config.Merge(c, flagConfig(cmd), config.SourceFlag)
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}

	cfg = c
	logger = logging.FromStrings(c.Log.Level, c.Log.Format, cmd.ErrOrStderr())
	logger.Debug("configuration loaded", "file", c.File, "backend", c.Cache.Backend)
	return nil
}

// flagConfig collects the persistent flags the user actually set.
func flagConfig(cmd *cobra.Command) *config.Config {
	fs := cmd.Flags()
	f := &config.Config{}
	if fs.Changed("log-level") {
		f.Log.Level = logLevel
	}
	if fs.Changed("log-format") {
		f.Log.Format = logFormat
	}
	if fs.Changed("backend") {
		f.Cache.Backend = backendFlag
	}
	if fs.Changed("cache-dir") {
		f.Cache.Dir = cacheDirFlag
	}
	if fs.Changed("include-root") {
		f.IncludeRoot = includeRootFlag
	}
	if fs.Changed("content-type") {
		f.ContentType = contentTypeFlag
	}
	if fs.Changed("charset") {
		f.Charset = charsetFlag
	}
	if fs.Changed("versioning") {
		f.Versioning = versioningFlag
		f.MarkSet("versioning")
	}
	if fs.Lookup("addr") != nil && fs.Changed("addr") {
		f.Serve.Addr = serveAddr
	}
	return f
}

// skipConfig is used by commands that must work without a valid config.
func skipConfig(*cobra.Command, []string) error {
	return nil
}
