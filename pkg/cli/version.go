package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// VersionOutput is the --json shape of mockrr version.
type VersionOutput struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
	OS      string `json:"os"`
	Arch    string `json:"arch"`
}

var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Show mockrr version information",
	Args:              cobra.NoArgs,
	PersistentPreRunE: skipConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := buildVersion()
		return printResult(cmd.OutOrStdout(), out, func() {
			v := out.Version
			if len(v) > 0 && v[0] != 'v' && v != "dev" && v != "(devel)" {
				v = "v" + v
			}
			fmt.Fprintf(cmd.OutOrStdout(), "mockrr %s (%s, %s)\n", v, out.Commit, out.Date)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s/%s\n", out.Go, out.OS, out.Arch)
		})
	},
}

func buildVersion() VersionOutput {
	out := VersionOutput{
		Version: Version,
		Commit:  Commit,
		Date:    BuildDate,
		Go:      runtime.Version(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}
	if out.Version == "dev" && info.Main.Version != "" {
		out.Version = info.Main.Version
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if out.Commit == "none" {
				out.Commit = setting.Value
			}
		case "vcs.time":
			if out.Date == "unknown" {
				out.Date = setting.Value
			}
		case "vcs.modified":
			if setting.Value == "true" {
				out.Commit += "-dirty"
			}
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
