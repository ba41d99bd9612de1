package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/getmockd/mockrr/pkg/config"
	"github.com/getmockd/mockrr/pkg/resource"
)

var (
	initForce       bool
	initInteractive bool
	initOutput      string
)

// initAnswers are the values substituted into the generated config.
type initAnswers struct {
	Backend     string
	ContentType string
	Versioning  bool
}

// initCacheDir is created next to the config file for the file backend.
const initCacheDir = ".mockrr-cache"

const initTemplate = `# mockrr configuration
version: "1"

# Default content type and charset of generated resources.
contentType: %s
charset: utf-8

# Keep a snapshot of every cached write under a timestamp.
versioning: %t

log:
  level: warn
  format: text

cache:
  backend: %s
  dir: %s

# Resources cached by "mockrr seed" and on "mockrr serve" start.
resources:
  - id: hello
    data:
      message: hello world
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter mockrr.yaml",
	Long: `Write a starter mockrr.yaml to the working directory. Use --interactive to
choose the backend, content type and versioning in a form.`,
	Args:              cobra.NoArgs,
	PersistentPreRunE: skipConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		answers := initAnswers{
			Backend:     config.BackendFile,
			ContentType: resource.TypeJSON,
		}
		if initInteractive {
			if err := askInit(&answers); err != nil {
				return err
			}
		}

		path := initOutput
		if path == "" {
			path = config.LocalConfigFileNames[0]
		}
		if !initForce {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if !errors.Is(err, fs.ErrNotExist) {
				return err
			}
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		if answers.Backend == config.BackendFile {
			if err := os.MkdirAll(filepath.Join(filepath.Dir(path), initCacheDir), 0o755); err != nil {
				return err
			}
		}
		content := fmt.Sprintf(initTemplate, answers.ContentType, answers.Versioning, answers.Backend, initCacheDir)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), map[string]string{"path": path}, func() {
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		})
	},
}

func askInit(a *initAnswers) error {
	backends := make([]huh.Option[string], 0, len(config.Backends))
	for _, b := range config.Backends {
		backends = append(backends, huh.NewOption(b, b))
	}
	var types []huh.Option[string]
	for _, h := range resource.Builtin() {
		types = append(types, huh.NewOption(h.ContentType(), h.ContentType()))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which cache backend should store resources?").
				Options(backends...).
				Value(&a.Backend),
			huh.NewSelect[string]().
				Title("Default content type of generated resources?").
				Options(types...).
				Value(&a.ContentType),
			huh.NewConfirm().
				Title("Keep a snapshot of every cached write?").
				Value(&a.Versioning),
		),
	)
	return form.Run()
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config file")
	initCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "Choose settings in an interactive form")
	initCmd.Flags().StringVarP(&initOutput, "output", "o", "", "Path to write (default mockrr.yaml)")
	rootCmd.AddCommand(initCmd)
}
