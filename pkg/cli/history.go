package cli

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockrr/pkg/cli/internal/output"
)

var historyCmd = &cobra.Command{
	Use:   "history [timestamp]",
	Short: "List version snapshots, or print one",
	Long: `Without arguments, list the snapshot timestamps and the ids they were taken
of. With a timestamp, print that snapshot. Needs versioning to be enabled.

Examples:
  mockrr history --versioning
  mockrr history 20240501T120000.000000000Z --versioning`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sess, err := openSession(ctx, nil)
		if err != nil {
			return err
		}
		defer sess.Close()

		w := cmd.OutOrStdout()
		if len(args) == 1 {
			res, err := sess.CachedVersion(ctx, args[0])
			if err != nil {
				return err
			}
			if res == nil {
				return fmt.Errorf("version %s: %w", args[0], ErrNotCached)
			}
			return printResource(w, "", res)
		}

		versions, err := sess.CachedVersions(ctx)
		if err != nil {
			return err
		}
		return printResult(w, versions, func() {
			if len(versions) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "No versions")
				return
			}
			tw := output.Table(w)
			fmt.Fprintln(tw, "VERSION\tID")
			for _, ts := range slices.Sorted(maps.Keys(versions)) {
				fmt.Fprintf(tw, "%s\t%s\n", ts, versions[ts])
			}
			_ = tw.Flush()
		})
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
