package cli

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockrr/pkg/cli/internal/output"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List cached ids and when they were written",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sess, err := openSession(ctx, nil)
		if err != nil {
			return err
		}
		defer sess.Close()

		idx, err := sess.CachedList(ctx)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		return printResult(w, idx, func() {
			if len(idx) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "No cached resources")
				return
			}
			tw := output.Table(w)
			fmt.Fprintln(tw, "ID\tCACHED AT")
			for _, id := range slices.Sorted(maps.Keys(idx)) {
				fmt.Fprintf(tw, "%s\t%s\n", id, idx[id].Format(time.RFC3339))
			}
			_ = tw.Flush()
		})
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
