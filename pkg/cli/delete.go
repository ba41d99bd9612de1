package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>...",
	Aliases: []string{"rm"},
	Short:   "Remove cached resources",
	Long: `Remove the resources cached under the given ids. Missing ids are not an
error. Version snapshots are kept.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sess, err := openSession(ctx, nil)
		if err != nil {
			return err
		}
		defer sess.Close()

		for _, id := range args {
			if err := sess.Forget(ctx, id); err != nil {
				return err
			}
		}
		return printResult(cmd.OutOrStdout(), map[string]any{"deleted": args}, func() {
			for _, id := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
