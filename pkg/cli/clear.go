package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cache entry, sequence cursors and versions included",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sess, err := openSession(ctx, nil)
		if err != nil {
			return err
		}
		defer sess.Close()

		if err := sess.Clear(ctx); err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), map[string]any{"cleared": true}, func() {
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
		})
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
