package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockrr/pkg/cli/internal/output"
	"github.com/getmockd/mockrr/pkg/resource"
)

var getPath string

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Print the resource cached under id",
	Long: `Print the resource cached under id, or fail if there is none.

With --path, a JSONPath expression is evaluated against a JSON resource and
the matches are printed as a JSON array.

Examples:
  mockrr get user-7
  mockrr get users --path '$.users[*].name'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sess, err := openSession(ctx, nil)
		if err != nil {
			return err
		}
		defer sess.Close()

		res, err := sess.Cached(ctx, args[0])
		if err != nil {
			return err
		}
		if res == nil {
			return fmt.Errorf("%s: %w", args[0], ErrNotCached)
		}
		if getPath == "" {
			return printResource(cmd.OutOrStdout(), args[0], res)
		}

		jr, ok := res.(*resource.JSONResource)
		if !ok {
			return fmt.Errorf("%s is %s: %w", args[0], res.ContentType(), ErrNotJSON)
		}
		matches, err := jr.Query(getPath)
		if err != nil {
			return err
		}
		if matches == nil {
			matches = []any{}
		}
		return output.JSON(cmd.OutOrStdout(), matches)
	},
}

func init() {
	getCmd.Flags().StringVarP(&getPath, "path", "p", "", "JSONPath expression to evaluate")
	rootCmd.AddCommand(getCmd)
}
