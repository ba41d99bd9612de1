package cli

import (
	"github.com/spf13/cobra"

	"github.com/getmockd/mockrr/pkg/resource"
)

var (
	updateInput   inputOptions
	updateReplace bool
)

var updateCmd = &cobra.Command{
	Use:   "update <id> <data>",
	Short: "Merge data into the resource cached under id",
	Long: `Merge data into the cached resource and cache the result. Objects merge key by
key and lists index by index, recursively. Text and scalars replace scalar
payloads; use --replace to substitute any payload. On a miss the resource is
generated from data.

Examples:
  mockrr update user-7 '{"name": "bob"}'
  mockrr update counter --replace 42
  mockrr update user-7 --as expr '{"seen": len(vars.cached)}'`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		data, err := updateInput.input(cmd, args[1])
		if err != nil {
			return err
		}
		if updateReplace {
			data = resource.Substitution{Value: data}
		}

		sess, err := openSession(ctx, nil)
		if err != nil {
			return err
		}
		defer sess.Close()

		res, err := sess.Update(ctx, args[0], data)
		if err != nil {
			return err
		}
		return printResource(cmd.OutOrStdout(), args[0], res)
	},
}

func init() {
	f := updateCmd.Flags()
	f.StringVar(&updateInput.as, "as", asAuto, "How to read data: auto, file, text, json, expr")
	f.BoolVar(&updateReplace, "replace", false, "Substitute the payload instead of merging")
	rootCmd.AddCommand(updateCmd)
}
