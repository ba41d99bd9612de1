package cli

import (
	"github.com/spf13/cobra"
)

var onceInput inputOptions

var onceCmd = &cobra.Command{
	Use:   "once <id> <input>",
	Short: "Print the resource cached under id, generating it on the first call",
	Long: `Return the resource cached under id. On a miss the resource is built from
input and cached; later calls print the cached resource and ignore input.

Examples:
  mockrr once user-7 '{"id": 7, "name": "ann"}'
  mockrr once token --as expr '{"token": uuid()}'`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		in, err := onceInput.input(cmd, args[1])
		if err != nil {
			return err
		}
		s, err := onceInput.seed(args[0], in)
		if err != nil {
			return err
		}

		sess, err := openSession(ctx, nil)
		if err != nil {
			return err
		}
		defer sess.Close()

		res, err := sess.Once(ctx, args[0], lazyInput(sess.Registry(), s))
		if err != nil {
			return err
		}
		return printResource(cmd.OutOrStdout(), args[0], res)
	},
}

func init() {
	onceInput.register(onceCmd)
	rootCmd.AddCommand(onceCmd)
}
