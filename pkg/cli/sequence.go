package cli

import (
	"github.com/spf13/cobra"
)

var sequenceInput inputOptions

var sequenceCmd = &cobra.Command{
	Use:   "sequence <id> <sequence> <input>...",
	Short: "Cache the next input of a rotating sequence under id",
	Long: `Return the resource cached under id. On a miss the input at the cursor of the
named sequence is generated and cached, and the cursor moves on, wrapping
around after the last input. Hits leave the cursor alone.

Examples:
  mockrr sequence req-1 demo First Second Third   # First
  mockrr sequence req-2 demo First Second Third   # Second
  mockrr sequence req-1 demo First Second Third   # First again, cached`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, seq := args[0], args[1]

		sess, err := openSession(ctx, nil)
		if err != nil {
			return err
		}
		defer sess.Close()

		inputs := make([]any, 0, len(args)-2)
		for _, arg := range args[2:] {
			in, err := sequenceInput.input(cmd, arg)
			if err != nil {
				return err
			}
			s, err := sequenceInput.seed(id, in)
			if err != nil {
				return err
			}
			inputs = append(inputs, lazyInput(sess.Registry(), s))
		}

		res, err := sess.Sequence(ctx, id, seq, inputs)
		if err != nil {
			return err
		}
		return printResource(cmd.OutOrStdout(), id, res)
	},
}

func init() {
	sequenceInput.register(sequenceCmd)
	rootCmd.AddCommand(sequenceCmd)
}
