package cli

import (
	"github.com/spf13/cobra"
)

var generateInput inputOptions

var generateCmd = &cobra.Command{
	Use:   "generate <input>",
	Short: "Build a resource and print it without caching it",
	Long: `Build a resource from data, a file, text or an expression and print its body.

Examples:
  mockrr generate '{"id": 1, "name": "ann"}'
  mockrr generate fixtures/users.json
  mockrr generate --as expr '{"token": uuid(), "roll": randInt(1, 6)}'
  mockrr generate --type application/xml '{"user": {"id": 1}}'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := generateInput.input(cmd, args[0])
		if err != nil {
			return err
		}
		s, err := generateInput.seed("", in)
		if err != nil {
			return err
		}
		reg, err := cfg.Registry()
		if err != nil {
			return err
		}
		res, err := buildSeed(reg, s)
		if err != nil {
			return err
		}
		return printResource(cmd.OutOrStdout(), "", res)
	},
}

func init() {
	generateInput.register(generateCmd)
	rootCmd.AddCommand(generateCmd)
}
