package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Cache the resources declared in the config file",
	Long: `Cache every resource listed under resources: in the config file. Ids that
are already cached keep their resource.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sess, err := openSession(ctx, nil)
		if err != nil {
			return err
		}
		defer sess.Close()

		ids, err := seedAll(ctx, sess)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), map[string]any{"seeded": ids}, func() {
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Seeded %d resources\n", len(ids))
		})
	},
}

// seedAll caches every configured resource with Once.
func seedAll(ctx context.Context, sess *session) ([]string, error) {
	seeds, err := cfg.Seeds()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(seeds))
	for _, s := range seeds {
		if _, err := sess.Once(ctx, s.ID, lazyInput(sess.Registry(), s)); err != nil {
			return ids, fmt.Errorf("seed %s: %w", s.ID, err)
		}
		ids = append(ids, s.ID)
	}
	logger.Info("resources seeded", "count", len(ids))
	return ids, nil
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
