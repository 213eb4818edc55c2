package commands

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/steelshape/steelshape/pkg/config"
)

func newCommitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commit <path>...",
		Short: "Commit profile documents to the store",
		Long: `Commit the profiles of YAML documents to the store.

New profiles are inserted and existing ones updated. Profiles referenced
from within the documents are committed first. Every profile is
attempted; the command fails if any was rejected.`,
		Example: `  # Commit a catalog into a database file
  shapectl commit --db profiles.db ./catalog`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			env, err := openEnvironment(ctx)
			if err != nil {
				return err
			}
			defer env.Close(context.WithoutCancel(ctx))

			op := env.operation(ctx, "commit")
			defer func() { op.End(err) }()

			ps, err := config.NewLoader(log.Logger).LoadFromPaths(op.Ctx, args)
			if err != nil {
				return err
			}
			results, err := env.coord.Apply(op.Ctx, ps)
			if err != nil {
				return err
			}
			op.Logger.Debugf("Applied %d profiles in %s", len(results), op.Timer.Duration())
			return reportResults(cmd.OutOrStdout(), "rejected", results)
		},
	}
	return cmd
}
