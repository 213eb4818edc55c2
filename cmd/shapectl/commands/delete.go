package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newDeleteCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a profile that nothing references",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := openEnvironment(ctx)
			if err != nil {
				return err
			}
			defer env.Close(context.WithoutCancel(ctx))

			id := args[0]
			if dryRun {
				ok, err := env.coord.CanDelete(ctx, id)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("profile %s is referenced by %v", id, env.coord.Dependents(id))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "profile %s can be deleted\n", id)
				return nil
			}

			if err := env.coord.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only check whether the profile can be deleted")
	return cmd
}
