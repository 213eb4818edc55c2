package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	dbPath     string
	actor      string
	jsonOutput bool
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "shapectl",
		Short: "steelshape - cross-section profile validation",
		Long: `shapectl validates and commits cross-section profile definitions.

A profile is committed only when its parameters pass the family's
constraint table, arbitrary curves form valid regions, and every
reference resolves to an existing profile of an accepted family.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "profile database (overrides store.path)")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", "", "actor recorded in the audit trail (overrides actor)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newCommitCommand())
	rootCmd.AddCommand(newDeleteCommand())
	rootCmd.AddCommand(newGetCommand())
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newOutlineCommand())
	rootCmd.AddCommand(newGraphCommand())
	rootCmd.AddCommand(newAuditCommand())
	rootCmd.AddCommand(newFamiliesCommand())

	return rootCmd
}
