package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/steelshape/steelshape/pkg/profiles"
)

func newGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a committed profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := openEnvironment(ctx)
			if err != nil {
				return err
			}
			defer env.Close(context.WithoutCancel(ctx))

			p, err := env.coord.Get(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}
}

func newListCommand() *cobra.Command {
	var family string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List committed profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := openEnvironment(ctx)
			if err != nil {
				return err
			}
			defer env.Close(context.WithoutCancel(ctx))

			ps, err := env.coord.List(ctx, profiles.FamilyName(family))
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), ps)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tFAMILY\tREVISION")
			for _, p := range ps {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", p.ID, p.Name, p.Family(), p.Revision)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&family, "family", "", "only list profiles of this family")
	return cmd
}

func newOutlineCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "outline <id>",
		Short: "Show the outline of a committed profile",
		Long: `Show the bounding range, boundary kind and perimeter count of a
committed profile. Outlines of referencing profiles are recomputed from
their upstream profiles when stale.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := openEnvironment(ctx)
			if err != nil {
				return err
			}
			defer env.Close(context.WithoutCancel(ctx))

			o, err := env.coord.Outline(ctx, args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), o)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "range:    (%g, %g) .. (%g, %g)\n",
				o.Range.Low.X, o.Range.Low.Y, o.Range.High.X, o.Range.High.Y)
			fmt.Fprintf(cmd.OutOrStdout(), "size:     %g x %g\n", o.Range.Width(), o.Range.Depth())
			fmt.Fprintf(cmd.OutOrStdout(), "boundary: %s\n", o.Boundary)
			fmt.Fprintf(cmd.OutOrStdout(), "children: %d\n", o.Children)
			return nil
		},
	}
}

func newGraphCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "graph",
		Short:   "Print the reference graph in DOT format",
		Example: `  shapectl graph --db profiles.db | dot -Tsvg > refs.svg`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := openEnvironment(ctx)
			if err != nil {
				return err
			}
			defer env.Close(context.WithoutCancel(ctx))

			fmt.Fprint(cmd.OutOrStdout(), env.coord.ReferenceDOT())
			return nil
		},
	}
}

func newAuditCommand() *cobra.Command {
	var (
		action string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the commit audit trail, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := openEnvironment(ctx)
			if err != nil {
				return err
			}
			defer env.Close(context.WithoutCancel(ctx))

			var filter *string
			if action != "" {
				filter = &action
			}
			entries, err := env.store.ListAuditEntries(ctx, filter, limit, 0)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), entries)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tACTION\tACTOR\tPROFILE")
			for _, e := range entries {
				target := ""
				if e.TargetID != nil {
					target = *e.TargetID
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Timestamp.Format("2006-01-02T15:04:05Z07:00"), e.Action, e.Actor, target)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&action, "action", "", "only show entries with this action (e.g. profile.deleted)")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum entries (0 for all)")
	return cmd
}

func newFamiliesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "families",
		Short: "List the registered profile families",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			type familyInfo struct {
				Name            string   `json:"name"`
				Kind            string   `json:"kind"`
				SinglePerimeter bool     `json:"single_perimeter"`
				Constraints     []string `json:"constraints"`
			}

			var out []familyInfo
			for _, s := range profiles.Families() {
				info := familyInfo{Name: string(s.Name), Kind: string(s.Kind), SinglePerimeter: s.SinglePerimeter}
				for _, c := range s.New().Constraints() {
					info.Constraints = append(info.Constraints, c.Name)
				}
				out = append(out, info)
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), out)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FAMILY\tKIND\tCONSTRAINTS")
			for _, f := range out {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", f.Name, f.Kind, len(f.Constraints))
			}
			return tw.Flush()
		},
	}
}
