package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/steelshape/steelshape/pkg/config"
	"github.com/steelshape/steelshape/pkg/engine"
)

func newValidateCommand() *cobra.Command {
	var (
		all          bool
		resolve      bool
		watch        bool
		serveMetrics bool
		concurrency  int
	)

	cmd := &cobra.Command{
		Use:   "validate <path>...",
		Short: "Validate profile documents without committing",
		Long: `Validate the profiles of YAML documents or directories of documents.

By default each profile's own definition is checked: parameter values,
the family's constraint table and, for arbitrary families, curve
topology. Nothing is written to the store.

  --all      report every failing constraint instead of the first
  --resolve  also resolve references against the committed profiles
  --watch    re-validate whenever a document changes`,
		Example: `  # Validate a directory of documents
  shapectl validate ./profiles

  # Report all constraint failures as JSON
  shapectl validate --all --json channel.yaml

  # Keep validating while editing
  shapectl validate --watch ./profiles`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := openEnvironment(ctx)
			if err != nil {
				return err
			}
			defer env.Close(context.WithoutCancel(ctx))

			if concurrency <= 0 {
				concurrency = env.cfg.Batch.Concurrency
			}
			loader := config.NewLoader(log.Logger)
			run := func(ctx context.Context, ps []*engine.Profile) error {
				return validateProfiles(ctx, cmd.OutOrStdout(), env.coord, ps, all, resolve, concurrency)
			}

			ps, err := loader.LoadFromPaths(ctx, args)
			if err != nil {
				return err
			}
			err = run(ctx, ps)
			if !watch {
				return err
			}
			if err != nil {
				log.Warn().Err(err).Msg("Validation failed")
			}

			if serveMetrics {
				if err := env.tel.StartMetricsServer(); err != nil {
					return err
				}
				log.Info().Str("addr", env.cfg.Telemetry.Metrics.ListenAddress).Msg("Serving metrics")
			}
			if err := loader.Watch(ctx, args, func(ctx context.Context, ps []*engine.Profile) error {
				if err := run(ctx, ps); err != nil {
					log.Warn().Err(err).Msg("Validation failed")
				}
				return nil
			}); err != nil {
				return err
			}
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "report every constraint failure")
	cmd.Flags().BoolVar(&resolve, "resolve", false, "resolve references against the store")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-validate on document changes")
	cmd.Flags().BoolVar(&serveMetrics, "serve-metrics", false, "expose Prometheus metrics while watching")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "parallel validations (default from config)")

	return cmd
}

func validateProfiles(ctx context.Context, w io.Writer, coord *engine.Coordinator, ps []*engine.Profile,
	all, resolve bool, concurrency int) error {
	if all {
		return diagnoseProfiles(w, ps)
	}
	if resolve {
		results := make([]engine.BatchResult, len(ps))
		for i, p := range ps {
			results[i] = engine.BatchResult{Index: i, ProfileID: p.ID, Family: p.Family(), Err: coord.Validate(ctx, p)}
		}
		return reportResults(w, "failed validation", results)
	}

	results, err := coord.ValidateBatch(ctx, ps, concurrency)
	if err != nil {
		return err
	}
	return reportResults(w, "failed validation", results)
}

// diagnosis is the JSON form of one profile's failures.
type diagnosis struct {
	ID       string        `json:"id"`
	Family   string        `json:"family"`
	Failures []batchReport `json:"failures"`
}

func diagnoseProfiles(w io.Writer, ps []*engine.Profile) error {
	out := make([]diagnosis, 0, len(ps))
	failed := 0
	for _, p := range ps {
		d := diagnosis{ID: p.ID, Family: string(p.Family()), Failures: []batchReport{}}
		for _, e := range engine.Diagnose(p) {
			d.Failures = append(d.Failures, batchReport{
				ID:     p.ID,
				Family: d.Family,
				Class:  string(e.Class),
				Code:   e.Code,
				Error:  e.Error(),
			})
		}
		if len(d.Failures) > 0 {
			failed++
		}
		out = append(out, d)
	}

	if jsonOutput {
		if err := printJSON(w, out); err != nil {
			return err
		}
	} else {
		st := newStatusStyles(w)
		for _, d := range out {
			if len(d.Failures) == 0 {
				fmt.Fprintf(w, "%s    %-24s %s\n", st.ok, d.ID, d.Family)
				continue
			}
			fmt.Fprintf(w, "%s  %-24s %s\n", st.fail, d.ID, d.Family)
			for _, f := range d.Failures {
				fmt.Fprintf(w, "      %s\n", f.Error)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d profiles failed validation", failed, len(ps))
	}
	return nil
}
