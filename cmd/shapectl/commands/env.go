package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/steelshape/steelshape/pkg/config"
	"github.com/steelshape/steelshape/pkg/engine"
	"github.com/steelshape/steelshape/pkg/stores"
	"github.com/steelshape/steelshape/pkg/telemetry"
)

// environment is the store, telemetry and coordinator of one invocation.
type environment struct {
	cfg   *config.Config
	tel   *telemetry.Telemetry
	store *stores.SQLiteStore
	coord *engine.Coordinator
}

func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if dbPath != "" {
		cfg.Store.Path = dbPath
	}
	if actor != "" {
		cfg.Actor = actor
	}
	return cfg, cfg.Validate()
}

func openEnvironment(ctx context.Context) (*environment, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	tel, err := telemetry.NewTelemetry(&cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	store, err := stores.OpenSQLiteStore(ctx, cfg.StoreOptions())
	if err != nil {
		_ = tel.Shutdown(ctx)
		return nil, err
	}

	coord, err := engine.NewCoordinator(ctx, store, engine.WithTelemetry(tel), engine.WithActor(cfg.Actor))
	if err != nil {
		_ = store.Close()
		_ = tel.Shutdown(ctx)
		return nil, err
	}

	log.Debug().Str("store", cfg.Store.Path).Str("actor", cfg.Actor).Msg("Environment opened")
	return &environment{cfg: cfg, tel: tel, store: store, coord: coord}, nil
}

// operation starts an instrumented CLI operation carrying the
// environment's telemetry.
func (e *environment) operation(ctx context.Context, name string) *telemetry.InstrumentedContext {
	return telemetry.StartOperation(e.tel.WithContext(ctx), "shapectl."+name)
}

func (e *environment) Close(ctx context.Context) {
	if err := e.store.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close store")
	}
	if err := e.tel.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to shut down telemetry")
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// batchReport is the JSON form of one validation or commit result.
type batchReport struct {
	ID     string `json:"id"`
	Family string `json:"family"`
	Valid  bool   `json:"valid"`
	Class  string `json:"class,omitempty"`
	Code   string `json:"code,omitempty"`
	Error  string `json:"error,omitempty"`
}

// reportResults prints results and returns an error when any failed.
func reportResults(w io.Writer, verb string, results []engine.BatchResult) error {
	reports := make([]batchReport, len(results))
	failed := 0
	for i, r := range results {
		reports[i] = batchReport{ID: r.ProfileID, Family: string(r.Family), Valid: r.Valid()}
		if r.Err != nil {
			failed++
			reports[i].Class = string(engine.ClassOf(r.Err))
			reports[i].Code = engine.CodeOf(r.Err)
			reports[i].Error = r.Err.Error()
		}
	}

	if jsonOutput {
		if err := printJSON(w, reports); err != nil {
			return err
		}
	} else {
		st := newStatusStyles(w)
		for _, r := range reports {
			if r.Valid {
				fmt.Fprintf(w, "%s    %-24s %s\n", st.ok, r.ID, r.Family)
			} else {
				fmt.Fprintf(w, "%s  %-24s %s: %s\n", st.fail, r.ID, r.Family, r.Error)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d profiles %s", failed, len(results), verb)
	}
	return nil
}

// statusStyles holds the rendered status words. Colors are only emitted
// when w is a terminal.
type statusStyles struct {
	ok   string
	fail string
}

func newStatusStyles(w io.Writer) statusStyles {
	r := lipgloss.NewRenderer(w)
	return statusStyles{
		ok:   r.NewStyle().Foreground(lipgloss.Color("2")).Render("ok"),
		fail: r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true).Render("FAIL"),
	}
}
