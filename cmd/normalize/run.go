package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/cohort/internal/config"
	"github.com/JonMunkholm/cohort/internal/extract"
	"github.com/JonMunkholm/cohort/internal/load"
	"github.com/JonMunkholm/cohort/internal/logging"
	"github.com/JonMunkholm/cohort/internal/pipeline"
	"github.com/JonMunkholm/cohort/internal/schema"
)

type runOptions struct {
	inputDir      string
	planFile      string
	load          bool
	failOnOrphans bool
}

func newRunCmd(cfg *config.Config) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Read the input tables, resolve relationships and optionally load them",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("input") {
				cfg.Pipeline.InputDir = opts.inputDir
			}
			if flags.Changed("plan") {
				cfg.Pipeline.PlanFile = opts.planFile
			}
			if flags.Changed("load") {
				cfg.Load.Enabled = opts.load
			}
			if flags.Changed("fail-on-orphans") {
				cfg.Pipeline.FailOnOrphans = opts.failOnOrphans
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runNormalize(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.inputDir, "input", "", "Directory holding one <table>.csv per input (default: PIPELINE_INPUT_DIR)")
	cmd.Flags().StringVar(&opts.planFile, "plan", "", "YAML plan replacing the built-in one (default: PIPELINE_PLAN_FILE)")
	cmd.Flags().BoolVar(&opts.load, "load", false, "Load the normalized tables into Postgres (default: LOAD_ENABLED)")
	cmd.Flags().BoolVar(&opts.failOnOrphans, "fail-on-orphans", false, "Fail when a foreign key finds no match (default: PIPELINE_FAIL_ON_ORPHANS)")

	return cmd
}

func runNormalize(ctx context.Context, cfg *config.Config, out io.Writer) error {
	ctx = logging.WithRunID(ctx, uuid.NewString())
	logger := logging.FromContext(ctx)
	logger.Info("configuration loaded", "config", cfg.String())

	plan, err := resolvePlan(cfg.Pipeline.PlanFile)
	if err != nil {
		return err
	}

	catalog := schema.Default()
	inputs, err := extract.ReadDir(ctx, cfg.Pipeline.InputDir, catalog)
	if err != nil {
		return err
	}

	result, err := pipeline.NewRunner(plan, pipeline.Options{
		FailOnOrphans: cfg.Pipeline.FailOnOrphans,
	}).Run(ctx, inputs)
	if err != nil {
		return err
	}
	writeReport(out, result)

	if !cfg.Load.Enabled {
		logger.Info("load disabled, skipping database")
		return nil
	}

	pool, err := connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	summary, err := load.New(pool, load.Options{
		DropExisting: cfg.Load.DropExisting,
		UseCopy:      cfg.Load.UseCopy,
		BatchSize:    cfg.Load.BatchSize,
		Timeout:      cfg.Load.Timeout,
	}).Load(ctx, catalog, result.Tables)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nloaded %d rows into %d tables with %d foreign keys\n",
		summary.Rows, len(summary.Tables), summary.ForeignKeys)
	return nil
}

func resolvePlan(path string) (*pipeline.Plan, error) {
	if path == "" {
		return pipeline.DefaultPlan(), nil
	}
	return pipeline.LoadPlan(path)
}

func connect(ctx context.Context, db config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(db.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(db.MaxConns)
	poolConfig.MinConns = int32(db.MinConns)
	poolConfig.MaxConnLifetime = db.MaxConnLifetime
	poolConfig.MaxConnIdleTime = db.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

func writeReport(out io.Writer, result *pipeline.Result) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tKIND\tROWS\tORPHANS\tDROPPED")
	for _, s := range result.Steps {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n", s.Step, s.Kind, s.Rows, s.Orphans, s.Dropped)
	}
	w.Flush()
}
