package cli

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/martbuild/martbuild/internal/config"
	"github.com/martbuild/martbuild/internal/db"
	"github.com/martbuild/martbuild/internal/etl"
	"github.com/martbuild/martbuild/internal/logging"
	"github.com/martbuild/martbuild/internal/sink"
	"github.com/martbuild/martbuild/internal/source"
)

var (
	runOutputDir  string
	runSink       string
	runConnection string
	runTolerance  float64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the ETL pipeline once",
	Long: `Run the full bronze/silver/gold pipeline once: load the raw tables,
persist ingestion copies, clean them, build the star schema, validate
referential integrity, and persist every layer.

Row-level data-quality problems (uncoercible numbers, non-positive
prices or quantities, unresolved foreign keys) are counted and dropped
or flagged; only a missing input table or an unparsable date field
aborts the run.

Example:
  martbuild run --input-dir data/raw --output-dir data/processed
  martbuild run --sink postgres --connection "postgres://..."`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runOutputDir, "output-dir", "",
		"root directory for bronze/silver/gold output (csv sink)")
	runCmd.Flags().StringVar(&runSink, "sink", "",
		"table sink: csv or postgres")
	runCmd.Flags().StringVar(&runConnection, "connection", "",
		"PostgreSQL connection string (postgres sink)")
	runCmd.Flags().Float64Var(&runTolerance, "tolerance", 0,
		"total_amount validation tolerance (default: 0.01)")
}

func runRun(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if runOutputDir != "" {
		cfg.Output.Dir = runOutputDir
	}
	if runSink != "" {
		cfg.Output.Sink = runSink
	}
	if runConnection != "" {
		cfg.Output.Connection = runConnection
	}
	if runTolerance > 0 {
		cfg.Validation.Tolerance = runTolerance
	}

	// Validate configuration
	if err := cfg.ValidateRun(); err != nil {
		return err
	}

	start, end, err := cfg.CalendarRange()
	if err != nil {
		return err
	}

	logging.Info().
		Str("input_dir", cfg.Input.Dir).
		Str("sink", cfg.Output.Sink).
		Msg("Starting pipeline")

	ctx := context.Background()
	loader := source.NewCSVLoader(cfg.Input.Dir)

	var tableSink etl.Sink
	var pool *pgxpool.Pool
	if cfg.Output.Sink == "postgres" {
		pool, err = db.Connect(ctx, cfg.Output.Connection)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()
		tableSink = sink.NewPostgresSink(pool)
	} else {
		tableSink = sink.NewCSVSink(cfg.Output.Dir)
	}

	pipeline := etl.NewPipeline(loader, tableSink, etl.Options{
		CalendarStart: start,
		CalendarEnd:   end,
		Holidays:      holidaysFromConfig(cfg.Calendar.Holidays),
		Regions:       regionsFromConfig(cfg.Regions),
		Tolerance:     cfg.Validation.Tolerance,
	})

	report, err := pipeline.Run(ctx)
	if err != nil {
		return err
	}

	if pool != nil {
		// On anything but the first run the previous timestamp is still
		// readable here, SaveRunMetadata overwrites it below.
		if last, err := db.GetMetadataValue(ctx, pool, "last_run_at"); err == nil {
			logging.Info().Str("last_run_at", last).Msg("Replacing previous pipeline run")
		}
		if err := db.SaveRunMetadata(ctx, pool, report.FactRows); err != nil {
			logging.Warn().Err(err).Msg("Could not save run metadata")
		}
	}

	printReport(report)
	return nil
}

func holidaysFromConfig(hs []config.HolidayConfig) []etl.Holiday {
	if len(hs) == 0 {
		return nil
	}
	out := make([]etl.Holiday, len(hs))
	for i, h := range hs {
		out[i] = etl.Holiday{Month: h.Month, Day: h.Day, Name: h.Name}
	}
	return out
}

func regionsFromConfig(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	return m
}

// printReport emits the end-of-run summary.
func printReport(r *etl.Report) {
	logging.Info().
		Int("raw_customers", r.RawCustomers).
		Int("raw_products", r.RawProducts).
		Int("raw_orders", r.RawOrders).
		Int("dropped_customers", r.DroppedCustomers).
		Int("dropped_products", r.DroppedProducts).
		Int("dropped_orders", r.DroppedOrders).
		Msg("Cleaning summary")
	logging.Info().
		Int("dim_customer", r.DimCustomerRows).
		Int("dim_product", r.DimProductRows).
		Int("dim_date", r.DimDateRows).
		Int("fact_sales", r.FactRows).
		Int("orders_without_customer", r.Fact.UnmatchedCustomers).
		Int("orders_without_product", r.Fact.UnmatchedProducts).
		Msg("Star schema summary")

	v := r.Validation
	if v.Clean() {
		logging.Info().Msg("Validation passed with no warnings")
		return
	}
	logging.Warn().
		Int("invalid_customer_keys", v.InvalidCustomerKeys).
		Int("invalid_product_keys", v.InvalidProductKeys).
		Int("invalid_date_keys", v.InvalidDateKeys).
		Int("calculation_errors", v.CalculationErrors).
		Msg("Validation finished with warnings")
}
