// Package etl implements the bronze/silver/gold transformation pipeline:
// cleaning, calendar generation, dimension and fact construction, and
// post-build referential integrity validation.
package etl

import (
	"context"
	"fmt"
	"time"

	"github.com/martbuild/martbuild/internal/logging"
	"github.com/martbuild/martbuild/internal/model"
)

// Loader yields the raw input tables. Source encoding is the loader's
// concern; the pipeline only sees typed records.
type Loader interface {
	Customers(ctx context.Context) ([]model.RawCustomer, error)
	Products(ctx context.Context) ([]model.RawProduct, error)
	Orders(ctx context.Context) ([]model.RawOrder, error)
}

// Sink persists one materialized table. The pipeline does not care about
// the storage format beyond it being loss-less for the column types.
type Sink interface {
	WriteTable(ctx context.Context, table model.Table) error
}

// Options configures a pipeline run.
type Options struct {
	CalendarStart time.Time
	CalendarEnd   time.Time
	Holidays      []Holiday
	Regions       map[string]string
	Tolerance     float64

	// Now overrides the clock, used for reproducible audit timestamps in
	// tests. Defaults to time.Now.
	Now func() time.Time
}

// Report summarizes one pipeline run: rows seen, rows dropped and why,
// output table sizes, and the integrity warnings.
type Report struct {
	RawCustomers int
	RawProducts  int
	RawOrders    int

	DroppedCustomers int
	DroppedProducts  int
	DroppedOrders    int

	DimCustomerRows int
	DimProductRows  int
	DimDateRows     int
	FactRows        int

	Fact       FactStats
	Validation ValidationReport
}

// Pipeline runs the full bronze/silver/gold transformation once. Stages
// are pure functions composed here; each stage's output is handed to the
// next with no shared mutable state.
type Pipeline struct {
	loader Loader
	sink   Sink
	opts   Options
}

// NewPipeline creates a pipeline. Zero-valued options fall back to the
// built-in calendar range, holiday table, region lookup, and tolerance.
func NewPipeline(loader Loader, sink Sink, opts Options) *Pipeline {
	if opts.CalendarStart.IsZero() {
		opts.CalendarStart = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	if opts.CalendarEnd.IsZero() {
		opts.CalendarEnd = time.Date(2030, 12, 31, 0, 0, 0, 0, time.UTC)
	}
	if opts.Holidays == nil {
		opts.Holidays = DefaultHolidays()
	}
	if opts.Regions == nil {
		opts.Regions = DefaultRegions()
	}
	if opts.Tolerance == 0 {
		opts.Tolerance = DefaultTolerance
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Pipeline{loader: loader, sink: sink, opts: opts}
}

// Run executes the pipeline once. Any returned error is fatal and means
// no gold table was written; bronze and silver tables persisted before
// the failure are left in place.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	logging.Info().Msg("Starting pipeline run")
	now := p.opts.Now()
	report := &Report{}

	// Bronze: raw copies with ingestion provenance.
	rawCustomers, err := p.loader.Customers(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading customers: %w", err)
	}
	rawProducts, err := p.loader.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading products: %w", err)
	}
	rawOrders, err := p.loader.Orders(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading orders: %w", err)
	}
	report.RawCustomers = len(rawCustomers)
	report.RawProducts = len(rawProducts)
	report.RawOrders = len(rawOrders)
	logging.Info().
		Int("customers", report.RawCustomers).
		Int("products", report.RawProducts).
		Int("orders", report.RawOrders).
		Msg("Loaded raw tables")

	bronze := []model.Table{
		model.BronzeCustomers(rawCustomers, "customers", now),
		model.BronzeProducts(rawProducts, "products", now),
		model.BronzeOrders(rawOrders, "orders", now),
	}
	for _, t := range bronze {
		if err := p.sink.WriteTable(ctx, t); err != nil {
			return nil, fmt.Errorf("writing %s: %w", t.Name, err)
		}
	}

	// Silver: cleaned and coerced copies.
	customers, droppedCustomers, err := CleanCustomers(rawCustomers, now)
	if err != nil {
		return nil, err
	}
	products, droppedProducts := CleanProducts(rawProducts, now)
	orders, droppedOrders, err := CleanOrders(rawOrders, now)
	if err != nil {
		return nil, err
	}
	report.DroppedCustomers = droppedCustomers
	report.DroppedProducts = droppedProducts
	report.DroppedOrders = droppedOrders

	silver := []model.Table{
		model.SilverCustomers(customers),
		model.SilverProducts(products),
		model.SilverOrders(orders),
	}
	for _, t := range silver {
		if err := p.sink.WriteTable(ctx, t); err != nil {
			return nil, fmt.Errorf("writing %s: %w", t.Name, err)
		}
	}

	// Gold: star schema.
	dimDates := BuildDimDate(p.opts.CalendarStart, p.opts.CalendarEnd, p.opts.Holidays, now)
	dimCustomers := BuildDimCustomers(customers, p.opts.Regions, now)
	dimProducts := BuildDimProducts(products, now)
	facts, factStats := BuildFactSales(orders, dimCustomers, dimProducts, now)
	report.DimDateRows = len(dimDates)
	report.DimCustomerRows = len(dimCustomers)
	report.DimProductRows = len(dimProducts)
	report.FactRows = len(facts)
	report.Fact = factStats

	// Diagnostic pass only: a non-zero count never stops the writes.
	report.Validation = ValidateIntegrity(facts, dimCustomers, dimProducts, dimDates, p.opts.Tolerance)

	gold := []model.Table{
		model.DimCustomerTable(dimCustomers),
		model.DimProductTable(dimProducts),
		model.DimDateTable(dimDates),
		model.FactSalesTable(facts),
	}
	for _, t := range gold {
		if err := p.sink.WriteTable(ctx, t); err != nil {
			return nil, fmt.Errorf("writing %s: %w", t.Name, err)
		}
	}

	logging.Info().
		Int("dim_customer", report.DimCustomerRows).
		Int("dim_product", report.DimProductRows).
		Int("dim_date", report.DimDateRows).
		Int("fact_sales", report.FactRows).
		Msg("Pipeline run complete")
	return report, nil
}
