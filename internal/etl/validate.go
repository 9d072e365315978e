package etl

import (
	"math"

	"github.com/martbuild/martbuild/internal/logging"
	"github.com/martbuild/martbuild/internal/model"
)

// DefaultTolerance is the allowed absolute difference between a fact's
// total_amount and quantity * unit_price.
const DefaultTolerance = 0.01

// ValidationReport holds the counts produced by the integrity check. A
// non-zero count is a warning, not an error: the decision to act on it
// belongs to the caller.
type ValidationReport struct {
	InvalidCustomerKeys int
	InvalidProductKeys  int
	InvalidDateKeys     int
	CalculationErrors   int
}

// Clean reports whether every check passed.
func (r ValidationReport) Clean() bool {
	return r.InvalidCustomerKeys == 0 &&
		r.InvalidProductKeys == 0 &&
		r.InvalidDateKeys == 0 &&
		r.CalculationErrors == 0
}

// ValidateIntegrity is a read-only pass over the finished fact table. It
// counts fact rows referencing absent dimension rows and rows whose
// total_amount drifts from quantity * unit_price beyond the tolerance.
func ValidateIntegrity(facts []model.FactSale, customers []model.DimCustomer, products []model.DimProduct, dates []model.DimDate, tolerance float64) ValidationReport {
	customerKeys := make(map[int]bool, len(customers))
	for _, c := range customers {
		customerKeys[c.CustomerKey] = true
	}
	productKeys := make(map[int]bool, len(products))
	for _, p := range products {
		productKeys[p.ProductKey] = true
	}
	dateKeys := make(map[int]bool, len(dates))
	for _, d := range dates {
		dateKeys[d.DateKey] = true
	}

	var report ValidationReport
	for _, f := range facts {
		if !customerKeys[f.CustomerKey] {
			report.InvalidCustomerKeys++
		}
		if !productKeys[f.ProductKey] {
			report.InvalidProductKeys++
		}
		if !dateKeys[f.OrderDateKey] {
			report.InvalidDateKeys++
		}
		if math.Abs(f.TotalAmount-f.Quantity*f.UnitPrice) > tolerance {
			report.CalculationErrors++
		}
	}

	if report.InvalidCustomerKeys > 0 {
		logging.Warn().
			Int("count", report.InvalidCustomerKeys).
			Msg("Fact rows with invalid customer_key")
	}
	if report.InvalidProductKeys > 0 {
		logging.Warn().
			Int("count", report.InvalidProductKeys).
			Msg("Fact rows with invalid product_key")
	}
	if report.InvalidDateKeys > 0 {
		logging.Warn().
			Int("count", report.InvalidDateKeys).
			Msg("Fact rows with invalid order_date_key")
	}
	if report.CalculationErrors > 0 {
		logging.Warn().
			Int("count", report.CalculationErrors).
			Msg("Fact rows with total_amount calculation errors")
	}
	if report.Clean() {
		logging.Info().Msg("Referential integrity checks passed")
	}

	return report
}
