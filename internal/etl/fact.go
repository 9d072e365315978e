package etl

import (
	"time"

	"github.com/martbuild/martbuild/internal/logging"
	"github.com/martbuild/martbuild/internal/model"
)

// FactStats reports row-level foreign key resolution failures during the
// fact build. The offending rows are dropped, not written.
type FactStats struct {
	UnmatchedCustomers int
	UnmatchedProducts  int
}

// BuildFactSales resolves each cleaned order against the customer and
// product dimensions and computes the sale measures. Orders whose
// customer_id or product_id matches no dimension row are dropped and
// counted. unit_price always comes from the product dimension; any price
// carried on the order itself is discarded. order_date_key is derived but
// not checked against dim_date here, that mismatch is only reported by the
// integrity validator.
func BuildFactSales(orders []model.Order, customers []model.DimCustomer, products []model.DimProduct, now time.Time) ([]model.FactSale, FactStats) {
	// Natural id to surrogate key maps. First occurrence wins when a
	// natural id appears twice, matching the keep-first dedup applied to
	// the customer join.
	customerKeys := make(map[string]int, len(customers))
	for _, c := range customers {
		if _, ok := customerKeys[c.CustomerID]; !ok {
			customerKeys[c.CustomerID] = c.CustomerKey
		}
	}
	type productRef struct {
		key   int
		price float64
	}
	productRefs := make(map[string]productRef, len(products))
	for _, p := range products {
		if _, ok := productRefs[p.ProductID]; !ok {
			productRefs[p.ProductID] = productRef{key: p.ProductKey, price: p.Price}
		}
	}

	var stats FactStats
	facts := make([]model.FactSale, 0, len(orders))
	var completedRevenue float64
	var cancelled, returned int

	for _, o := range orders {
		// Both lookups run even when the first misses so a row dangling on
		// both sides shows up in both warning counts.
		customerKey, customerOK := customerKeys[o.CustomerID]
		ref, productOK := productRefs[o.ProductID]
		if !customerOK {
			stats.UnmatchedCustomers++
		}
		if !productOK {
			stats.UnmatchedProducts++
		}
		if !customerOK || !productOK {
			continue
		}

		f := model.FactSale{
			OrderID:      o.OrderID,
			OrderDateKey: model.DateKey(o.OrderDate),
			CustomerKey:  customerKey,
			ProductKey:   ref.key,
			Quantity:     o.Quantity,
			UnitPrice:    ref.price,
			TotalAmount:  o.Quantity * ref.price,
			OrderStatus:  o.OrderStatus,
			PaymentMode:  o.PaymentMode,
			CreatedDate:  now,
		}
		facts = append(facts, f)

		switch f.OrderStatus {
		case "Completed":
			completedRevenue += f.TotalAmount
		case "Cancelled":
			cancelled++
		case "Returned":
			returned++
		}
	}

	if stats.UnmatchedCustomers > 0 {
		logging.Warn().
			Int("count", stats.UnmatchedCustomers).
			Msg("Orders with no matching customer dropped from fact_sales")
	}
	if stats.UnmatchedProducts > 0 {
		logging.Warn().
			Int("count", stats.UnmatchedProducts).
			Msg("Orders with no matching product dropped from fact_sales")
	}
	logging.Info().
		Int("rows", len(facts)).
		Float64("completed_revenue", completedRevenue).
		Int("cancelled", cancelled).
		Int("returned", returned).
		Msg("Built fact_sales")

	return facts, stats
}
