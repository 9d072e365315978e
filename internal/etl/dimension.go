package etl

import (
	"time"

	"github.com/martbuild/martbuild/internal/logging"
	"github.com/martbuild/martbuild/internal/model"
)

// DefaultRegions returns the built-in US state to sales region lookup.
func DefaultRegions() map[string]string {
	return map[string]string{
		"NY": "Northeast", "PA": "Northeast", "MA": "Northeast",
		"CT": "Northeast", "VT": "Northeast", "MD": "Northeast",
		"DC": "Northeast",
		"FL": "Southeast", "GA": "Southeast", "NC": "Southeast",
		"SC": "Southeast", "VA": "Southeast", "KY": "Southeast",
		"TN": "Southeast",
		"OH": "Midwest", "IL": "Midwest", "MI": "Midwest",
		"IN": "Midwest", "WI": "Midwest", "MO": "Midwest",
		"TX": "Southwest", "AZ": "Southwest", "NM": "Southwest",
		"OK": "Southwest", "LA": "Southwest",
		"CA": "West", "WA": "West", "OR": "West",
		"CO": "West", "NV": "West",
	}
}

// UnknownRegion is assigned when a customer's state has no region mapping.
const UnknownRegion = "Unknown"

// BuildDimCustomers assigns surrogate keys by row position (1-based, in
// cleaning order) and derives region from state. Keys are only meaningful
// within a single run. is_active is always true: the model overwrites
// rather than versioning, so nothing ever deactivates a row.
func BuildDimCustomers(customers []model.Customer, regions map[string]string, now time.Time) []model.DimCustomer {
	rows := make([]model.DimCustomer, 0, len(customers))
	for i, c := range customers {
		region, ok := regions[c.State]
		if !ok {
			region = UnknownRegion
		}
		rows = append(rows, model.DimCustomer{
			CustomerKey: i + 1,
			CustomerID:  c.CustomerID,
			Name:        c.Name,
			Email:       c.Email,
			City:        c.City,
			State:       c.State,
			Country:     c.Country,
			Region:      region,
			SignupDate:  c.SignupDate,
			IsActive:    true,
			CreatedDate: c.CreatedDate,
			UpdatedDate: now,
		})
	}
	logging.Info().Int("rows", len(rows)).Msg("Built dim_customer")
	return rows
}

// BuildDimProducts assigns surrogate keys by row position.
func BuildDimProducts(products []model.Product, now time.Time) []model.DimProduct {
	rows := make([]model.DimProduct, 0, len(products))
	for i, p := range products {
		rows = append(rows, model.DimProduct{
			ProductKey:  i + 1,
			ProductID:   p.ProductID,
			Name:        p.Name,
			Category:    p.Category,
			Price:       p.Price,
			IsActive:    true,
			CreatedDate: p.CreatedDate,
			UpdatedDate: now,
		})
	}
	logging.Info().Int("rows", len(rows)).Msg("Built dim_product")
	return rows
}
