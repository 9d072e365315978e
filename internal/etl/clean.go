package etl

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/martbuild/martbuild/internal/logging"
	"github.com/martbuild/martbuild/internal/model"
)

// dateLayouts are the accepted renderings of source date fields, tried in
// order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
}

// parseDate parses a source date field. A value that matches no accepted
// layout is a fatal ingestion error.
func parseDate(field, value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable %s value %q", field, value)
}

// parseNumber coerces a source numeric field. Unlike dates, coercion
// failure is recoverable: the caller drops the row.
func parseNumber(value string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	return v, err == nil
}

func missing(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// CleanCustomers drops customer rows missing id, name, or email and
// parses signup_date. A malformed date aborts the stage. Duplicates pass
// through untouched. Returns the cleaned rows and the dropped count.
func CleanCustomers(raw []model.RawCustomer, now time.Time) ([]model.Customer, int, error) {
	cleaned := make([]model.Customer, 0, len(raw))
	dropped := 0
	for _, r := range raw {
		if missing(r.CustomerID, r.Name, r.Email) {
			dropped++
			continue
		}
		signup, err := parseDate("signup_date", r.SignupDate)
		if err != nil {
			return nil, 0, fmt.Errorf("cleaning customers: %w", err)
		}
		cleaned = append(cleaned, model.Customer{
			CustomerID:  r.CustomerID,
			Name:        r.Name,
			Email:       r.Email,
			City:        r.City,
			State:       r.State,
			Country:     r.Country,
			SignupDate:  signup,
			CreatedDate: now,
			UpdatedDate: now,
			IsActive:    true,
		})
	}
	logging.Info().
		Int("rows", len(cleaned)).
		Int("dropped", dropped).
		Msg("Cleaned customers")
	return cleaned, dropped, nil
}

// CleanProducts coerces price to a number, dropping rows where coercion
// fails, where id, name, or price is missing, or where price <= 0.
func CleanProducts(raw []model.RawProduct, now time.Time) ([]model.Product, int) {
	cleaned := make([]model.Product, 0, len(raw))
	dropped := 0
	for _, r := range raw {
		if missing(r.ProductID, r.Name, r.Price) {
			dropped++
			continue
		}
		price, ok := parseNumber(r.Price)
		if !ok || price <= 0 {
			dropped++
			continue
		}
		cleaned = append(cleaned, model.Product{
			ProductID:   r.ProductID,
			Name:        r.Name,
			Category:    r.Category,
			Price:       price,
			CreatedDate: now,
			UpdatedDate: now,
			IsActive:    true,
		})
	}
	logging.Info().
		Int("rows", len(cleaned)).
		Int("dropped", dropped).
		Msg("Cleaned products")
	return cleaned, dropped
}

// CleanOrders parses order_date (malformed is fatal), coerces quantity
// (failure drops the row), and drops rows missing required fields or with
// quantity <= 0. No cross-table validation happens here: an order whose
// customer or product does not exist is retained.
func CleanOrders(raw []model.RawOrder, now time.Time) ([]model.Order, int, error) {
	cleaned := make([]model.Order, 0, len(raw))
	dropped := 0
	for _, r := range raw {
		if missing(r.OrderID, r.CustomerID, r.ProductID, r.Quantity, r.OrderStatus) {
			dropped++
			continue
		}
		orderDate, err := parseDate("order_date", r.OrderDate)
		if err != nil {
			return nil, 0, fmt.Errorf("cleaning orders: %w", err)
		}
		qty, ok := parseNumber(r.Quantity)
		if !ok || qty <= 0 {
			dropped++
			continue
		}
		cleaned = append(cleaned, model.Order{
			OrderID:     r.OrderID,
			CustomerID:  r.CustomerID,
			ProductID:   r.ProductID,
			Quantity:    qty,
			OrderDate:   orderDate,
			OrderStatus: r.OrderStatus,
			PaymentMode: r.PaymentMode,
			CreatedDate: now,
		})
	}
	logging.Info().
		Int("rows", len(cleaned)).
		Int("dropped", dropped).
		Msg("Cleaned orders")
	return cleaned, dropped, nil
}
