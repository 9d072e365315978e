// Package source implements the raw table loader over CSV files.
package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/martbuild/martbuild/internal/logging"
	"github.com/martbuild/martbuild/internal/model"
)

// CSVLoader reads the three raw input tables from CSV files in a single
// directory: customers.csv, products.csv, orders.csv. Columns are matched
// by header name; a missing file or missing column is a fatal error.
type CSVLoader struct {
	dir string
}

// NewCSVLoader creates a loader rooted at dir.
func NewCSVLoader(dir string) *CSVLoader {
	return &CSVLoader{dir: dir}
}

// Customers loads customers.csv.
func (l *CSVLoader) Customers(ctx context.Context) ([]model.RawCustomer, error) {
	rows, err := l.read("customers.csv",
		"customer_id", "customer_name", "email", "city", "state", "country", "signup_date")
	if err != nil {
		return nil, err
	}
	out := make([]model.RawCustomer, len(rows))
	for i, r := range rows {
		out[i] = model.RawCustomer{
			CustomerID: r[0],
			Name:       r[1],
			Email:      r[2],
			City:       r[3],
			State:      r[4],
			Country:    r[5],
			SignupDate: r[6],
		}
	}
	return out, nil
}

// Products loads products.csv.
func (l *CSVLoader) Products(ctx context.Context) ([]model.RawProduct, error) {
	rows, err := l.read("products.csv",
		"product_id", "product_name", "category", "price")
	if err != nil {
		return nil, err
	}
	out := make([]model.RawProduct, len(rows))
	for i, r := range rows {
		out[i] = model.RawProduct{
			ProductID: r[0],
			Name:      r[1],
			Category:  r[2],
			Price:     r[3],
		}
	}
	return out, nil
}

// Orders loads orders.csv.
func (l *CSVLoader) Orders(ctx context.Context) ([]model.RawOrder, error) {
	rows, err := l.read("orders.csv",
		"order_id", "customer_id", "product_id", "quantity", "order_date", "order_status", "payment_mode")
	if err != nil {
		return nil, err
	}
	out := make([]model.RawOrder, len(rows))
	for i, r := range rows {
		out[i] = model.RawOrder{
			OrderID:     r[0],
			CustomerID:  r[1],
			ProductID:   r[2],
			Quantity:    r[3],
			OrderDate:   r[4],
			OrderStatus: r[5],
			PaymentMode: r[6],
		}
	}
	return out, nil
}

// read parses one CSV file and projects each record onto the requested
// columns, in the requested order.
func (l *CSVLoader) read(name string, columns ...string) ([][]string, error) {
	path := filepath.Join(l.dir, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("missing input table %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("reading %s: missing header row", name)
	}

	header := records[0]
	index := make([]int, len(columns))
	for i, col := range columns {
		index[i] = -1
		for j, h := range header {
			if h == col {
				index[i] = j
				break
			}
		}
		if index[i] == -1 {
			return nil, fmt.Errorf("reading %s: missing column %q", name, col)
		}
	}

	rows := make([][]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make([]string, len(columns))
		for i, j := range index {
			if j < len(record) {
				row[i] = record[j]
			}
		}
		rows = append(rows, row)
	}

	logging.Debug().
		Str("file", path).
		Int("rows", len(rows)).
		Msg("Loaded raw table")
	return rows, nil
}
