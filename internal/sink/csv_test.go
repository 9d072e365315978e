package sink

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/martbuild/martbuild/internal/model"
)

func testTable() model.Table {
	return model.Table{
		Name:  "fact_sales",
		Layer: model.LayerGoldFacts,
		Columns: []model.Column{
			{Name: "order_id", Type: model.TypeString},
			{Name: "customer_key", Type: model.TypeInteger},
			{Name: "quantity", Type: model.TypeNumeric},
			{Name: "order_date", Type: model.TypeDate},
			{Name: "is_active", Type: model.TypeBool},
			{Name: "_ingestion_timestamp", Type: model.TypeTimestamp},
		},
		Rows: [][]any{
			{"O1", 1, 2.5, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true,
				time.Date(2026, 9, 1, 12, 30, 0, 0, time.UTC)},
		},
	}
}

func TestCSVSinkWriteTable(t *testing.T) {
	dir := t.TempDir()
	s := NewCSVSink(dir)

	if err := s.WriteTable(context.Background(), testTable()); err != nil {
		t.Fatalf("WriteTable returned error: %v", err)
	}

	path := filepath.Join(dir, "gold", "facts", "fact_sales.csv")
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Expected output at %s: %v", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected header + 1 row, got %d records", len(records))
	}

	header := records[0]
	if header[0] != "order_id" || header[5] != "_ingestion_timestamp" {
		t.Errorf("Unexpected header: %v", header)
	}

	row := records[1]
	want := []string{"O1", "1", "2.5", "2024-03-15", "true", "2026-09-01T12:30:00Z"}
	for i, w := range want {
		if row[i] != w {
			t.Errorf("Column %d: expected %q, got %q", i, w, row[i])
		}
	}
}

func TestCSVSinkOverwritesExistingFile(t *testing.T) {
	dir := t.TempDir()
	s := NewCSVSink(dir)
	ctx := context.Background()

	table := testTable()
	if err := s.WriteTable(ctx, table); err != nil {
		t.Fatalf("First write failed: %v", err)
	}
	table.Rows = nil
	if err := s.WriteTable(ctx, table); err != nil {
		t.Fatalf("Second write failed: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "gold", "facts", "fact_sales.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("Expected header only after overwrite, got %d records", len(records))
	}
}

func TestFormatValueNumericPrecision(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{249.99, "249.99"},
		{100, "100"},
		{0.1, "0.1"},
	}
	for _, tt := range tests {
		if got := formatValue(model.TypeNumeric, tt.in); got != tt.want {
			t.Errorf("formatValue(%v): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestSQLLiteral(t *testing.T) {
	tests := []struct {
		name string
		ct   model.ColumnType
		v    any
		want string
	}{
		{"string", model.TypeString, "Desk", "'Desk'"},
		{"string with quote", model.TypeString, "Ada's Desk", "'Ada''s Desk'"},
		{"integer", model.TypeInteger, 42, "42"},
		{"numeric", model.TypeNumeric, 39.5, "39.5"},
		{"bool true", model.TypeBool, true, "TRUE"},
		{"bool false", model.TypeBool, false, "FALSE"},
		{"date", model.TypeDate, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), "'2024-03-15'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sqlLiteral(tt.ct, tt.v); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCreateTableSQL(t *testing.T) {
	sql := createTableSQL("gold.dim_product", []model.Column{
		{Name: "product_key", Type: model.TypeInteger},
		{Name: "price", Type: model.TypeNumeric},
		{Name: "is_active", Type: model.TypeBool},
	})
	want := `CREATE TABLE gold.dim_product ("product_key" INTEGER, "price" DOUBLE PRECISION, "is_active" BOOLEAN)`
	if sql != want {
		t.Errorf("Expected:\n%s\ngot:\n%s", want, sql)
	}
}
