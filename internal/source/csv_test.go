package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

func TestCSVLoaderCustomers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "customers.csv",
		"customer_id,customer_name,email,city,state,country,signup_date\n"+
			"C1,Ada,ada@example.com,Albany,NY,USA,2021-05-04\n"+
			"C2,Ben,,Austin,TX,USA,2022-01-10\n")

	loader := NewCSVLoader(dir)
	rows, err := loader.Customers(context.Background())
	if err != nil {
		t.Fatalf("Customers returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0].CustomerID != "C1" || rows[0].Name != "Ada" || rows[0].State != "NY" {
		t.Errorf("Unexpected first row: %+v", rows[0])
	}
	if rows[1].Email != "" {
		t.Errorf("Expected empty email, got %q", rows[1].Email)
	}
}

func TestCSVLoaderColumnsMatchedByHeaderName(t *testing.T) {
	// Column order in the file should not matter.
	dir := t.TempDir()
	writeFile(t, dir, "products.csv",
		"price,category,product_id,product_name\n"+
			"249.99,Furniture,P1,Desk\n")

	loader := NewCSVLoader(dir)
	rows, err := loader.Products(context.Background())
	if err != nil {
		t.Fatalf("Products returned error: %v", err)
	}
	if rows[0].ProductID != "P1" || rows[0].Price != "249.99" || rows[0].Name != "Desk" {
		t.Errorf("Columns not matched by header: %+v", rows[0])
	}
}

func TestCSVLoaderMissingFile(t *testing.T) {
	loader := NewCSVLoader(t.TempDir())
	if _, err := loader.Orders(context.Background()); err == nil {
		t.Fatal("Expected error for missing orders.csv, got nil")
	}
}

func TestCSVLoaderMissingColumn(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "orders.csv",
		"order_id,customer_id,product_id,quantity,order_date,order_status\n"+
			"O1,C1,P1,2,2024-03-15,Completed\n")

	loader := NewCSVLoader(dir)
	if _, err := loader.Orders(context.Background()); err == nil {
		t.Fatal("Expected error for missing payment_mode column, got nil")
	}
}

func TestCSVLoaderMissingHeader(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "customers.csv", "")

	loader := NewCSVLoader(dir)
	if _, err := loader.Customers(context.Background()); err == nil {
		t.Fatal("Expected error for empty file, got nil")
	}
}

func TestCSVLoaderShortRecords(t *testing.T) {
	// Rows shorter than the header yield empty strings, not errors; the
	// cleaning stage decides what to do with missing values.
	dir := t.TempDir()
	writeFile(t, dir, "orders.csv",
		"order_id,customer_id,product_id,quantity,order_date,order_status,payment_mode\n"+
			"O1,C1,P1\n")

	loader := NewCSVLoader(dir)
	rows, err := loader.Orders(context.Background())
	if err != nil {
		t.Fatalf("Orders returned error: %v", err)
	}
	if rows[0].OrderID != "O1" || rows[0].Quantity != "" || rows[0].PaymentMode != "" {
		t.Errorf("Unexpected row: %+v", rows[0])
	}
}
