package etl

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/martbuild/martbuild/internal/model"
)

// fakeLoader serves in-memory raw tables.
type fakeLoader struct {
	customers []model.RawCustomer
	products  []model.RawProduct
	orders    []model.RawOrder
	err       error
}

func (l *fakeLoader) Customers(ctx context.Context) ([]model.RawCustomer, error) {
	return l.customers, l.err
}

func (l *fakeLoader) Products(ctx context.Context) ([]model.RawProduct, error) {
	return l.products, l.err
}

func (l *fakeLoader) Orders(ctx context.Context) ([]model.RawOrder, error) {
	return l.orders, l.err
}

// memorySink collects written tables in order.
type memorySink struct {
	tables []model.Table
}

func (s *memorySink) WriteTable(ctx context.Context, table model.Table) error {
	s.tables = append(s.tables, table)
	return nil
}

func (s *memorySink) table(name string) (model.Table, bool) {
	for _, t := range s.tables {
		if t.Name == name {
			return t, true
		}
	}
	return model.Table{}, false
}

func testLoader() *fakeLoader {
	return &fakeLoader{
		customers: []model.RawCustomer{
			{CustomerID: "C1", Name: "Ada", Email: "ada@example.com", City: "Albany", State: "NY", Country: "USA", SignupDate: "2021-05-04"},
			{CustomerID: "C2", Name: "Ben", Email: "ben@example.com", City: "Austin", State: "TX", Country: "USA", SignupDate: "2022-01-10"},
			{CustomerID: "", Name: "Nobody", Email: "x@example.com", SignupDate: "2022-01-10"},
		},
		products: []model.RawProduct{
			{ProductID: "P1", Name: "Desk", Category: "Furniture", Price: "249.99"},
			{ProductID: "P2", Name: "Lamp", Category: "Lighting", Price: "39.50"},
			{ProductID: "P3", Name: "Broken", Category: "Misc", Price: "n/a"},
		},
		orders: []model.RawOrder{
			{OrderID: "O1", CustomerID: "C1", ProductID: "P1", Quantity: "2", OrderDate: "2024-03-15", OrderStatus: "Completed", PaymentMode: "UPI"},
			{OrderID: "O2", CustomerID: "C2", ProductID: "P2", Quantity: "1", OrderDate: "2024-03-16", OrderStatus: "Cancelled", PaymentMode: "Cash"},
			{OrderID: "O3", CustomerID: "C1", ProductID: "P3", Quantity: "1", OrderDate: "2024-03-17", OrderStatus: "Completed", PaymentMode: "UPI"},
			{OrderID: "O4", CustomerID: "NOSUCH", ProductID: "P1", Quantity: "1", OrderDate: "2024-03-18", OrderStatus: "Returned", PaymentMode: "Cash"},
		},
	}
}

func TestPipelineRunWritesAllLayers(t *testing.T) {
	sink := &memorySink{}
	p := NewPipeline(testLoader(), sink, Options{
		CalendarStart: date(2024, 1, 1),
		CalendarEnd:   date(2024, 12, 31),
	})

	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	want := []struct {
		name  string
		layer string
	}{
		{"bronze_customers", model.LayerBronze},
		{"bronze_products", model.LayerBronze},
		{"bronze_orders", model.LayerBronze},
		{"silver_customers", model.LayerSilver},
		{"silver_products", model.LayerSilver},
		{"silver_orders", model.LayerSilver},
		{"dim_customer", model.LayerGoldDimensions},
		{"dim_product", model.LayerGoldDimensions},
		{"dim_date", model.LayerGoldDimensions},
		{"fact_sales", model.LayerGoldFacts},
	}
	if len(sink.tables) != len(want) {
		t.Fatalf("Expected %d tables, got %d", len(want), len(sink.tables))
	}
	for i, w := range want {
		if sink.tables[i].Name != w.name || sink.tables[i].Layer != w.layer {
			t.Errorf("Table %d: expected %s in %s, got %s in %s",
				i, w.name, w.layer, sink.tables[i].Name, sink.tables[i].Layer)
		}
	}

	if report.RawCustomers != 3 || report.RawProducts != 3 || report.RawOrders != 4 {
		t.Errorf("Unexpected raw counts: %+v", report)
	}
	if report.DroppedCustomers != 1 || report.DroppedProducts != 1 {
		t.Errorf("Unexpected dropped counts: %+v", report)
	}
	// O3 references the dropped product, O4 a nonexistent customer.
	if report.FactRows != 2 {
		t.Errorf("Expected 2 fact rows, got %d", report.FactRows)
	}
	if report.Fact.UnmatchedCustomers != 1 || report.Fact.UnmatchedProducts != 1 {
		t.Errorf("Unexpected fact stats: %+v", report.Fact)
	}
	if !report.Validation.Clean() {
		t.Errorf("Expected clean validation, got %+v", report.Validation)
	}
}

func TestPipelineReferentialCompleteness(t *testing.T) {
	sink := &memorySink{}
	p := NewPipeline(testLoader(), sink, Options{
		CalendarStart: date(2024, 1, 1),
		CalendarEnd:   date(2024, 12, 31),
	})
	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	dimCustomer, _ := sink.table("dim_customer")
	dimProduct, _ := sink.table("dim_product")
	facts, _ := sink.table("fact_sales")

	customerKeys := make(map[any]bool)
	for _, row := range dimCustomer.Rows {
		customerKeys[row[0]] = true
	}
	productKeys := make(map[any]bool)
	for _, row := range dimProduct.Rows {
		productKeys[row[0]] = true
	}

	for i, row := range facts.Rows {
		if !customerKeys[row[2]] {
			t.Errorf("Fact row %d: customer_key %v not in dim_customer", i, row[2])
		}
		if !productKeys[row[3]] {
			t.Errorf("Fact row %d: product_key %v not in dim_product", i, row[3])
		}
	}
}

func TestPipelineWarnsOnOutOfRangeOrderDate(t *testing.T) {
	loader := testLoader()
	sink := &memorySink{}
	// Calendar range that excludes every order date.
	p := NewPipeline(loader, sink, Options{
		CalendarStart: date(2020, 1, 1),
		CalendarEnd:   date(2020, 12, 31),
	})

	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if report.Validation.InvalidDateKeys != report.FactRows {
		t.Errorf("Expected %d invalid date keys, got %d",
			report.FactRows, report.Validation.InvalidDateKeys)
	}
	// Warn only: the fact table is still persisted in full.
	facts, ok := sink.table("fact_sales")
	if !ok {
		t.Fatal("fact_sales was not written")
	}
	if len(facts.Rows) != report.FactRows {
		t.Errorf("Expected %d persisted fact rows, got %d", report.FactRows, len(facts.Rows))
	}
}

func TestPipelineLoaderFailureIsFatal(t *testing.T) {
	sink := &memorySink{}
	p := NewPipeline(&fakeLoader{err: errors.New("missing input table")}, sink, Options{})

	if _, err := p.Run(context.Background()); err == nil {
		t.Fatal("Expected error, got nil")
	}
	if len(sink.tables) != 0 {
		t.Errorf("No tables should be written after a load failure, got %d", len(sink.tables))
	}
}

func TestPipelineMalformedDateAbortsBeforeGold(t *testing.T) {
	loader := testLoader()
	loader.orders[0].OrderDate = "not-a-date"
	sink := &memorySink{}
	p := NewPipeline(loader, sink, Options{})

	if _, err := p.Run(context.Background()); err == nil {
		t.Fatal("Expected error, got nil")
	}
	for _, table := range sink.tables {
		if table.Layer == model.LayerGoldDimensions || table.Layer == model.LayerGoldFacts {
			t.Errorf("Gold table %s written despite fatal error", table.Name)
		}
	}
	// Bronze persisted before the failure stays written.
	if _, ok := sink.table("bronze_orders"); !ok {
		t.Error("bronze_orders should have been written before the failure")
	}
}

func TestPipelineIdempotent(t *testing.T) {
	run := func() []model.Table {
		sink := &memorySink{}
		p := NewPipeline(testLoader(), sink, Options{
			CalendarStart: date(2024, 1, 1),
			CalendarEnd:   date(2024, 12, 31),
			Now:           func() time.Time { return testNow },
		})
		if _, err := p.Run(context.Background()); err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
		return sink.tables
	}

	a := run()
	b := run()
	if !reflect.DeepEqual(a, b) {
		t.Error("Re-running on unchanged input produced different tables")
	}
}
