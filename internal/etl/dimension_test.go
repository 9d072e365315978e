package etl

import (
	"testing"
	"time"

	"github.com/martbuild/martbuild/internal/model"
)

func testCustomers(states ...string) []model.Customer {
	signup := time.Date(2021, 5, 4, 0, 0, 0, 0, time.UTC)
	out := make([]model.Customer, len(states))
	for i, s := range states {
		out[i] = model.Customer{
			CustomerID: "C" + string(rune('1'+i)),
			Name:       "Customer",
			Email:      "c@example.com",
			State:      s,
			SignupDate: signup,
		}
	}
	return out
}

func TestBuildDimCustomersSurrogateKeys(t *testing.T) {
	dims := BuildDimCustomers(testCustomers("NY", "TX", "CA", "FL"), DefaultRegions(), testNow)
	if len(dims) != 4 {
		t.Fatalf("Expected 4 rows, got %d", len(dims))
	}
	seen := make(map[int]bool)
	for i, d := range dims {
		if d.CustomerKey != i+1 {
			t.Errorf("Row %d: expected key %d, got %d", i, i+1, d.CustomerKey)
		}
		if seen[d.CustomerKey] {
			t.Errorf("Duplicate surrogate key %d", d.CustomerKey)
		}
		seen[d.CustomerKey] = true
	}
}

func TestBuildDimCustomersRegion(t *testing.T) {
	tests := []struct {
		state  string
		region string
	}{
		{"NY", "Northeast"},
		{"FL", "Southeast"},
		{"OH", "Midwest"},
		{"TX", "Southwest"},
		{"CA", "West"},
		{"ZZ", "Unknown"},
		{"", "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			dims := BuildDimCustomers(testCustomers(tt.state), DefaultRegions(), testNow)
			if dims[0].Region != tt.region {
				t.Errorf("State %q: expected region %q, got %q", tt.state, tt.region, dims[0].Region)
			}
		})
	}
}

func TestBuildDimCustomersAlwaysActive(t *testing.T) {
	dims := BuildDimCustomers(testCustomers("NY", "ZZ"), DefaultRegions(), testNow)
	for _, d := range dims {
		if !d.IsActive {
			t.Errorf("Customer %s: is_active must be true", d.CustomerID)
		}
		if !d.UpdatedDate.Equal(testNow) {
			t.Errorf("Customer %s: updated_date not stamped", d.CustomerID)
		}
	}
}

func TestBuildDimProducts(t *testing.T) {
	products := []model.Product{
		{ProductID: "P1", Name: "Desk", Category: "Furniture", Price: 249.99},
		{ProductID: "P2", Name: "Lamp", Category: "Lighting", Price: 39.5},
	}
	dims := BuildDimProducts(products, testNow)
	if len(dims) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(dims))
	}
	for i, d := range dims {
		if d.ProductKey != i+1 {
			t.Errorf("Row %d: expected key %d, got %d", i, i+1, d.ProductKey)
		}
		if !d.IsActive {
			t.Errorf("Product %s: is_active must be true", d.ProductID)
		}
	}
	if dims[0].Price != 249.99 || dims[1].Price != 39.5 {
		t.Error("Prices not carried into dimension")
	}
}

func TestBuildDimProductsEmpty(t *testing.T) {
	dims := BuildDimProducts(nil, testNow)
	if len(dims) != 0 {
		t.Errorf("Expected no rows, got %d", len(dims))
	}
}
