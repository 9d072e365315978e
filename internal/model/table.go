package model

import "time"

// ColumnType enumerates the value types a sink must persist loss-lessly.
type ColumnType string

const (
	TypeString    ColumnType = "string"
	TypeNumeric   ColumnType = "numeric"
	TypeInteger   ColumnType = "integer"
	TypeDate      ColumnType = "date"
	TypeTimestamp ColumnType = "timestamp"
	TypeBool      ColumnType = "boolean"
)

// Column describes one table column.
type Column struct {
	Name string
	Type ColumnType
}

// Layer names for persisted tables. Gold is split into dimensions and
// facts, mirroring the on-disk layout of the output directory.
const (
	LayerBronze         = "bronze"
	LayerSilver         = "silver"
	LayerGoldDimensions = "gold/dimensions"
	LayerGoldFacts      = "gold/facts"
)

// Table is a fully materialized table handed to a sink: a name, a layer,
// a fixed column order, and rows of values matching the column types.
type Table struct {
	Name    string
	Layer   string
	Columns []Column
	Rows    [][]any
}

// BronzeCustomers builds the bronze customers table: the raw rows plus
// ingestion provenance columns.
func BronzeCustomers(rows []RawCustomer, source string, ingestedAt time.Time) Table {
	t := Table{
		Name:  "bronze_customers",
		Layer: LayerBronze,
		Columns: []Column{
			{"customer_id", TypeString},
			{"customer_name", TypeString},
			{"email", TypeString},
			{"city", TypeString},
			{"state", TypeString},
			{"country", TypeString},
			{"signup_date", TypeString},
			{"_ingestion_timestamp", TypeTimestamp},
			{"_source", TypeString},
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.CustomerID, r.Name, r.Email, r.City, r.State, r.Country,
			r.SignupDate, ingestedAt, source,
		})
	}
	return t
}

// BronzeProducts builds the bronze products table.
func BronzeProducts(rows []RawProduct, source string, ingestedAt time.Time) Table {
	t := Table{
		Name:  "bronze_products",
		Layer: LayerBronze,
		Columns: []Column{
			{"product_id", TypeString},
			{"product_name", TypeString},
			{"category", TypeString},
			{"price", TypeString},
			{"_ingestion_timestamp", TypeTimestamp},
			{"_source", TypeString},
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.ProductID, r.Name, r.Category, r.Price, ingestedAt, source,
		})
	}
	return t
}

// BronzeOrders builds the bronze orders table.
func BronzeOrders(rows []RawOrder, source string, ingestedAt time.Time) Table {
	t := Table{
		Name:  "bronze_orders",
		Layer: LayerBronze,
		Columns: []Column{
			{"order_id", TypeString},
			{"customer_id", TypeString},
			{"product_id", TypeString},
			{"quantity", TypeString},
			{"order_date", TypeString},
			{"order_status", TypeString},
			{"payment_mode", TypeString},
			{"_ingestion_timestamp", TypeTimestamp},
			{"_source", TypeString},
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.OrderID, r.CustomerID, r.ProductID, r.Quantity, r.OrderDate,
			r.OrderStatus, r.PaymentMode, ingestedAt, source,
		})
	}
	return t
}

// SilverCustomers builds the cleaned customers table.
func SilverCustomers(rows []Customer) Table {
	t := Table{
		Name:  "silver_customers",
		Layer: LayerSilver,
		Columns: []Column{
			{"customer_id", TypeString},
			{"customer_name", TypeString},
			{"email", TypeString},
			{"city", TypeString},
			{"state", TypeString},
			{"country", TypeString},
			{"signup_date", TypeDate},
			{"created_date", TypeDate},
			{"updated_date", TypeDate},
			{"is_active", TypeBool},
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.CustomerID, r.Name, r.Email, r.City, r.State, r.Country,
			r.SignupDate, r.CreatedDate, r.UpdatedDate, r.IsActive,
		})
	}
	return t
}

// SilverProducts builds the cleaned products table.
func SilverProducts(rows []Product) Table {
	t := Table{
		Name:  "silver_products",
		Layer: LayerSilver,
		Columns: []Column{
			{"product_id", TypeString},
			{"product_name", TypeString},
			{"category", TypeString},
			{"price", TypeNumeric},
			{"created_date", TypeDate},
			{"updated_date", TypeDate},
			{"is_active", TypeBool},
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.ProductID, r.Name, r.Category, r.Price,
			r.CreatedDate, r.UpdatedDate, r.IsActive,
		})
	}
	return t
}

// SilverOrders builds the cleaned orders table.
func SilverOrders(rows []Order) Table {
	t := Table{
		Name:  "silver_orders",
		Layer: LayerSilver,
		Columns: []Column{
			{"order_id", TypeString},
			{"customer_id", TypeString},
			{"product_id", TypeString},
			{"quantity", TypeNumeric},
			{"order_date", TypeDate},
			{"order_status", TypeString},
			{"payment_mode", TypeString},
			{"created_date", TypeDate},
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.OrderID, r.CustomerID, r.ProductID, r.Quantity, r.OrderDate,
			r.OrderStatus, r.PaymentMode, r.CreatedDate,
		})
	}
	return t
}

// DimCustomerTable builds the customer dimension table.
func DimCustomerTable(rows []DimCustomer) Table {
	t := Table{
		Name:  "dim_customer",
		Layer: LayerGoldDimensions,
		Columns: []Column{
			{"customer_key", TypeInteger},
			{"customer_id", TypeString},
			{"customer_name", TypeString},
			{"email", TypeString},
			{"city", TypeString},
			{"state", TypeString},
			{"country", TypeString},
			{"region", TypeString},
			{"signup_date", TypeDate},
			{"is_active", TypeBool},
			{"created_date", TypeDate},
			{"updated_date", TypeDate},
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.CustomerKey, r.CustomerID, r.Name, r.Email, r.City, r.State,
			r.Country, r.Region, r.SignupDate, r.IsActive,
			r.CreatedDate, r.UpdatedDate,
		})
	}
	return t
}

// DimProductTable builds the product dimension table.
func DimProductTable(rows []DimProduct) Table {
	t := Table{
		Name:  "dim_product",
		Layer: LayerGoldDimensions,
		Columns: []Column{
			{"product_key", TypeInteger},
			{"product_id", TypeString},
			{"product_name", TypeString},
			{"category", TypeString},
			{"price", TypeNumeric},
			{"is_active", TypeBool},
			{"created_date", TypeDate},
			{"updated_date", TypeDate},
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.ProductKey, r.ProductID, r.Name, r.Category, r.Price,
			r.IsActive, r.CreatedDate, r.UpdatedDate,
		})
	}
	return t
}

// DimDateTable builds the date dimension table.
func DimDateTable(rows []DimDate) Table {
	t := Table{
		Name:  "dim_date",
		Layer: LayerGoldDimensions,
		Columns: []Column{
			{"date_key", TypeInteger},
			{"calendar_date", TypeDate},
			{"day_of_week", TypeInteger},
			{"day_name", TypeString},
			{"week_of_year", TypeInteger},
			{"month", TypeInteger},
			{"month_name", TypeString},
			{"quarter", TypeInteger},
			{"year", TypeInteger},
			{"is_holiday", TypeBool},
			{"is_weekend", TypeBool},
			{"created_date", TypeDate},
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.DateKey, r.CalendarDate, r.DayOfWeek, r.DayName, r.WeekOfYear,
			r.Month, r.MonthName, r.Quarter, r.Year, r.IsHoliday,
			r.IsWeekend, r.CreatedDate,
		})
	}
	return t
}

// FactSalesTable builds the sales fact table.
func FactSalesTable(rows []FactSale) Table {
	t := Table{
		Name:  "fact_sales",
		Layer: LayerGoldFacts,
		Columns: []Column{
			{"order_id", TypeString},
			{"order_date_key", TypeInteger},
			{"customer_key", TypeInteger},
			{"product_key", TypeInteger},
			{"quantity", TypeNumeric},
			{"unit_price", TypeNumeric},
			{"total_amount", TypeNumeric},
			{"order_status", TypeString},
			{"payment_mode", TypeString},
			{"created_date", TypeDate},
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.OrderID, r.OrderDateKey, r.CustomerKey, r.ProductKey,
			r.Quantity, r.UnitPrice, r.TotalAmount, r.OrderStatus,
			r.PaymentMode, r.CreatedDate,
		})
	}
	return t
}
