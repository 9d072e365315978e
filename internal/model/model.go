// Package model defines the record types flowing through the pipeline and
// the table representation handed to sinks.
package model

import "time"

// DateFormat is the canonical rendering of date-typed values.
const DateFormat = "2006-01-02"

// RawCustomer is a customer row as loaded from the source, before any
// coercion. All fields are strings; an empty string means missing.
type RawCustomer struct {
	CustomerID string
	Name       string
	Email      string
	City       string
	State      string
	Country    string
	SignupDate string
}

// RawProduct is a product row as loaded from the source.
type RawProduct struct {
	ProductID string
	Name      string
	Category  string
	Price     string
}

// RawOrder is an order row as loaded from the source.
type RawOrder struct {
	OrderID     string
	CustomerID  string
	ProductID   string
	Quantity    string
	OrderDate   string
	OrderStatus string
	PaymentMode string
}

// Customer is a cleaned customer row with audit metadata stamped.
type Customer struct {
	CustomerID  string
	Name        string
	Email       string
	City        string
	State       string
	Country     string
	SignupDate  time.Time
	CreatedDate time.Time
	UpdatedDate time.Time
	IsActive    bool
}

// Product is a cleaned product row. Price is guaranteed positive.
type Product struct {
	ProductID   string
	Name        string
	Category    string
	Price       float64
	CreatedDate time.Time
	UpdatedDate time.Time
	IsActive    bool
}

// Order is a cleaned order row. Quantity is guaranteed positive. The
// customer and product references may still dangle at this stage.
type Order struct {
	OrderID     string
	CustomerID  string
	ProductID   string
	Quantity    float64
	OrderDate   time.Time
	OrderStatus string
	PaymentMode string
	CreatedDate time.Time
}

// DimCustomer is a customer dimension row. CustomerKey is assigned by row
// position within a single run and has no stability across runs.
type DimCustomer struct {
	CustomerKey int
	CustomerID  string
	Name        string
	Email       string
	City        string
	State       string
	Country     string
	Region      string
	SignupDate  time.Time
	IsActive    bool
	CreatedDate time.Time
	UpdatedDate time.Time
}

// DimProduct is a product dimension row.
type DimProduct struct {
	ProductKey  int
	ProductID   string
	Name        string
	Category    string
	Price       float64
	IsActive    bool
	CreatedDate time.Time
	UpdatedDate time.Time
}

// DimDate is one calendar day in the date dimension.
type DimDate struct {
	DateKey      int
	CalendarDate time.Time
	DayOfWeek    int // 1=Monday .. 7=Sunday
	DayName      string
	WeekOfYear   int
	Month        int
	MonthName    string
	Quarter      int
	Year         int
	IsHoliday    bool
	IsWeekend    bool
	CreatedDate  time.Time
}

// FactSale is one row of the sales fact table. CustomerKey and ProductKey
// are always resolved; OrderDateKey may fall outside the date dimension
// and is only checked by the integrity validator.
type FactSale struct {
	OrderID      string
	OrderDateKey int
	CustomerKey  int
	ProductKey   int
	Quantity     float64
	UnitPrice    float64
	TotalAmount  float64
	OrderStatus  string
	PaymentMode  string
	CreatedDate  time.Time
}

// DateKey encodes a date as a decimal YYYYMMDD integer. The same encoding
// is used by the calendar generator and the fact builder.
func DateKey(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}
