package datagen

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/martbuild/martbuild/internal/logging"
	"github.com/martbuild/martbuild/internal/model"
)

// SeedConfig controls sample data generation.
type SeedConfig struct {
	// Customers, Products, Orders are row counts to generate.
	Customers int
	Products  int
	Orders    int

	// DefectRate is the fraction of rows given a data-quality defect:
	// missing required fields, uncoercible or non-positive numerics, and
	// dangling foreign keys. Dates stay well-formed since a malformed
	// date aborts the pipeline.
	DefectRate float64

	// Seed makes generation reproducible when non-zero.
	Seed uint64
}

var orderStatuses = []string{"Completed", "Completed", "Completed", "Pending", "Cancelled", "Returned"}

var paymentModes = []string{"Credit Card", "Debit Card", "PayPal", "UPI", "Cash"}

// Seeder writes sample raw CSV tables for the pipeline to consume.
type Seeder struct {
	faker *Faker
	cfg   SeedConfig
}

// NewSeeder creates a seeder.
func NewSeeder(cfg SeedConfig) *Seeder {
	faker := NewFaker()
	if cfg.Seed != 0 {
		faker = NewFakerWithSeed(cfg.Seed)
	}
	return &Seeder{faker: faker, cfg: cfg}
}

// Generate writes customers.csv, products.csv, and orders.csv into dir.
func (s *Seeder) Generate(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	if err := s.generateCustomers(filepath.Join(dir, "customers.csv")); err != nil {
		return fmt.Errorf("generating customers: %w", err)
	}
	if err := s.generateProducts(filepath.Join(dir, "products.csv")); err != nil {
		return fmt.Errorf("generating products: %w", err)
	}
	if err := s.generateOrders(filepath.Join(dir, "orders.csv")); err != nil {
		return fmt.Errorf("generating orders: %w", err)
	}
	logging.Info().
		Str("dir", dir).
		Int("customers", s.cfg.Customers).
		Int("products", s.cfg.Products).
		Int("orders", s.cfg.Orders).
		Msg("Seeded raw tables")
	return nil
}

func (s *Seeder) defective() bool {
	return s.faker.Float64(0, 1) < s.cfg.DefectRate
}

func (s *Seeder) generateCustomers(path string) error {
	signupStart := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	signupEnd := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	rows := [][]string{
		{"customer_id", "customer_name", "email", "city", "state", "country", "signup_date"},
	}
	for i := 1; i <= s.cfg.Customers; i++ {
		name := s.faker.Name()
		email := s.faker.Email()
		if s.defective() {
			// Either required field missing drops the row during cleaning.
			if s.faker.Bool() {
				email = ""
			} else {
				name = ""
			}
		}
		rows = append(rows, []string{
			fmt.Sprintf("C%04d", i),
			name,
			email,
			s.faker.City(),
			s.faker.State(),
			"USA",
			s.faker.DateRange(signupStart, signupEnd).Format(model.DateFormat),
		})
	}
	return writeCSV(path, rows)
}

func (s *Seeder) generateProducts(path string) error {
	rows := [][]string{
		{"product_id", "product_name", "category", "price"},
	}
	for i := 1; i <= s.cfg.Products; i++ {
		price := strconv.FormatFloat(s.faker.Price(5, 2000), 'f', 2, 64)
		if s.defective() {
			// Uncoercible, non-positive, or missing, all are dropped
			// during cleaning.
			price = Choose(s.faker, []string{"n/a", "-10.00", "0", ""})
		}
		rows = append(rows, []string{
			fmt.Sprintf("P%04d", i),
			s.faker.ProductName(),
			s.faker.ProductCategory(),
			price,
		})
	}
	return writeCSV(path, rows)
}

func (s *Seeder) generateOrders(path string) error {
	orderStart := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	orderEnd := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	rows := [][]string{
		{"order_id", "customer_id", "product_id", "quantity", "order_date", "order_status", "payment_mode"},
	}
	for i := 1; i <= s.cfg.Orders; i++ {
		customerID := fmt.Sprintf("C%04d", s.faker.Int(1, s.cfg.Customers))
		productID := fmt.Sprintf("P%04d", s.faker.Int(1, s.cfg.Products))
		quantity := strconv.Itoa(s.faker.Int(1, 10))

		if s.defective() {
			switch s.faker.Int(1, 4) {
			case 1:
				// Dangling customer reference.
				customerID = fmt.Sprintf("C%04d", s.cfg.Customers+s.faker.Int(1, 100))
			case 2:
				// Dangling product reference.
				productID = fmt.Sprintf("P%04d", s.cfg.Products+s.faker.Int(1, 100))
			case 3:
				quantity = Choose(s.faker, []string{"0", "-1", "two", ""})
			case 4:
				customerID = ""
			}
		}

		rows = append(rows, []string{
			fmt.Sprintf("O%06d", i),
			customerID,
			productID,
			quantity,
			s.faker.DateRange(orderStart, orderEnd).Format(model.DateFormat),
			Choose(s.faker, orderStatuses),
			Choose(s.faker, paymentModes),
		})
	}
	return writeCSV(path, rows)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	return w.WriteAll(rows)
}
