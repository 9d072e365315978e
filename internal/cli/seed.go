package cli

import (
	"github.com/spf13/cobra"

	"github.com/martbuild/martbuild/internal/datagen"
	"github.com/martbuild/martbuild/internal/logging"
)

var (
	seedCustomers  int
	seedProducts   int
	seedOrders     int
	seedDefectRate float64
	seedSeed       uint64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate sample raw input tables",
	Long: `Generate customers.csv, products.csv, and orders.csv in the input
directory. A configurable fraction of rows carries a data-quality defect
(missing fields, uncoercible prices, non-positive quantities, dangling
foreign keys) so that a subsequent 'martbuild run' exercises the cleaning
and validation stages.

Example:
  martbuild seed --customers 500 --products 100 --orders 5000 --seed 42`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedCustomers, "customers", 0,
		"number of customer rows to generate")
	seedCmd.Flags().IntVar(&seedProducts, "products", 0,
		"number of product rows to generate")
	seedCmd.Flags().IntVar(&seedOrders, "orders", 0,
		"number of order rows to generate")
	seedCmd.Flags().Float64Var(&seedDefectRate, "defect-rate", 0,
		"fraction of rows given a data-quality defect (default: 0.05)")
	seedCmd.Flags().Uint64Var(&seedSeed, "seed", 0,
		"random seed for reproducible output")
}

func runSeed(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if seedCustomers > 0 {
		cfg.Seed.Customers = seedCustomers
	}
	if seedProducts > 0 {
		cfg.Seed.Products = seedProducts
	}
	if seedOrders > 0 {
		cfg.Seed.Orders = seedOrders
	}
	if seedDefectRate > 0 {
		cfg.Seed.DefectRate = seedDefectRate
	}
	if seedSeed != 0 {
		cfg.Seed.Seed = seedSeed
	}

	// Validate configuration
	if err := cfg.ValidateSeed(); err != nil {
		return err
	}

	logging.Info().
		Str("dir", cfg.Input.Dir).
		Float64("defect_rate", cfg.Seed.DefectRate).
		Msg("Generating sample data")

	seeder := datagen.NewSeeder(datagen.SeedConfig{
		Customers:  cfg.Seed.Customers,
		Products:   cfg.Seed.Products,
		Orders:     cfg.Seed.Orders,
		DefectRate: cfg.Seed.DefectRate,
		Seed:       cfg.Seed.Seed,
	})
	return seeder.Generate(cfg.Input.Dir)
}
