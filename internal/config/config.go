//-------------------------------------------------------------------------
//
// martbuild - star schema ETL
//
// Copyright (c) 2025 - 2026, the martbuild authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for martbuild.
// Configuration is loaded from config files and CLI flags (no environment
// variables). CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for martbuild.
type Config struct {
	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Input holds raw table source configuration.
	Input InputConfig `mapstructure:"input"`

	// Output holds table sink configuration.
	Output OutputConfig `mapstructure:"output"`

	// Calendar holds date dimension configuration.
	Calendar CalendarConfig `mapstructure:"calendar"`

	// Regions maps state codes to sales regions for dim_customer. Empty
	// means the built-in lookup.
	Regions map[string]string `mapstructure:"regions"`

	// Validation holds integrity check configuration.
	Validation ValidationConfig `mapstructure:"validation"`

	// Seed holds configuration for the seed subcommand.
	Seed SeedConfig `mapstructure:"seed"`
}

// InputConfig holds raw table source configuration.
type InputConfig struct {
	// Dir is the directory holding customers.csv, products.csv, orders.csv.
	Dir string `mapstructure:"dir"`
}

// OutputConfig holds table sink configuration.
type OutputConfig struct {
	// Dir is the root directory for the bronze/silver/gold layers
	// (csv sink only).
	Dir string `mapstructure:"dir"`

	// Sink selects the table sink: "csv" or "postgres".
	Sink string `mapstructure:"sink"`

	// Connection is the PostgreSQL connection string (postgres sink only).
	Connection string `mapstructure:"connection"`
}

// CalendarConfig holds the fixed date dimension range and holiday table.
type CalendarConfig struct {
	// StartDate is the inclusive first day (YYYY-MM-DD).
	StartDate string `mapstructure:"start_date"`

	// EndDate is the inclusive last day (YYYY-MM-DD).
	EndDate string `mapstructure:"end_date"`

	// Holidays override the built-in holiday table. Holidays are keyed by
	// month and day only and recur every year in range.
	Holidays []HolidayConfig `mapstructure:"holidays"`
}

// HolidayConfig is one year-independent holiday.
type HolidayConfig struct {
	Month int    `mapstructure:"month"`
	Day   int    `mapstructure:"day"`
	Name  string `mapstructure:"name"`
}

// ValidationConfig holds integrity check configuration.
type ValidationConfig struct {
	// Tolerance is the allowed absolute drift between total_amount and
	// quantity * unit_price.
	Tolerance float64 `mapstructure:"tolerance"`
}

// SeedConfig holds configuration for sample data generation.
type SeedConfig struct {
	// Customers, Products, Orders are row counts to generate.
	Customers int `mapstructure:"customers"`
	Products  int `mapstructure:"products"`
	Orders    int `mapstructure:"orders"`

	// DefectRate is the fraction of rows given a data-quality defect.
	DefectRate float64 `mapstructure:"defect_rate"`

	// Seed makes generation reproducible when non-zero.
	Seed uint64 `mapstructure:"seed"`
}

const dateLayout = "2006-01-02"

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Input: InputConfig{
			Dir: filepath.Join("data", "raw"),
		},
		Output: OutputConfig{
			Dir:  filepath.Join("data", "processed"),
			Sink: "csv",
		},
		Calendar: CalendarConfig{
			StartDate: "2020-01-01",
			EndDate:   "2030-12-31",
		},
		Validation: ValidationConfig{
			Tolerance: 0.01,
		},
		Seed: SeedConfig{
			Customers:  100,
			Products:   50,
			Orders:     1000,
			DefectRate: 0.05,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./martbuild.yaml
// 3. ~/.config/martbuild/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("martbuild")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "martbuild"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// CalendarRange parses the configured calendar bounds.
func (c *Config) CalendarRange() (start, end time.Time, err error) {
	start, err = time.Parse(dateLayout, c.Calendar.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid calendar start_date: %w", err)
	}
	end, err = time.Parse(dateLayout, c.Calendar.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid calendar end_date: %w", err)
	}
	return start, end, nil
}

// ValidateRun checks configuration required for the run command.
func (c *Config) ValidateRun() error {
	if c.Input.Dir == "" {
		return fmt.Errorf("input dir is required")
	}
	start, end, err := c.CalendarRange()
	if err != nil {
		return err
	}
	if end.Before(start) {
		return fmt.Errorf("calendar end_date precedes start_date")
	}
	for _, h := range c.Calendar.Holidays {
		if h.Month < 1 || h.Month > 12 || h.Day < 1 || h.Day > 31 {
			return fmt.Errorf("invalid holiday: month=%d day=%d", h.Month, h.Day)
		}
	}
	if c.Validation.Tolerance <= 0 {
		return fmt.Errorf("validation tolerance must be positive")
	}
	switch c.Output.Sink {
	case "csv":
		if c.Output.Dir == "" {
			return fmt.Errorf("output dir is required for the csv sink")
		}
	case "postgres":
		if c.Output.Connection == "" {
			return fmt.Errorf("connection string is required for the postgres sink")
		}
	default:
		return fmt.Errorf("sink must be 'csv' or 'postgres'")
	}
	return nil
}

// ValidateSeed checks configuration required for the seed command.
func (c *Config) ValidateSeed() error {
	if c.Input.Dir == "" {
		return fmt.Errorf("input dir is required")
	}
	if c.Seed.Customers < 1 || c.Seed.Products < 1 || c.Seed.Orders < 1 {
		return fmt.Errorf("seed row counts must be at least 1")
	}
	if c.Seed.DefectRate < 0 || c.Seed.DefectRate >= 1 {
		return fmt.Errorf("defect_rate must be in [0, 1)")
	}
	return nil
}
