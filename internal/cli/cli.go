//-------------------------------------------------------------------------
//
// martbuild - star schema ETL
//
// Copyright (c) 2025 - 2026, the martbuild authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for martbuild.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/martbuild/martbuild/internal/config"
	"github.com/martbuild/martbuild/internal/logging"
	"github.com/martbuild/martbuild/pkg/version"
)

var (
	// Global flags
	cfgFile  string
	inputDir string
	logLevel string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "martbuild",
		Short: "Star schema ETL for transactional sales data",
		Long: `martbuild transforms raw transactional records (customers, products,
orders) into a dimensional star-schema model through three layers: a raw
ingestion copy with provenance metadata (bronze), a cleaned and validated
copy (silver), and dimension and fact tables suitable for analytical
querying (gold).

Each invocation runs the pipeline exactly once. Output goes to CSV files
on disk or, with the postgres sink, to bronze/silver/gold schemas in a
PostgreSQL database.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./martbuild.yaml)")
	rootCmd.PersistentFlags().StringVar(&inputDir, "input-dir", "",
		"directory holding customers.csv, products.csv, orders.csv")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(seedCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if inputDir != "" {
		cfg.Input.Dir = inputDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}
