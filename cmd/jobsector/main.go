// Package main provides the entry point for the jobsector CLI and API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fieldworks/jobsector/internal/config"
	"github.com/fieldworks/jobsector/internal/taxonomy"
)

var rootCmd = &cobra.Command{
	Use:   "jobsector",
	Short: "Sectoral job classification with adaptive learning",
	Long:  "jobsector classifies scraped job postings into sectoral categories using a weighted-keyword taxonomy, and improves the taxonomy over time from reviewer corrections.",
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadAppConfig loads the optional config file, fills defaults and
// environment values, and validates the result.
func loadAppConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	merged := cfg.MergeWithDefaults(config.Config{
		LocalDBPath: "jobsector.db",
		Port:        8080,
		Thresholds:  config.DefaultThresholds(),
	})
	merged.FromEnv()

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// loadTaxonomyStore loads either the configured taxonomy snapshot or the
// embedded seed.
func loadTaxonomyStore(cfg *config.Config) (*taxonomy.Store, error) {
	if cfg.TaxonomyFile != "" {
		return taxonomy.LoadFile(cfg.TaxonomyFile)
	}
	return taxonomy.LoadSeed()
}
