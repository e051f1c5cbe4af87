package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fieldworks/jobsector/internal/learning"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard all learned state and restore the seed taxonomy",
	Long:  "Reset clears every learned keyword, pending suggestion, and learning statistic, restoring the taxonomy to its embedded seed. Requires --confirm.",
	RunE:  runReset,
}

var resetConfirm bool

func init() {
	resetCmd.Flags().BoolVar(&resetConfirm, "confirm", false, "Confirm the reset (required)")

	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	store, err := loadTaxonomyStore(cfg)
	if err != nil {
		return err
	}

	engine := learning.NewEngine(store, cfg.Thresholds)
	if err := engine.ClearAllData(resetConfirm); err != nil {
		return err
	}

	if cfg.TaxonomyFile != "" {
		data, err := store.ExportYAML()
		if err != nil {
			return fmt.Errorf("failed to export seed taxonomy: %w", err)
		}
		if err := os.WriteFile(cfg.TaxonomyFile, data, 0o644); err != nil {
			return fmt.Errorf("failed to rewrite taxonomy file: %w", err)
		}
	}

	fmt.Println("All learned data cleared; taxonomy restored to seed")
	return nil
}
