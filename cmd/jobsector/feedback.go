package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fieldworks/jobsector/internal/learning"
	"github.com/fieldworks/jobsector/internal/schemas"
	"github.com/fieldworks/jobsector/internal/types"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Process reviewer feedback and update the learning state",
	Long:  "Feedback reads one or more reviewer feedback documents from a JSON file, runs each through the learning engine, persists corrections, and prints the resulting learning actions.",
	RunE:  runFeedback,
}

var (
	feedbackFile        string
	feedbackOutTaxonomy string
)

func init() {
	feedbackCmd.Flags().StringVarP(&feedbackFile, "file", "f", "", "Path to a feedback JSON file (single document or array, required)")
	feedbackCmd.Flags().StringVar(&feedbackOutTaxonomy, "out-taxonomy", "", "Write the updated taxonomy snapshot to this YAML file")

	_ = feedbackCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(feedbackCmd)
}

func runFeedback(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	store, err := loadTaxonomyStore(cfg)
	if err != nil {
		return err
	}

	batch, err := readFeedbackFile(feedbackFile)
	if err != nil {
		return err
	}

	corrStore, closeStores, err := openCorrections(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	engine := learning.NewEngine(store, cfg.Thresholds)

	var processed, failed int
	for _, fb := range batch {
		actions, err := engine.ProcessFeedback(fb)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "Feedback %s failed: %v\n", fb.ID, err)
			continue
		}
		processed++

		if !fb.IsConfirmation() {
			fellBack, err := corrStore.Save(ctx, types.StoredCorrection{
				JobID:             fb.JobID,
				OriginalCategory:  fb.Original.Primary,
				CorrectedCategory: fb.Correction.CorrectedPrimary,
				Timestamp:         fb.Correction.Timestamp,
			})
			switch {
			case err != nil:
				fmt.Fprintf(os.Stderr, "Warning: failed to persist correction for job %s: %v\n", fb.JobID, err)
			case fellBack:
				fmt.Fprintf(os.Stderr, "Correction for job %s stored locally; run `jobsector sync` once the remote store is reachable\n", fb.JobID)
			}
		}

		for _, a := range actions {
			applied := ""
			if a.AutoApplied {
				applied = " [applied]"
			}
			fmt.Printf("  %s%s: %s\n", a.Type, applied, a.Description)
		}
	}

	fmt.Printf("Processed %d feedback document(s)", processed)
	if failed > 0 {
		fmt.Printf(", %d failed", failed)
	}
	fmt.Println()

	if feedbackOutTaxonomy != "" {
		data, err := store.ExportYAML()
		if err != nil {
			return fmt.Errorf("failed to export taxonomy: %w", err)
		}
		if err := os.WriteFile(feedbackOutTaxonomy, data, 0o644); err != nil {
			return fmt.Errorf("failed to write taxonomy snapshot: %w", err)
		}
		fmt.Printf("Wrote taxonomy snapshot: %s\n", feedbackOutTaxonomy)
	}
	return nil
}

// readFeedbackFile accepts either a single feedback document or a JSON array
// of documents. Every document is schema-validated before any is processed.
func readFeedbackFile(path string) ([]types.JobFeedback, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feedback file: %w", err)
	}

	var docs []json.RawMessage
	if err := json.Unmarshal(data, &docs); err != nil {
		docs = []json.RawMessage{data}
	}

	batch := make([]types.JobFeedback, 0, len(docs))
	for i, doc := range docs {
		if err := schemas.ValidateFeedback(doc); err != nil {
			return nil, fmt.Errorf("feedback document %d: %w", i, err)
		}
		var fb types.JobFeedback
		if err := json.Unmarshal(doc, &fb); err != nil {
			return nil, fmt.Errorf("feedback document %d: %w", i, err)
		}
		batch = append(batch, fb)
	}
	return batch, nil
}
