package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fieldworks/jobsector/internal/classifier"
	"github.com/fieldworks/jobsector/internal/config"
	"github.com/fieldworks/jobsector/internal/taxonomy"
	"github.com/fieldworks/jobsector/internal/types"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a job posting (or a directory of postings) into sectoral categories",
	Long:  "Classify reads job posting JSON (title, description, job_labels) from a file, flags, or a directory, and prints the ranked category decision with confidence and reasoning.",
	RunE:  runClassify,
}

var (
	classifyFile  string
	classifyDir   string
	classifyTitle string
	classifyDesc  string
	classifyTags  string
)

// classifyWorkers bounds concurrent classification in batch mode.
// Classification only reads the taxonomy, so parallel reads are safe.
const classifyWorkers = 4

func init() {
	classifyCmd.Flags().StringVarP(&classifyFile, "file", "f", "", "Path to a job posting JSON file")
	classifyCmd.Flags().StringVarP(&classifyDir, "dir", "d", "", "Directory of job posting JSON files (batch mode)")
	classifyCmd.Flags().StringVar(&classifyTitle, "title", "", "Job title (alternative to --file)")
	classifyCmd.Flags().StringVar(&classifyDesc, "description", "", "Job description")
	classifyCmd.Flags().StringVar(&classifyTags, "labels", "", "Comma-separated job labels")

	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	store, err := loadTaxonomyStore(cfg)
	if err != nil {
		return err
	}

	if classifyDir != "" {
		return classifyBatch(cfg, store)
	}

	job, err := resolveJob()
	if err != nil {
		return err
	}

	result := classifier.Classify(job, store, cfg.Thresholds)
	return printJSON(os.Stdout, result)
}

func resolveJob() (types.JobPosting, error) {
	if classifyFile != "" {
		return readJobFile(classifyFile)
	}
	if classifyTitle == "" && classifyDesc == "" && classifyTags == "" {
		return types.JobPosting{}, fmt.Errorf("provide --file, --dir, or at least one of --title/--description/--labels")
	}
	return types.JobPosting{Title: classifyTitle, Description: classifyDesc, JobLabels: classifyTags}, nil
}

// classifyBatch classifies every *.json file in the directory concurrently
// and prints one result line per file, ordered by file name.
func classifyBatch(cfg *config.Config, store *taxonomy.Store) error {
	matches, err := filepath.Glob(filepath.Join(classifyDir, "*.json"))
	if err != nil {
		return fmt.Errorf("failed to list directory: %w", err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("no JSON files found in %s", classifyDir)
	}
	sort.Strings(matches)

	type batchResult struct {
		File   string                     `json:"file"`
		Result types.ClassificationResult `json:"result"`
	}

	results := make([]batchResult, len(matches))
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(classifyWorkers)
	for i, path := range matches {
		g.Go(func() error {
			job, err := readJobFile(path)
			if err != nil {
				return err
			}
			result := classifier.Classify(job, store, cfg.Thresholds)
			mu.Lock()
			results[i] = batchResult{File: filepath.Base(path), Result: result}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return printJSON(os.Stdout, results)
}

func readJobFile(path string) (types.JobPosting, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.JobPosting{}, fmt.Errorf("failed to read job file %s: %w", path, err)
	}
	var job types.JobPosting
	if err := json.Unmarshal(data, &job); err != nil {
		return types.JobPosting{}, fmt.Errorf("failed to parse job JSON %s: %w", path, err)
	}
	return job, nil
}

func printJSON(w *os.File, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
