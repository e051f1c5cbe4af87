package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fieldworks/jobsector/internal/fetch"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch a job posting from a URL and emit classification-ready JSON",
	Long:  "Ingest fetches a job posting page, extracts its title and description text, and writes a job posting JSON document suitable for the classify command.",
	RunE:  runIngest,
}

var (
	ingestURL        string
	ingestOut        string
	ingestUseBrowser bool
)

const browserRenderTimeout = 60 * time.Second

func init() {
	ingestCmd.Flags().StringVarP(&ingestURL, "url", "u", "", "URL to fetch the job posting from (required)")
	ingestCmd.Flags().StringVarP(&ingestOut, "out", "o", "", "Output file (default: stdout)")
	ingestCmd.Flags().BoolVar(&ingestUseBrowser, "use-browser", false, "Render the page in a headless browser (for script-heavy job boards)")

	_ = ingestCmd.MarkFlagRequired("url")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var html string
	var err error
	if ingestUseBrowser {
		html, err = fetch.WithBrowser(ctx, ingestURL, browserRenderTimeout)
	} else {
		html, err = fetch.URL(ctx, ingestURL)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch posting: %w", err)
	}

	job, err := fetch.ExtractPosting(html)
	if err != nil {
		return fmt.Errorf("failed to extract posting: %w", err)
	}

	// A near-empty extraction usually means the page is script-rendered.
	if !ingestUseBrowser && fetch.ShouldUseBrowser(job.Description) {
		fmt.Fprintln(os.Stderr, "Warning: extracted content is very short; consider --use-browser")
	}

	if ingestOut == "" {
		return printJSON(os.Stdout, job)
	}

	f, err := os.Create(ingestOut)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := printJSON(f, job); err != nil {
		return fmt.Errorf("failed to write posting: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Ingested job posting: %s\n", ingestOut)
	return nil
}
