package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the taxonomy or the learning report",
	Long:  "Export writes the current taxonomy as reviewable YAML, or fetches the aggregate learning report from a running serve process as JSON or a suggestions CSV.",
	RunE:  runExport,
}

var (
	exportTaxonomy bool
	exportFormat   string
	exportOut      string
	exportActions  int
	exportServer   string
)

func init() {
	exportCmd.Flags().BoolVar(&exportTaxonomy, "taxonomy", false, "Export the taxonomy as YAML instead of the learning report")
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Report format: json or csv")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default: stdout)")
	exportCmd.Flags().IntVar(&exportActions, "recent-actions", 20, "Number of recent learning actions to include in the report")
	exportCmd.Flags().StringVar(&exportServer, "server", "", "Base URL of the running serve process (default: http://localhost:<port>)")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	out := os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	if exportTaxonomy {
		store, err := loadTaxonomyStore(cfg)
		if err != nil {
			return err
		}
		data, err := store.ExportYAML()
		if err != nil {
			return err
		}
		if _, err := out.Write(data); err != nil {
			return fmt.Errorf("failed to write taxonomy: %w", err)
		}
		return nil
	}

	// Learning state lives in the serve process, so the report comes from
	// its report endpoint rather than a throwaway engine.
	base := exportServer
	if base == "" {
		base = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}
	if exportFormat != "json" && exportFormat != "csv" {
		return fmt.Errorf("unknown format %q (expected json or csv)", exportFormat)
	}

	data, err := fetchLearningReport(base, exportFormat, exportActions)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// fetchLearningReport pulls the learning report from a running server.
func fetchLearningReport(baseURL, format string, recent int) ([]byte, error) {
	reportURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", baseURL, err)
	}
	reportURL = reportURL.JoinPath("learning", "report")
	q := reportURL.Query()
	q.Set("format", format)
	q.Set("recent", strconv.Itoa(recent))
	reportURL.RawQuery = q.Encode()

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(reportURL.String())
	if err != nil {
		return nil, fmt.Errorf("failed to reach server at %s (is `jobsector serve` running?): %w", baseURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read report response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %s: %s", resp.Status, body)
	}
	return body, nil
}
