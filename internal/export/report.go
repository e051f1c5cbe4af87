// Package export serializes learning stats and insights into flat report
// formats for dashboards and offline analysis.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fieldworks/jobsector/internal/learning"
)

// Report is the flat structured export of the learning engine's aggregate state.
type Report struct {
	GeneratedAt time.Time                  `json:"generated_at"`
	Stats       learning.Stats             `json:"stats"`
	Categories  []learning.CategoryInsight `json:"categories"`
	Issues      []string                   `json:"issues,omitempty"`
}

// Build assembles a report from the engine's current state, including the
// most recent n actions.
func Build(engine *learning.Engine, recentActions int) Report {
	return Report{
		GeneratedAt: time.Now().UTC(),
		Stats:       engine.Stats(recentActions),
		Categories:  engine.Insights(),
		Issues:      engine.Issues(),
	}
}

// WriteJSON writes the report as indented JSON.
func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// WriteSuggestionsCSV writes every category's ranked keyword suggestions as
// a flat CSV table.
func (r Report) WriteSuggestionsCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := []string{"category_id", "keyword", "specificity", "support", "confidence", "status"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, cat := range r.Categories {
		for _, s := range cat.Suggestions {
			row := []string{
				cat.CategoryID,
				s.Keyword,
				strconv.FormatFloat(s.Specificity, 'f', 3, 64),
				strconv.Itoa(s.Support),
				strconv.FormatFloat(s.Confidence, 'f', 3, 64),
				s.Status,
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
