// Package types provides type definitions for structured data used throughout the jobsector system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// JobPosting represents the text fields of a scraped job posting that are
// relevant to classification.
type JobPosting struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	JobLabels   string `json:"job_labels"` // comma-separated label string
}

// Labels returns the individual labels parsed from the comma-separated
// JobLabels field, with surrounding whitespace trimmed and empties dropped.
func (j JobPosting) Labels() []string {
	if strings.TrimSpace(j.JobLabels) == "" {
		return nil
	}
	parts := strings.Split(j.JobLabels, ",")
	labels := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			labels = append(labels, trimmed)
		}
	}
	return labels
}

// IsEmpty reports whether the posting carries no classifiable text at all.
func (j JobPosting) IsEmpty() bool {
	return strings.TrimSpace(j.Title) == "" &&
		strings.TrimSpace(j.Description) == "" &&
		strings.TrimSpace(j.JobLabels) == ""
}
