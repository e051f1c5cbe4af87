//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// StoredCorrection is the durable record of one user correction, keyed by
// job id with last-write-wins semantics.
type StoredCorrection struct {
	JobID             string    `json:"job_id"`
	OriginalCategory  string    `json:"original_category"`
	CorrectedCategory string    `json:"corrected_category"`
	Timestamp         time.Time `json:"timestamp"`
}
