//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// LearningStatus tracks whether a feedback item has been consumed by the
// learning engine. Each item is consumed exactly once.
type LearningStatus string

// Learning status constants.
const (
	LearningStatusPending   LearningStatus = "pending"
	LearningStatusProcessed LearningStatus = "processed"
)

// OriginalClassification captures the classifier's decision at the time the
// reviewer saw the job, so learning can compare against it later even if the
// taxonomy has since changed.
type OriginalClassification struct {
	Primary    string          `json:"primary"`
	Confidence int             `json:"confidence"`
	Secondary  []CategoryScore `json:"secondary,omitempty"`
	Reasoning  []string        `json:"reasoning,omitempty"`
}

// UserCorrection is the reviewer's verdict. A confirmation is represented as
// CorrectedPrimary equal to the original primary category.
type UserCorrection struct {
	CorrectedPrimary string    `json:"corrected_primary" validate:"required"`
	Reason           string    `json:"reason,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
	UserID           string    `json:"user_id,omitempty"`
}

// JobFeedback is one reviewer action (correction or confirmation) queued for
// the learning engine.
type JobFeedback struct {
	ID                string                 `json:"id" validate:"required"`
	JobID             string                 `json:"job_id" validate:"required"`
	JobTitle          string                 `json:"job_title"`
	JobDescription    string                 `json:"job_description"`
	JobLabels         string                 `json:"job_labels"`
	Original          OriginalClassification `json:"original_classification"`
	Correction        UserCorrection         `json:"user_correction" validate:"required"`
	LearningStatus    LearningStatus         `json:"learning_status"`
	ExtractedKeywords []string               `json:"extracted_keywords,omitempty"`
}

// IsConfirmation reports whether the reviewer agreed with the original
// classification.
func (f JobFeedback) IsConfirmation() bool {
	return f.Correction.CorrectedPrimary == f.Original.Primary
}

// Job returns the posting text fields carried with the feedback.
func (f JobFeedback) Job() JobPosting {
	return JobPosting{
		Title:       f.JobTitle,
		Description: f.JobDescription,
		JobLabels:   f.JobLabels,
	}
}
