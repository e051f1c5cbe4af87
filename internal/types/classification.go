//nolint:revive // types is a standard Go package name pattern
package types

// CategoryScore pairs a category with its normalized confidence (0-100).
type CategoryScore struct {
	CategoryID string `json:"category_id"`
	Confidence int    `json:"confidence"`
}

// ClassificationFlags carries the advisory signals attached to a classification.
type ClassificationFlags struct {
	Ambiguous       bool     `json:"ambiguous"`
	LowConfidence   bool     `json:"low_confidence"`
	EmergingTerms   []string `json:"emerging_terms,omitempty"`
	HybridCandidate bool     `json:"hybrid_candidate"`
	HybridPattern   string   `json:"hybrid_pattern,omitempty"` // pattern name when HybridCandidate is set
}

// ClassificationResult is the immutable outcome of classifying one job posting
// against a taxonomy snapshot. Confidence values are on a 0-100 scale.
type ClassificationResult struct {
	Primary    string              `json:"primary_category"`
	Confidence int                 `json:"classification_confidence"`
	Secondary  []CategoryScore     `json:"secondary_categories"`
	Reasoning  []string            `json:"classification_reasoning"`
	Flags      ClassificationFlags `json:"flags"`
}
