//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// ActionType enumerates the kinds of learning actions emitted while
// processing feedback.
type ActionType string

// Learning action type constants.
const (
	ActionKeywordAddition       ActionType = "keyword_addition"
	ActionPatternRecognition    ActionType = "pattern_recognition"
	ActionCategoryUpdate        ActionType = "category_update"
	ActionPositiveReinforcement ActionType = "positive_reinforcement"
)

// KeywordPair is an ordered pair of keywords whose joint presence is a
// stronger category signal than either alone.
type KeywordPair struct {
	First  string `json:"first" yaml:"first"`
	Second string `json:"second" yaml:"second"`
}

// KeywordDetails is the payload for keyword_addition actions.
type KeywordDetails struct {
	Keyword     string  `json:"keyword"`
	Specificity float64 `json:"specificity"`
	Support     int     `json:"support"`
	Tier        string  `json:"tier"` // "core" or "support"
}

// PatternDetails is the payload for pattern_recognition actions: evidence
// that was evaluated, whether or not it cleared the decision thresholds.
type PatternDetails struct {
	Candidates     []string `json:"candidates,omitempty"`
	BestKeyword    string   `json:"best_keyword,omitempty"`
	BestConfidence float64  `json:"best_confidence"`
}

// UpdateDetails is the payload for category_update actions.
type UpdateDetails struct {
	Update DictionaryUpdate `json:"update"`
}

// ReinforcementDetails is the payload for positive_reinforcement actions.
type ReinforcementDetails struct {
	Keywords []string `json:"keywords"`
}

// ActionDetails holds the per-variant payload for a LearningAction. Exactly
// one field is non-nil, matching the action's Type.
type ActionDetails struct {
	Keyword       *KeywordDetails       `json:"keyword,omitempty"`
	Pattern       *PatternDetails       `json:"pattern,omitempty"`
	Update        *UpdateDetails        `json:"update,omitempty"`
	Reinforcement *ReinforcementDetails `json:"reinforcement,omitempty"`
}

// LearningAction is one append-only audit record emitted while processing a
// feedback item.
type LearningAction struct {
	ID             string        `json:"id"`
	Type           ActionType    `json:"type"`
	Timestamp      time.Time     `json:"timestamp"`
	CategoryID     string        `json:"category_id"`
	Description    string        `json:"description"`
	Confidence     float64       `json:"confidence"`
	SupportingJobs []string      `json:"supporting_jobs,omitempty"`
	AutoApplied    bool          `json:"auto_applied"`
	Details        ActionDetails `json:"details"`
}

// DictionaryUpdate is the materialized diff of a taxonomy mutation. It is
// emitted as applied when the mutation was committed, or held as a pending
// candidate when confidence cleared the suggestion bar but not the
// auto-apply bar.
type DictionaryUpdate struct {
	CategoryID         string        `json:"category_id"`
	NewCoreKeywords    []string      `json:"new_core_keywords,omitempty"`
	NewSupportKeywords []string      `json:"new_support_keywords,omitempty"`
	NewContextPairs    []KeywordPair `json:"new_context_pairs,omitempty"`
	Timestamp          time.Time     `json:"timestamp"`
	AutoApplied        bool          `json:"auto_applied"`
	Confidence         float64       `json:"confidence"`
}

// IsEmpty reports whether the update carries no additions at all.
func (u DictionaryUpdate) IsEmpty() bool {
	return len(u.NewCoreKeywords) == 0 && len(u.NewSupportKeywords) == 0 && len(u.NewContextPairs) == 0
}
