package learning

import (
	"sort"
	"strings"

	"github.com/fieldworks/jobsector/internal/types"
)

// Stats is the aggregate learning summary surfaced to dashboards and exports.
type Stats struct {
	TotalFeedback      int                    `json:"total_feedback"`
	PatternsLearned    int                    `json:"patterns_learned"` // distinct keyword/pair suggestions that cleared the suggestion bar
	DictionaryUpdates  int                    `json:"dictionary_updates"`
	AutoAppliedUpdates int                    `json:"auto_applied_updates"`
	RecentActions      []types.LearningAction `json:"recent_actions,omitempty"`
}

// Stats returns aggregate counters and the most recent n actions (newest first).
func (e *Engine) Stats(n int) Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Stats{
		TotalFeedback:      e.totalFeedback,
		PatternsLearned:    len(e.suggested),
		DictionaryUpdates:  len(e.applied) + len(e.pending),
		AutoAppliedUpdates: len(e.applied),
	}

	for i := len(e.actions) - 1; i >= 0 && len(s.RecentActions) < n; i-- {
		s.RecentActions = append(s.RecentActions, e.actions[i])
	}
	return s
}

// KeywordSuggestion is one ranked learning suggestion, annotated with the
// evidence behind it.
type KeywordSuggestion struct {
	Keyword     string  `json:"keyword"`
	Specificity float64 `json:"specificity"`
	Support     int     `json:"support"`
	Confidence  float64 `json:"confidence"`
	Status      string  `json:"status"` // "applied", "pending", or "candidate"
}

// CategoryInsight is the per-category learning summary.
type CategoryInsight struct {
	CategoryID    string                   `json:"category_id"`
	Confirmations int                      `json:"confirmations"`
	Corrections   int                      `json:"corrections"` // reviewer overturned this category's classifications
	CorrectedInto int                      `json:"corrected_into"`
	Accuracy      float64                  `json:"accuracy"` // share of this category's feedback that confirmed it
	Updates       []types.DictionaryUpdate `json:"updates,omitempty"`
	Suggestions   []KeywordSuggestion      `json:"suggestions,omitempty"`
}

// maxSuggestionsPerCategory caps the ranked suggestion list in insights.
const maxSuggestionsPerCategory = 10

// Insights returns the per-category learning view: accuracy estimates,
// pending and applied dictionary updates, and ranked keyword suggestions.
func (e *Engine) Insights() []CategoryInsight {
	e.mu.Lock()
	defer e.mu.Unlock()

	var insights []CategoryInsight
	for _, cat := range e.store.Categories() {
		insight := CategoryInsight{
			CategoryID:    cat.ID,
			Confirmations: e.confirmed[cat.ID],
			Corrections:   e.correctedFrom[cat.ID],
			CorrectedInto: e.correctedTo[cat.ID],
		}
		if total := insight.Confirmations + insight.Corrections; total > 0 {
			insight.Accuracy = float64(insight.Confirmations) / float64(total)
		}

		for _, u := range e.applied {
			if u.CategoryID == cat.ID {
				insight.Updates = append(insight.Updates, u)
			}
		}
		for _, u := range e.pending {
			if u.CategoryID == cat.ID {
				insight.Updates = append(insight.Updates, u)
			}
		}
		// Pending updates come out of a map, so ties on confidence need a
		// content tie-break to keep the export order stable.
		sort.SliceStable(insight.Updates, func(a, b int) bool {
			ua, ub := insight.Updates[a], insight.Updates[b]
			if ua.Confidence != ub.Confidence {
				return ua.Confidence > ub.Confidence
			}
			return updateSortKey(ua) < updateSortKey(ub)
		})

		insight.Suggestions = e.rankedSuggestions(cat.ID)
		insights = append(insights, insight)
	}
	return insights
}

func (e *Engine) rankedSuggestions(categoryID string) []KeywordSuggestion {
	keywords := e.tracker.keywordsFor(categoryID)
	suggestions := make([]KeywordSuggestion, 0, len(keywords))
	for _, kw := range keywords {
		support := e.tracker.supportCount(kw, categoryID)
		spec := e.tracker.specificity(kw, categoryID)
		suggestions = append(suggestions, KeywordSuggestion{
			Keyword:     kw,
			Specificity: spec,
			Support:     support,
			Confidence:  suggestionConfidence(spec, support),
			Status:      e.suggestionStatus(categoryID, kw),
		})
	}

	sort.Slice(suggestions, func(a, b int) bool {
		if suggestions[a].Confidence != suggestions[b].Confidence {
			return suggestions[a].Confidence > suggestions[b].Confidence
		}
		return suggestions[a].Keyword < suggestions[b].Keyword
	})
	if len(suggestions) > maxSuggestionsPerCategory {
		suggestions = suggestions[:maxSuggestionsPerCategory]
	}
	return suggestions
}

// updateSortKey flattens an update's additions into a comparable string.
func updateSortKey(u types.DictionaryUpdate) string {
	parts := make([]string, 0, len(u.NewCoreKeywords)+len(u.NewSupportKeywords)+len(u.NewContextPairs))
	parts = append(parts, u.NewCoreKeywords...)
	parts = append(parts, u.NewSupportKeywords...)
	for _, p := range u.NewContextPairs {
		parts = append(parts, p.First+" "+p.Second)
	}
	return strings.Join(parts, "|")
}

func (e *Engine) suggestionStatus(categoryID, keyword string) string {
	for _, u := range e.applied {
		if u.CategoryID != categoryID {
			continue
		}
		for _, kw := range u.NewCoreKeywords {
			if kw == keyword {
				return "applied"
			}
		}
		for _, kw := range u.NewSupportKeywords {
			if kw == keyword {
				return "applied"
			}
		}
	}
	if _, ok := e.pending[suggestionKey(categoryID, keyword)]; ok {
		return "pending"
	}
	return "candidate"
}
