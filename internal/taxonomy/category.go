// Package taxonomy provides the category taxonomy and its thread-safe store.
// The taxonomy is seeded once from embedded data and mutated only through the
// store's update API; categories are never deleted, only appended to.
package taxonomy

import (
	"time"

	"github.com/fieldworks/jobsector/internal/types"
)

// Category is one sectoral classification with its multi-tier keyword
// vocabulary. Core keywords are strong, near-definitive indicators; support
// keywords corroborate; context pairs reward phrase-level co-occurrence;
// emerging keywords and weak signals contribute only lightly to scoring.
type Category struct {
	ID               string              `json:"id" yaml:"id"`
	Name             string              `json:"name" yaml:"name"`
	Description      string              `json:"description" yaml:"description"`
	Color            string              `json:"color" yaml:"color"`
	CoreKeywords     []string            `json:"core_keywords" yaml:"core_keywords"`
	SupportKeywords  []string            `json:"support_keywords" yaml:"support_keywords"`
	ContextPairs     []types.KeywordPair `json:"context_pairs,omitempty" yaml:"context_pairs,omitempty"`
	EmergingKeywords []string            `json:"emerging_keywords,omitempty" yaml:"emerging_keywords,omitempty"`
	WeakSignals      []string            `json:"weak_signals,omitempty" yaml:"weak_signals,omitempty"`
	LastUpdated      time.Time           `json:"last_updated" yaml:"last_updated"`
}

// HasKeyword reports whether the term is already present in the core or
// support tier.
func (c *Category) HasKeyword(term string) bool {
	return containsString(c.CoreKeywords, term) || containsString(c.SupportKeywords, term)
}

// HasAnyTier reports whether the term appears in any keyword tier.
func (c *Category) HasAnyTier(term string) bool {
	return c.HasKeyword(term) ||
		containsString(c.EmergingKeywords, term) ||
		containsString(c.WeakSignals, term)
}

// HasPair reports whether the pair is already registered, in either order.
func (c *Category) HasPair(pair types.KeywordPair) bool {
	for _, p := range c.ContextPairs {
		if (p.First == pair.First && p.Second == pair.Second) ||
			(p.First == pair.Second && p.Second == pair.First) {
			return true
		}
	}
	return false
}

// clone returns a deep copy so callers can hold a snapshot without racing
// against learning-engine mutations.
func (c *Category) clone() Category {
	out := *c
	out.CoreKeywords = append([]string(nil), c.CoreKeywords...)
	out.SupportKeywords = append([]string(nil), c.SupportKeywords...)
	out.ContextPairs = append([]types.KeywordPair(nil), c.ContextPairs...)
	out.EmergingKeywords = append([]string(nil), c.EmergingKeywords...)
	out.WeakSignals = append([]string(nil), c.WeakSignals...)
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
