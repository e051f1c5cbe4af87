// Package classifier maps a job posting's text fields to a ranked category
// decision using the current taxonomy snapshot. Classification is pure: no
// side effects, and deterministic for a fixed (job, taxonomy) pair.
package classifier

import (
	"fmt"
	"sort"

	"github.com/fieldworks/jobsector/internal/config"
	"github.com/fieldworks/jobsector/internal/taxonomy"
	"github.com/fieldworks/jobsector/internal/textproc"
	"github.com/fieldworks/jobsector/internal/types"
)

// Field and tier weights. Title matches dominate because titles are short and
// highly category-indicative; a core match is worth double a support match.
const (
	weightTitleField       = 3.0
	weightLabelsField      = 2.0
	weightDescriptionField = 1.0

	weightCoreTier     = 10.0
	weightSupportTier  = 5.0
	weightEmergingTier = 3.0
	weightWeakTier     = 2.0

	titleBoost       = 1.5
	contextPairBonus = 8.0

	// confidenceHalfpoint is the raw score at which normalized confidence
	// reaches 50. Confidence saturates toward 100 as raw score grows, so
	// absolute magnitude matters, not just rank.
	confidenceHalfpoint = 25.0
)

// categoryScore accumulates one category's evidence during scoring.
type categoryScore struct {
	category taxonomy.Category
	raw      float64
	reasons  []string
}

// Classify scores the job against every category in the taxonomy snapshot and
// returns the ranked result. Empty input degrades to the fallback category
// with zero confidence; ties break by category declaration order.
func Classify(job types.JobPosting, store *taxonomy.Store, th config.Thresholds) types.ClassificationResult {
	categories := store.Categories()

	if job.IsEmpty() {
		return fallbackResult(store, categories)
	}

	title := textproc.Normalize(job.Title)
	labels := textproc.Normalize(job.JobLabels)
	description := textproc.Normalize(job.Description)
	combined := title + labels + description

	scores := make([]categoryScore, len(categories))
	for i, cat := range categories {
		scores[i] = scoreCategory(cat, title, labels, description, combined)
	}

	// Rank by raw score, declaration order breaking ties.
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]].raw > scores[order[b]].raw
	})

	top := scores[order[0]]
	if top.raw == 0 {
		// Text was present but nothing matched any category. Frequent
		// unknown terms are still worth surfacing for learning.
		result := fallbackResult(store, categories)
		result.Flags.EmergingTerms = unknownFrequentTerms(categories, th, combined)
		return result
	}

	result := types.ClassificationResult{
		Primary:    top.category.ID,
		Confidence: normalizeConfidence(top.raw),
		Reasoning:  top.reasons,
	}

	for _, idx := range order[1:] {
		result.Secondary = append(result.Secondary, types.CategoryScore{
			CategoryID: scores[idx].category.ID,
			Confidence: normalizeConfidence(scores[idx].raw),
		})
	}

	applyFlags(&result, store, th, categories, combined)
	return result
}

// scoreCategory scans one category's keyword tiers against the job fields,
// building the reasoning list in the same order the evidence contributes.
func scoreCategory(cat taxonomy.Category, title, labels, description, combined string) categoryScore {
	cs := categoryScore{category: cat}

	tiers := []struct {
		name     string
		keywords []string
		weight   float64
	}{
		{"core", cat.CoreKeywords, weightCoreTier},
		{"support", cat.SupportKeywords, weightSupportTier},
		{"emerging", cat.EmergingKeywords, weightEmergingTier},
		{"weak signal", cat.WeakSignals, weightWeakTier},
	}

	fields := []struct {
		name  string
		text  string
		w     float64
		boost float64
	}{
		{"title", title, weightTitleField, titleBoost},
		{"labels", labels, weightLabelsField, 1.0},
		{"description", description, weightDescriptionField, 1.0},
	}

	for _, tier := range tiers {
		for _, kw := range tier.keywords {
			for _, field := range fields {
				if !textproc.ContainsTerm(field.text, kw) {
					continue
				}
				cs.raw += tier.weight * field.w * field.boost
				cs.reasons = append(cs.reasons,
					fmt.Sprintf("%s keyword %q matched in %s", tier.name, kw, field.name))
				break // count each keyword once, at its strongest field
			}
		}
	}

	for _, pair := range cat.ContextPairs {
		if textproc.ContainsTerm(combined, pair.First) && textproc.ContainsTerm(combined, pair.Second) {
			cs.raw += contextPairBonus
			cs.reasons = append(cs.reasons,
				fmt.Sprintf("context pair %q + %q matched", pair.First, pair.Second))
		}
	}

	return cs
}

// applyFlags fills in the ambiguity, low-confidence, emerging-term and
// hybrid-candidate flags on an already-ranked result.
func applyFlags(result *types.ClassificationResult, store *taxonomy.Store, th config.Thresholds, categories []taxonomy.Category, combined string) {
	if len(result.Secondary) > 0 {
		gap := result.Confidence - result.Secondary[0].Confidence
		if gap < th.AmbiguityGap {
			result.Flags.Ambiguous = true
			result.Reasoning = append(result.Reasoning,
				fmt.Sprintf("ambiguous: %s and %s scores differ by only %d points",
					result.Primary, result.Secondary[0].CategoryID, gap))
		}
	}

	if result.Confidence < th.LowConfidence {
		result.Flags.LowConfidence = true
	}

	result.Flags.EmergingTerms = unknownFrequentTerms(categories, th, combined)

	if len(result.Secondary) > 0 {
		runnerUp := result.Secondary[0]
		for _, pattern := range store.HybridPatterns() {
			if !pattern.Matches(result.Primary, runnerUp.CategoryID) {
				continue
			}
			if result.Confidence >= th.HybridMinScore && runnerUp.Confidence >= th.HybridMinScore {
				result.Flags.HybridCandidate = true
				result.Flags.HybridPattern = pattern.Name
				result.Reasoning = append(result.Reasoning,
					fmt.Sprintf("hybrid candidate: matches %s pattern (%s + %s)",
						pattern.Name, result.Primary, runnerUp.CategoryID))
			}
			break
		}
	}
}

// MatchedKeywords returns the category's core and support keywords that are
// present in the job's text: the evidence that contributed to a
// classification, used by the learning engine's reinforcement path.
func MatchedKeywords(job types.JobPosting, cat taxonomy.Category) []string {
	combined := textproc.Normalize(job.Title) + textproc.Normalize(job.JobLabels) + textproc.Normalize(job.Description)
	var matched []string
	for _, kw := range cat.CoreKeywords {
		if textproc.ContainsTerm(combined, kw) {
			matched = append(matched, kw)
		}
	}
	for _, kw := range cat.SupportKeywords {
		if textproc.ContainsTerm(combined, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// unknownFrequentTerms finds frequent non-stop-word terms that appear in no
// category's keyword tiers: candidates for future learning.
func unknownFrequentTerms(categories []taxonomy.Category, th config.Thresholds, combined string) []string {
	frequent := textproc.FrequentTerms(th.EmergingFrequency, th.MaxEmergingTerms, combined)
	var unknown []string
	for _, term := range frequent {
		known := false
		for i := range categories {
			if categories[i].HasAnyTier(term) {
				known = true
				break
			}
		}
		if !known {
			unknown = append(unknown, term)
		}
	}
	return unknown
}

// normalizeConfidence maps a raw score to the 0-100 confidence scale via a
// saturating curve: conf = 100*raw/(raw+halfpoint).
func normalizeConfidence(raw float64) int {
	if raw <= 0 {
		return 0
	}
	conf := int(100*raw/(raw+confidenceHalfpoint) + 0.5)
	if conf > 100 {
		conf = 100
	}
	return conf
}

func fallbackResult(store *taxonomy.Store, categories []taxonomy.Category) types.ClassificationResult {
	result := types.ClassificationResult{
		Primary:    store.FallbackID(),
		Confidence: 0,
		Reasoning:  []string{"no classifiable text matched any category; defaulting to " + store.FallbackID()},
		Flags:      types.ClassificationFlags{LowConfidence: true},
	}
	for _, cat := range categories {
		if cat.ID == store.FallbackID() {
			continue
		}
		result.Secondary = append(result.Secondary, types.CategoryScore{CategoryID: cat.ID})
	}
	return result
}
