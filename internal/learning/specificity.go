package learning

// supportTracker accumulates, per candidate keyword, the distinct jobs that
// supported it for each category. Specificity for (keyword, category) is the
// share of the keyword's supporting jobs that belong to that category: 1.0
// means the keyword has only ever appeared in that category's corrections.
type supportTracker struct {
	// keyword -> category id -> set of supporting job ids
	support map[string]map[string]map[string]struct{}
}

func newSupportTracker() *supportTracker {
	return &supportTracker{support: make(map[string]map[string]map[string]struct{})}
}

// record registers one supporting job for a keyword-category association.
// Recording the same job twice is a no-op, which keeps feedback reprocessing
// from double-counting support.
func (t *supportTracker) record(keyword, categoryID, jobID string) {
	byCategory, ok := t.support[keyword]
	if !ok {
		byCategory = make(map[string]map[string]struct{})
		t.support[keyword] = byCategory
	}
	jobs, ok := byCategory[categoryID]
	if !ok {
		jobs = make(map[string]struct{})
		byCategory[categoryID] = jobs
	}
	jobs[jobID] = struct{}{}
}

// supportCount returns the number of distinct jobs supporting the keyword for
// the category.
func (t *supportTracker) supportCount(keyword, categoryID string) int {
	return len(t.support[keyword][categoryID])
}

// specificity returns the keyword's category specificity in [0,1].
func (t *supportTracker) specificity(keyword, categoryID string) float64 {
	byCategory := t.support[keyword]
	if len(byCategory) == 0 {
		return 0
	}
	total := 0
	for _, jobs := range byCategory {
		total += len(jobs)
	}
	if total == 0 {
		return 0
	}
	return float64(len(byCategory[categoryID])) / float64(total)
}

// keywordsFor returns every keyword that has at least one supporting job for
// the category.
func (t *supportTracker) keywordsFor(categoryID string) []string {
	var keywords []string
	for kw, byCategory := range t.support {
		if len(byCategory[categoryID]) > 0 {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

// suggestionConfidence folds specificity and support count into a single
// monotonic confidence value: confidence = specificity * s/(s+1). With full
// specificity it crosses 0.75 at three supporting jobs and 0.80 at four,
// which places the suggestion and auto-apply thresholds a job apart.
func suggestionConfidence(specificity float64, support int) float64 {
	if support <= 0 {
		return 0
	}
	return specificity * float64(support) / float64(support+1)
}
