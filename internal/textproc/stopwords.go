package textproc

// stopWords are common English words excluded from keyword candidacy.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "had": true,
	"her": true, "was": true, "one": true, "our": true, "out": true,
	"has": true, "have": true, "his": true, "how": true, "its": true,
	"may": true, "new": true, "now": true, "old": true, "see": true,
	"two": true, "who": true, "will": true, "with": true, "this": true,
	"that": true, "they": true, "them": true, "then": true, "than": true,
	"what": true, "when": true, "where": true, "which": true, "while": true,
	"would": true, "there": true, "their": true, "these": true, "those": true,
	"from": true, "into": true, "about": true, "after": true, "before": true,
	"being": true, "between": true, "both": true, "during": true, "each": true,
	"more": true, "most": true, "other": true, "over": true, "some": true,
	"such": true, "through": true, "under": true, "very": true, "your": true,
	"able": true, "also": true, "been": true, "does": true, "must": true,
	"per": true, "via": true, "within": true, "including": true, "across": true,
}

// forbiddenGenericTerms appear ubiquitously across job postings in every
// sector and carry no discriminating power. They are never learned as
// keywords no matter how often they co-occur with a category.
var forbiddenGenericTerms = map[string]bool{
	"research":         true,
	"management":       true,
	"development":      true,
	"experience":       true,
	"experienced":      true,
	"skills":           true,
	"team":             true,
	"teams":            true,
	"work":             true,
	"working":          true,
	"role":             true,
	"roles":            true,
	"position":         true,
	"positions":        true,
	"opportunity":      true,
	"opportunities":    true,
	"job":              true,
	"jobs":             true,
	"company":          true,
	"candidate":        true,
	"candidates":       true,
	"responsibilities": true,
	"requirements":     true,
	"required":         true,
	"preferred":        true,
	"benefits":         true,
	"salary":           true,
	"location":         true,
	"apply":            true,
	"application":      true,
	"applications":     true,
	"project":          true,
	"projects":         true,
	"service":          true,
	"services":         true,
	"support":          true,
	"strong":           true,
	"excellent":        true,
	"ability":          true,
	"knowledge":        true,
	"degree":           true,
	"years":            true,
	"full":             true,
	"time":             true,
	"part":             true,
}

// IsStopWord reports whether the token is a common English stop word.
func IsStopWord(token string) bool {
	return stopWords[token]
}

// IsForbiddenGeneric reports whether the term is excluded from learning for
// being too generic. Multi-word terms are forbidden only when every word in
// them is forbidden, so a phrase like "cleaning services" remains learnable
// even though "services" alone is not.
func IsForbiddenGeneric(term string) bool {
	words := Tokenize(term)
	if len(words) == 0 {
		return true
	}
	for _, w := range words {
		if !forbiddenGenericTerms[w] {
			return false
		}
	}
	return true
}
