package textproc

import "strings"

// maxCandidatesPerJob caps how many candidate keywords a single job can
// contribute, so verbose postings do not flood the learning state.
const maxCandidatesPerJob = 20

// ExtractCandidates extracts candidate keywords from combined job text:
// single tokens plus adjacent-token bigrams, excluding stop words and
// forbidden generic terms. Order of first appearance is preserved and
// duplicates are removed.
func ExtractCandidates(fields ...string) []string {
	seen := make(map[string]bool)
	var candidates []string

	add := func(term string) {
		if len(candidates) >= maxCandidatesPerJob {
			return
		}
		if seen[term] || IsForbiddenGeneric(term) {
			return
		}
		seen[term] = true
		candidates = append(candidates, term)
	}

	for _, field := range fields {
		tokens := Tokenize(field)
		for i, tok := range tokens {
			if IsStopWord(tok) {
				continue
			}
			add(tok)
			// Adjacent bigram, only when neither half is a stop word.
			if i+1 < len(tokens) && !IsStopWord(tokens[i+1]) {
				add(tok + " " + tokens[i+1])
			}
		}
	}

	return candidates
}

// FrequentTerms returns tokens that occur at least minCount times across the
// given fields, excluding stop words and forbidden generic terms, ordered by
// first appearance and capped at max entries.
func FrequentTerms(minCount, max int, fields ...string) []string {
	counts := make(map[string]int)
	var order []string

	text := strings.Join(fields, " ")
	for _, tok := range Tokenize(text) {
		if IsStopWord(tok) || IsForbiddenGeneric(tok) {
			continue
		}
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}

	var frequent []string
	for _, tok := range order {
		if counts[tok] >= minCount {
			frequent = append(frequent, tok)
			if max > 0 && len(frequent) >= max {
				break
			}
		}
	}
	return frequent
}
