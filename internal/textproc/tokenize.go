// Package textproc provides tokenization and keyword-candidate extraction for
// job posting text.
package textproc

import (
	"strings"
	"unicode"
)

// minTokenLength filters out short fragments that carry no signal.
const minTokenLength = 3

// Normalize lowercases text and collapses every non-alphanumeric run into a
// single space, with a leading and trailing space so that whole-term matching
// can use space-delimited containment.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(text) + 2)
	sb.WriteByte(' ')
	lastSpace := true
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			lastSpace = false
		} else if !lastSpace {
			sb.WriteByte(' ')
			lastSpace = true
		}
	}
	if !lastSpace {
		sb.WriteByte(' ')
	}
	return sb.String()
}

// Tokenize splits text into lowercase alphanumeric tokens of at least
// minTokenLength characters, preserving order and duplicates.
func Tokenize(text string) []string {
	fields := strings.Fields(Normalize(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) >= minTokenLength {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// ContainsTerm reports whether a normalized text (produced by Normalize)
// contains the given term as whole words. Multi-word terms match as a phrase.
func ContainsTerm(normalized, term string) bool {
	needle := Normalize(term)
	if strings.TrimSpace(needle) == "" || normalized == "" {
		return false
	}
	// Both sides are space-padded, so plain containment is a whole-word match.
	return strings.Contains(normalized, needle)
}
