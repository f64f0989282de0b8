// Package tokenizer turns raw text into normalized index terms.
// Token boundaries are maximal runs of characters outside [a-zA-Z0-9_'];
// every token is case-folded and reduced to its stem with the Snowball
// English stemmer.
package tokenizer

import (
	"regexp"
	"strings"

	"github.com/kljensen/snowball/english"
)

// separatorRegex matches the runs of characters that separate tokens.
var separatorRegex = regexp.MustCompile(`[^a-zA-Z0-9_']+`)

// Tokenize converts a text into its sequence of normalized terms, in order of
// appearance. Repeated words yield repeated terms.
func Tokenize(text string) []string {
	split := separatorRegex.Split(text, -1)

	terms := make([]string, 0, len(split)) // Initialize as empty slice, not nil
	for _, raw := range split {
		if term := NormalizeToken(raw); term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}

// NormalizeToken case-folds and stems a single raw token. Quote marks around
// the token are dropped; a token that is empty afterwards normalizes to "".
func NormalizeToken(raw string) string {
	token := strings.Trim(strings.ToLower(raw), "'")
	if token == "" {
		return ""
	}
	return english.Stem(token, true)
}
