package validate

import (
	"strings"
	"unicode"
)

// stopwords are common English function words plus generic modifiers
// that carry no trend signal.
var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "had": true,
	"has": true, "have": true, "was": true, "were": true, "will": true,
	"would": true, "could": true, "should": true, "may": true,
	"might": true, "been": true, "being": true, "does": true,
	"did": true, "this": true, "that": true, "these": true,
	"those": true, "with": true, "from": true, "into": true,
	"about": true, "than": true, "then": true, "them": true,
	"they": true, "their": true, "there": true, "here": true,
	"what": true, "when": true, "where": true, "which": true,
	"while": true, "who": true, "whom": true, "why": true, "how": true,
	"its": true, "his": true, "her": true, "our": true, "your": true,
	"out": true, "off": true, "over": true, "under": true,
	"again": true, "more": true, "most": true, "some": true,
	"such": true, "only": true, "same": true, "just": true,
	"also": true, "very": true, "too": true, "now": true,
	"get": true, "got": true, "like": true, "make": true,
	"great": true, "new": true, "own": true,
}

// Tokenize lowercases text, strips punctuation, splits on whitespace,
// and drops stopwords and tokens of length 2 or less. Empty input
// yields an empty slice.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}

	lowered := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)

	words := strings.Fields(lowered)

	var tokens []string
	for _, w := range words {
		if len(w) > 2 && !stopwords[w] {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

// tokenSet returns the distinct tokens of text.
func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range Tokenize(text) {
		set[t] = true
	}
	return set
}
