package relevance

import (
	"strings"
)

// DefaultStopwords are short Turkish function words (pronouns, conjunctions,
// interrogatives, question particles) excluded from keyword scoring.
var DefaultStopwords = []string{
	"bir", "bu", "şu", "ve", "ile", "için",
	"ne", "nedir", "nasıl", "hangi", "kim", "niye", "niçin",
	"mi", "mı", "mu", "mü",
}

// Normalize lowercases the text and splits it on whitespace into a
// deduplicated token set. Token presence, not frequency, feeds the
// word-match sub-score.
func Normalize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, field := range strings.Fields(strings.ToLower(text)) {
		tokens[field] = struct{}{}
	}
	return tokens
}

// StripStopwords returns a copy of tokens without the given stopwords.
func StripStopwords(tokens map[string]struct{}, stopwords map[string]struct{}) map[string]struct{} {
	keywords := make(map[string]struct{}, len(tokens))
	for token := range tokens {
		if _, ok := stopwords[token]; !ok {
			keywords[token] = struct{}{}
		}
	}
	return keywords
}

// StopwordSet builds a lookup set from a stopword list.
func StopwordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}
