package relevance

import (
	"strings"
	"unicode/utf8"
)

// minTokenLength is the shortest token kept after stop-word removal.
const minTokenLength = 3

// NormalizedQuery is a query after lower-casing and tokenizing.
type NormalizedQuery struct {
	Lower  string
	Tokens []string
}

// Empty reports whether no content tokens survived normalization.
func (q NormalizedQuery) Empty() bool {
	return len(q.Tokens) == 0
}

func (q NormalizedQuery) hasToken(term string) bool {
	for _, token := range q.Tokens {
		if token == term {
			return true
		}
	}
	return false
}

// Normalizer is the single normalization routine shared by the classifier and
// the scorer.
type Normalizer struct {
	stopWords map[string]struct{}
}

func NewNormalizer(stopWords []string) *Normalizer {
	set := make(map[string]struct{}, len(stopWords))
	for _, word := range stopWords {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" {
			continue
		}
		set[word] = struct{}{}
	}
	return &Normalizer{stopWords: set}
}

// Normalize lower-cases the query, splits it on whitespace and drops stop
// words and tokens shorter than three characters. Punctuation is kept.
func (n *Normalizer) Normalize(query string) NormalizedQuery {
	lower := strings.ToLower(query)
	fields := strings.Fields(lower)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if _, stop := n.stopWords[field]; stop {
			continue
		}
		if utf8.RuneCountInString(field) < minTokenLength {
			continue
		}
		tokens = append(tokens, field)
	}
	return NormalizedQuery{Lower: lower, Tokens: tokens}
}
