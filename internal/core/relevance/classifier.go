package relevance

import "strings"

// maxUnanchoredTokens is how many content tokens a query may have without an
// on-topic term before it is rejected.
const maxUnanchoredTokens = 2

// Classifier decides whether a query belongs to the search domain.
type Classifier struct {
	normalizer *Normalizer
	offTopic   []string
	onTopic    []string
}

func NewClassifier(normalizer *Normalizer, vocab Vocabulary) *Classifier {
	return &Classifier{
		normalizer: normalizer,
		offTopic:   lowerAll(vocab.OffTopic),
		onTopic:    lowerAll(vocab.OnTopic),
	}
}

// IsRelevant applies, in order: any off-topic substring rejects; more than two
// content tokens without an on-topic match rejects; everything else passes.
func (c *Classifier) IsRelevant(query string) bool {
	return c.IsRelevantNormalized(c.normalizer.Normalize(query))
}

func (c *Classifier) IsRelevantNormalized(q NormalizedQuery) bool {
	for _, term := range c.offTopic {
		if strings.Contains(q.Lower, term) {
			return false
		}
	}
	if len(q.Tokens) > maxUnanchoredTokens && !c.hasOnTopic(q) {
		return false
	}
	return true
}

func (c *Classifier) hasOnTopic(q NormalizedQuery) bool {
	for _, term := range c.onTopic {
		if q.hasToken(term) || strings.Contains(q.Lower, term) {
			return true
		}
	}
	return false
}

func lowerAll(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		out = append(out, term)
	}
	return out
}
