package relevance

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/curamai/sitesearch/internal/core/domain"
)

const (
	exactMatchWeight   = 20
	keywordHoldsToken  = 10
	tokenHoldsKeyword  = 5
	phraseBonusWeight  = 15
	partialTokenMinLen = 4
	phraseKeywordLen   = 5

	DefaultMinScore   = 15
	DefaultMaxResults = 3
)

// PairScore scores one (keyword, token) pair. The tiers are exclusive and
// checked in order, so the result is always one of 0, 5, 10 or 20.
func PairScore(keyword, token string) int {
	switch {
	case keyword == token:
		return exactMatchWeight
	case strings.Contains(keyword, token) && utf8.RuneCountInString(token) >= partialTokenMinLen:
		return keywordHoldsToken
	case strings.Contains(token, keyword) && utf8.RuneCountInString(keyword) >= partialTokenMinLen:
		return tokenHoldsKeyword
	default:
		return 0
	}
}

// ScoreEntry is a pure function of the normalized query and the entry.
func ScoreEntry(q NormalizedQuery, entry domain.KnowledgeEntry) int {
	score := 0
	for _, keyword := range entry.Keywords {
		for _, token := range q.Tokens {
			score += PairScore(keyword, token)
		}
	}
	for _, keyword := range entry.Keywords {
		if utf8.RuneCountInString(keyword) >= phraseKeywordLen && strings.Contains(q.Lower, keyword) {
			score += phraseBonusWeight
		}
	}
	return score
}

// Scorer ranks knowledge base entries against free-text queries.
type Scorer struct {
	normalizer *Normalizer
	entries    []domain.KnowledgeEntry
	minScore   int
	maxResults int
}

type ScorerOptions struct {
	MinScore   int
	MaxResults int
}

func NewScorer(normalizer *Normalizer, entries []domain.KnowledgeEntry, opts ScorerOptions) *Scorer {
	if opts.MinScore <= 0 {
		opts.MinScore = DefaultMinScore
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	return &Scorer{
		normalizer: normalizer,
		entries:    entries,
		minScore:   opts.MinScore,
		maxResults: opts.MaxResults,
	}
}

func (s *Scorer) FindRelevantAnswers(query string) []domain.ScoredResult {
	return s.FindRelevantNormalized(s.normalizer.Normalize(query))
}

// FindRelevantNormalized drops entries under the minimum score, sorts the rest
// by descending score keeping knowledge base order on ties, and truncates.
func (s *Scorer) FindRelevantNormalized(q NormalizedQuery) []domain.ScoredResult {
	if q.Empty() {
		return []domain.ScoredResult{}
	}

	scored := make([]domain.ScoredResult, 0, len(s.entries))
	for _, entry := range s.entries {
		score := ScoreEntry(q, entry)
		if score < s.minScore {
			continue
		}
		scored = append(scored, domain.ScoredResult{Entry: entry, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > s.maxResults {
		scored = scored[:s.maxResults]
	}
	return scored
}

// Len is the number of entries the scorer ranks.
func (s *Scorer) Len() int {
	return len(s.entries)
}
