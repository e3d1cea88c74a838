package relevance

import "github.com/curamai/sitesearch/internal/core/domain"

func testEntries() []domain.KnowledgeEntry {
	return []domain.KnowledgeEntry{
		{
			Keywords:   []string{"phase 1", "guarantee", "refund", "feasibility sprint"},
			AnswerHTML: "Phase 1 is the Feasibility Sprint.",
			Sources:    []domain.Source{{Title: "Phase 1 Feasibility Sprint", URL: "phase-1-feasibility.html"}},
		},
		{
			Keywords:   []string{"phase 2", "roadmap", "readiness", "strategy"},
			AnswerHTML: "Phase 2 is The Readiness Roadmap.",
			Sources:    []domain.Source{{Title: "Phase 2 Roadmap", URL: "phase-2-roadmap.html"}},
		},
		{
			Keywords:   []string{"cost", "price", "pricing", "investment"},
			AnswerHTML: "The Protocol is structured in fixed-price phases.",
			Sources:    []domain.Source{{Title: "The Protocol", URL: "curam-ai-protocol.html"}},
		},
		{
			Keywords:   []string{"ownership", "ip", "vendor lock", "source code"},
			AnswerHTML: "You own everything.",
			Sources:    []domain.Source{{Title: "About", URL: "about.html"}},
		},
		{
			Keywords:   []string{"roi", "savings", "return", "payback"},
			AnswerHTML: "ROI varies by firm size.",
			Sources:    []domain.Source{{Title: "ROI Calculator", URL: "roi.html"}},
		},
	}
}

func newTestScorer(entries []domain.KnowledgeEntry) *Scorer {
	normalizer := NewNormalizer(DefaultVocabulary().StopWords)
	return NewScorer(normalizer, entries, ScorerOptions{})
}

func newTestClassifier() *Classifier {
	vocab := DefaultVocabulary()
	return NewClassifier(NewNormalizer(vocab.StopWords), vocab)
}
