package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/curamai/sitesearch/internal/core/domain"
	"github.com/curamai/sitesearch/internal/core/ports"
	"github.com/curamai/sitesearch/internal/core/relevance"
	"github.com/curamai/sitesearch/internal/infrastructure/htmltext"
)

type blogSearcherFake struct {
	mu    sync.Mutex
	posts []domain.BlogPost
	err   error
	calls int
}

func (f *blogSearcherFake) SearchPosts(context.Context, string) ([]domain.BlogPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.posts, nil
}

type eventPublisherFake struct {
	mu     sync.Mutex
	events []domain.SearchEvent
	err    error
}

func (f *eventPublisherFake) PublishSearch(_ context.Context, event domain.SearchEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return f.err
}

type blogCacheFake struct {
	items map[string][]domain.BlogPost
	ttl   time.Duration
	err   error
}

func (f *blogCacheFake) Get(_ context.Context, query string) ([]domain.BlogPost, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	posts, ok := f.items[query]
	return posts, ok, nil
}

func (f *blogCacheFake) Set(_ context.Context, query string, posts []domain.BlogPost, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	if f.items == nil {
		f.items = map[string][]domain.BlogPost{}
	}
	f.items[query] = posts
	f.ttl = ttl
	return nil
}

func testEntries() []domain.KnowledgeEntry {
	return []domain.KnowledgeEntry{
		{
			Keywords:   []string{"phase 1", "guarantee", "refund", "feasibility sprint"},
			AnswerHTML: "Phase 1 is the <strong>Feasibility Sprint</strong>.",
			Sources: []domain.Source{
				{Title: "Phase 1 Feasibility Sprint", URL: "phase-1-feasibility.html"},
				{Title: "Homepage FAQ", URL: "homepage.html#faq"},
			},
		},
		{
			Keywords:   []string{"cost", "price", "pricing", "investment"},
			AnswerHTML: "The Protocol is structured in fixed-price phases.",
			Sources: []domain.Source{
				{Title: "The Protocol", URL: "curam-ai-protocol.html"},
				{Title: "Homepage FAQ", URL: "homepage.html#faq"},
			},
		},
		{
			Keywords:   []string{"roi", "savings", "return", "payback"},
			AnswerHTML: "ROI varies by firm size.",
			Sources:    []domain.Source{{Title: "ROI Calculator", URL: "roi.html"}},
		},
	}
}

func newTestSearchUseCase(blog *blogSearcherFake, events *eventPublisherFake) *SearchUseCase {
	vocab := relevance.DefaultVocabulary()
	normalizer := relevance.NewNormalizer(vocab.StopWords)
	classifier := relevance.NewClassifier(normalizer, vocab)
	scorer := relevance.NewScorer(normalizer, testEntries(), relevance.ScorerOptions{})

	var blogPort ports.BlogSearcher
	if blog != nil {
		blogPort = blog
	}
	var eventsPort ports.EventPublisher
	if events != nil {
		eventsPort = events
	}
	return NewSearchUseCase(
		normalizer,
		classifier,
		scorer,
		NewRenderer(vocab.SupportedTopics),
		htmltext.New(),
		blogPort,
		eventsPort,
		SearchOptions{Now: func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }},
	)
}
