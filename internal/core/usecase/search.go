package usecase

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/curamai/sitesearch/internal/core/domain"
	"github.com/curamai/sitesearch/internal/core/ports"
	"github.com/curamai/sitesearch/internal/core/relevance"
)

const (
	defaultBlogMessage     = "Searching blog articles for additional information..."
	noMatchAnswer          = "We couldn't find a close match in our website pages. Try rephrasing your question or use one of the example queries."
	irrelevantAnswer       = "This search covers AI document automation, the Curam-Ai Protocol and our services. Your question appears to be outside that scope."
	blogUnavailableAnswer  = "The blog is currently unavailable. Please try again later or contact us directly."
	blogUnavailableMessage = "Unable to reach blog API"
)

type SearchOptions struct {
	// SimulatedLatency delays the knowledge base lookup to mimic a retrieval
	// call. It never changes scores.
	SimulatedLatency time.Duration
	BlogMessage      string
	Now              func() time.Time
}

// SearchUseCase runs the classifier and scorer over the knowledge base and,
// when a blog searcher is configured, augments results with blog posts.
type SearchUseCase struct {
	normalizer *relevance.Normalizer
	classifier *relevance.Classifier
	scorer     *relevance.Scorer
	renderer   *Renderer
	sanitizer  ports.TextSanitizer
	blog       ports.BlogSearcher
	events     ports.EventPublisher
	opts       SearchOptions
}

func NewSearchUseCase(
	normalizer *relevance.Normalizer,
	classifier *relevance.Classifier,
	scorer *relevance.Scorer,
	renderer *Renderer,
	sanitizer ports.TextSanitizer,
	blog ports.BlogSearcher,
	events ports.EventPublisher,
	opts SearchOptions,
) *SearchUseCase {
	if strings.TrimSpace(opts.BlogMessage) == "" {
		opts.BlogMessage = defaultBlogMessage
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &SearchUseCase{
		normalizer: normalizer,
		classifier: classifier,
		scorer:     scorer,
		renderer:   renderer,
		sanitizer:  sanitizer,
		blog:       blog,
		events:     events,
		opts:       opts,
	}
}

// Search is the knowledge base only path.
func (uc *SearchUseCase) Search(ctx context.Context, query string) (domain.View, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return uc.renderer.RenderEmpty(), nil
	}
	normalized := uc.normalizer.Normalize(query)
	if !uc.classifier.IsRelevantNormalized(normalized) {
		return uc.renderer.RenderIrrelevant(query), nil
	}

	scored, err := uc.searchKnowledgeBase(ctx, normalized)
	if err != nil {
		return domain.View{}, err
	}
	return uc.renderer.Render(localResults(scored), query), nil
}

// CombinedSearch joins the knowledge base and blog searches. A blog failure
// never fails the join; it only contributes nothing.
func (uc *SearchUseCase) CombinedSearch(ctx context.Context, query string) (domain.View, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return uc.renderer.RenderEmpty(), nil
	}
	normalized := uc.normalizer.Normalize(query)
	if !uc.classifier.IsRelevantNormalized(normalized) {
		return uc.renderer.RenderIrrelevant(query), nil
	}

	var (
		scored []domain.ScoredResult
		posts  []domain.BlogPost
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		scored, err = uc.searchKnowledgeBase(groupCtx, normalized)
		return err
	})
	group.Go(func() error {
		posts = uc.searchBlog(groupCtx, query)
		return nil
	})
	if err := group.Wait(); err != nil {
		return domain.View{}, err
	}

	results := localResults(scored)
	for _, post := range posts {
		results = append(results, blogResult(post))
	}
	uc.publish(ctx, domain.SearchTypeCombined, query, len(results), resultTitles(results))
	return uc.renderer.Render(results, query), nil
}

// SearchFast serves the phase-one contract from the knowledge base alone.
func (uc *SearchUseCase) SearchFast(ctx context.Context, query string) (*domain.FastSearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.WrapError(domain.ErrEmptyQuery, "search fast", fmt.Errorf("query is required"))
	}
	normalized := uc.normalizer.Normalize(query)
	if !uc.classifier.IsRelevantNormalized(normalized) {
		uc.publish(ctx, domain.SearchTypeFast, query, 0, nil)
		return &domain.FastSearchResponse{
			Answer:  irrelevantAnswer,
			Sources: []domain.RemoteSource{},
			Query:   query,
			State:   domain.ViewIrrelevantQuery,
		}, nil
	}

	scored, err := uc.searchKnowledgeBase(ctx, normalized)
	if err != nil {
		return nil, err
	}
	sources := uc.websiteSources(scored)
	response := &domain.FastSearchResponse{
		Answer:        noMatchAnswer,
		Sources:       sources,
		Query:         query,
		SearchingBlog: uc.blog != nil,
		State:         domain.ViewNoResults,
	}
	if len(scored) > 0 {
		response.Answer = scored[0].Entry.AnswerHTML
		response.State = domain.ViewResults
	}
	if response.SearchingBlog {
		response.Message = uc.opts.BlogMessage
	}
	uc.publish(ctx, domain.SearchTypeFast, query, len(sources), remoteTitles(sources))
	return response, nil
}

// SearchComplete serves the phase-two contract: knowledge base sources plus
// blog posts. It fails only when the blog is unreachable and nothing else was
// found.
func (uc *SearchUseCase) SearchComplete(ctx context.Context, query string) (*domain.CompleteSearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.WrapError(domain.ErrEmptyQuery, "search complete", fmt.Errorf("query is required"))
	}
	normalized := uc.normalizer.Normalize(query)
	relevant := uc.classifier.IsRelevantNormalized(normalized)

	var scored []domain.ScoredResult
	if relevant {
		var err error
		if scored, err = uc.searchKnowledgeBase(ctx, normalized); err != nil {
			return nil, err
		}
	}
	sources := uc.websiteSources(scored)

	var blogErr error
	if relevant && uc.blog != nil {
		posts, err := uc.blog.SearchPosts(ctx, query)
		if err != nil {
			blogErr = err
			slog.Warn("blog_search_failed", "query", query, "error", err)
		}
		for _, post := range posts {
			sources = append(sources, blogSource(post))
		}
	}
	uc.publish(ctx, domain.SearchTypeComplete, query, len(sources), remoteTitles(sources))

	if blogErr != nil && len(sources) == 0 {
		return &domain.CompleteSearchResponse{
			Answer:  blogUnavailableAnswer,
			Sources: []domain.RemoteSource{},
			Query:   query,
			Error:   blogUnavailableMessage,
		}, domain.WrapError(domain.ErrUpstream, "search complete", blogErr)
	}
	if len(sources) == 0 {
		return &domain.CompleteSearchResponse{
			Answer:   couldNotFindAnswer(query),
			Sources:  []domain.RemoteSource{},
			Query:    query,
			Complete: true,
		}, nil
	}

	answer := ""
	if len(scored) > 0 {
		answer = scored[0].Entry.AnswerHTML
	} else if sources[0].Excerpt != "" {
		answer = htmlParagraph(sources[0].Excerpt)
	}
	return &domain.CompleteSearchResponse{
		Answer:   answer,
		Sources:  sources,
		Query:    query,
		Complete: true,
	}, nil
}

func (uc *SearchUseCase) searchKnowledgeBase(ctx context.Context, q relevance.NormalizedQuery) ([]domain.ScoredResult, error) {
	if uc.opts.SimulatedLatency > 0 {
		timer := time.NewTimer(uc.opts.SimulatedLatency)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return uc.scorer.FindRelevantNormalized(q), nil
}

func (uc *SearchUseCase) searchBlog(ctx context.Context, query string) []domain.BlogPost {
	if uc.blog == nil {
		return nil
	}
	posts, err := uc.blog.SearchPosts(ctx, query)
	if err != nil {
		slog.Warn("blog_search_failed", "query", query, "error", err)
		return nil
	}
	return posts
}

func (uc *SearchUseCase) websiteSources(scored []domain.ScoredResult) []domain.RemoteSource {
	sources := make([]domain.RemoteSource, 0, len(scored)*2)
	seen := make(map[string]struct{}, len(scored)*2)
	for _, result := range scored {
		excerpt := truncateRunes(uc.sanitizer.PlainText(result.Entry.AnswerHTML), websiteExcerptRunes)
		for _, source := range result.Entry.Sources {
			if _, ok := seen[source.URL]; ok {
				continue
			}
			seen[source.URL] = struct{}{}
			sources = append(sources, domain.RemoteSource{
				Title:   source.Title,
				Link:    source.URL,
				Excerpt: excerpt,
				Type:    domain.SourceWebsite,
			})
		}
	}
	return sources
}

func (uc *SearchUseCase) publish(ctx context.Context, searchType, query string, count int, titles []string) {
	if uc.events == nil {
		return
	}
	event := domain.SearchEvent{
		ID:           uuid.NewString(),
		Query:        query,
		SearchType:   searchType,
		ResultsCount: count,
		Sources:      titles,
		RequestID:    RequestIDFromContext(ctx),
		OccurredAt:   uc.opts.Now().UTC().Format(time.RFC3339),
	}
	if err := uc.events.PublishSearch(ctx, event); err != nil {
		slog.Warn("search_event_publish_failed", "search_type", searchType, "error", err)
	}
}

func localResults(scored []domain.ScoredResult) []domain.Result {
	results := make([]domain.Result, 0, len(scored))
	for _, result := range scored {
		results = append(results, result.AsResult())
	}
	return results
}

func resultTitles(results []domain.Result) []string {
	titles := make([]string, 0, len(results))
	for _, result := range results {
		for _, source := range result.Sources {
			titles = append(titles, source.Title)
		}
	}
	return titles
}

func remoteTitles(sources []domain.RemoteSource) []string {
	titles := make([]string, 0, len(sources))
	for _, source := range sources {
		titles = append(titles, source.Title)
	}
	return titles
}

func couldNotFindAnswer(query string) string {
	return fmt.Sprintf("I couldn't find specific information about '%s' in our blog or website content. "+
		"This topic might not be directly related to AI document automation, the Curam-Ai Protocol, or our services.",
		html.EscapeString(query))
}

func htmlParagraph(text string) string {
	return "<p>" + html.EscapeString(text) + "</p>"
}
