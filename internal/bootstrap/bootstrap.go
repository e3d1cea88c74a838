package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/curamai/sitesearch/internal/config"
	"github.com/curamai/sitesearch/internal/core/ports"
	"github.com/curamai/sitesearch/internal/core/relevance"
	"github.com/curamai/sitesearch/internal/core/usecase"
	rediscache "github.com/curamai/sitesearch/internal/infrastructure/cache/redis"
	"github.com/curamai/sitesearch/internal/infrastructure/htmltext"
	"github.com/curamai/sitesearch/internal/infrastructure/knowledge"
	"github.com/curamai/sitesearch/internal/infrastructure/queue/nats"
	"github.com/curamai/sitesearch/internal/infrastructure/remotesearch"
	"github.com/curamai/sitesearch/internal/infrastructure/resilience"
	"github.com/curamai/sitesearch/internal/infrastructure/wordpress"
	"github.com/curamai/sitesearch/internal/observability/metrics"
)

type App struct {
	Config config.Config

	KnowledgeBase *knowledge.Base
	Renderer      *usecase.Renderer
	Sanitizer     htmltext.Sanitizer
	Metrics       *metrics.HTTPServerMetrics
	Executor      *resilience.Executor

	// SearchUC serves both the single-shot and the two-phase contracts.
	SearchUC *usecase.SearchUseCase

	closeFns []func()
}

func New(ctx context.Context, cfg config.Config, service string) (*App, error) {
	app := &App{
		Config:    cfg,
		Sanitizer: htmltext.New(),
		Metrics:   metrics.NewHTTPServerMetrics(service),
		Executor:  resilience.NewExecutor(resilienceConfig(cfg)),
	}

	kb, err := knowledge.Load(cfg.KnowledgeBasePath)
	if err != nil {
		return nil, fmt.Errorf("load knowledge base: %w", err)
	}
	app.KnowledgeBase = kb

	normalizer := relevance.NewNormalizer(kb.Vocabulary.StopWords)
	classifier := relevance.NewClassifier(normalizer, kb.Vocabulary)
	scorer := relevance.NewScorer(normalizer, kb.Entries, relevance.ScorerOptions{
		MinScore:   cfg.SearchMinScore,
		MaxResults: cfg.SearchMaxResults,
	})
	app.Renderer = usecase.NewRenderer(kb.Vocabulary.SupportedTopics)

	blog, err := app.blogSearcher(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	events, err := app.eventPublisher()
	if err != nil {
		app.Close()
		return nil, err
	}

	app.SearchUC = usecase.NewSearchUseCase(
		normalizer,
		classifier,
		scorer,
		app.Renderer,
		app.Sanitizer,
		blog,
		events,
		usecase.SearchOptions{
			SimulatedLatency: cfg.KBSimulatedDelay,
			BlogMessage:      cfg.BlogSearchMessage,
		},
	)

	slog.Info("search_engine_ready",
		"knowledge_base_version", kb.Version,
		"entries", scorer.Len(),
		"blog_search", blog != nil,
		"events", events != nil,
	)
	return app, nil
}

// Backend returns the two-phase backend: the remote API when remoteURL is
// set, the in-process engine otherwise.
func (a *App) Backend(remoteURL string) ports.ProgressiveBackend {
	if remoteURL == "" {
		return a.SearchUC
	}
	return remotesearch.New(remoteURL, a.Config.RemoteSearchTimeout, a.Executor)
}

func (a *App) NewProgressiveSearch(backend ports.ProgressiveBackend, presenter ports.Presenter) *usecase.ProgressiveSearch {
	return usecase.NewProgressiveSearch(backend, a.Renderer, presenter, usecase.ProgressiveOptions{
		NotificationTTL: a.Config.NotificationTTL,
	})
}

func (a *App) blogSearcher(ctx context.Context) (ports.BlogSearcher, error) {
	cfg := a.Config
	if !cfg.BlogSearchEnabled || len(cfg.WordPressBlogURLs) == 0 {
		return nil, nil
	}

	var blog ports.BlogSearcher = wordpress.New(wordpress.Config{
		BaseURLs: cfg.WordPressBlogURLs,
		PerPage:  cfg.WordPressPerPage,
		Timeout:  cfg.WordPressTimeout,
	}, a.Executor, a.Sanitizer)
	blog = metrics.InstrumentBlogSearcher(blog, a.Metrics)

	if cfg.RedisAddr == "" {
		return blog, nil
	}
	client, err := rediscache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("init blog cache: %w", err)
	}
	a.closeFns = append(a.closeFns, func() { _ = client.Close() })

	cache := metrics.InstrumentBlogCache(rediscache.NewBlogCache(client), a.Metrics)
	return usecase.NewCachedBlogSearcher(blog, cache, cfg.BlogCacheTTL), nil
}

func (a *App) eventPublisher() (ports.EventPublisher, error) {
	if a.Config.NATSURL == "" {
		return nil, nil
	}
	events, err := nats.Connect(a.Config.NATSURL, a.Config.NATSSubject, nats.Options{
		ResilienceExecutor: a.Executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init search events: %w", err)
	}
	a.closeFns = append(a.closeFns, events.Close)
	return events, nil
}

func resilienceConfig(cfg config.Config) resilience.Config {
	rc := resilience.DefaultConfig()
	rc.RetryMaxAttempts = cfg.ResilienceRetries
	if cfg.ResilienceBackoff > 0 {
		rc.RetryInitialBackoff = cfg.ResilienceBackoff
	}
	rc.BreakerEnabled = cfg.ResilienceBreaker
	if cfg.ResilienceBreakerMin > 0 {
		rc.BreakerMinRequests = uint32(cfg.ResilienceBreakerMin)
	}
	rc.BreakerFailureRatio = cfg.ResilienceBreakerRatio
	rc.BreakerOpenTimeout = cfg.ResilienceOpenTimeout
	return rc
}

func (a *App) Close() {
	for i := len(a.closeFns) - 1; i >= 0; i-- {
		a.closeFns[i]()
	}
	a.closeFns = nil
}
