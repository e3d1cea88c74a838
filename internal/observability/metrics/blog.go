package metrics

import (
	"context"
	"time"

	"github.com/curamai/sitesearch/internal/core/domain"
	"github.com/curamai/sitesearch/internal/core/ports"
)

type instrumentedBlogSearcher struct {
	next    ports.BlogSearcher
	metrics *HTTPServerMetrics
}

// InstrumentBlogSearcher records latency and status of every blog search.
func InstrumentBlogSearcher(next ports.BlogSearcher, m *HTTPServerMetrics) ports.BlogSearcher {
	if m == nil {
		return next
	}
	return &instrumentedBlogSearcher{next: next, metrics: m}
}

func (s *instrumentedBlogSearcher) SearchPosts(ctx context.Context, query string) ([]domain.BlogPost, error) {
	start := time.Now()
	posts, err := s.next.SearchPosts(ctx, query)
	s.metrics.RecordBlogCall(err, time.Since(start))
	return posts, err
}

type instrumentedBlogCache struct {
	ports.BlogCache
	metrics *HTTPServerMetrics
}

// InstrumentBlogCache counts cache hits and misses. Lookup errors count as misses.
func InstrumentBlogCache(next ports.BlogCache, m *HTTPServerMetrics) ports.BlogCache {
	if m == nil {
		return next
	}
	return &instrumentedBlogCache{BlogCache: next, metrics: m}
}

func (c *instrumentedBlogCache) Get(ctx context.Context, query string) ([]domain.BlogPost, bool, error) {
	posts, ok, err := c.BlogCache.Get(ctx, query)
	c.metrics.RecordCacheLookup(ok && err == nil)
	return posts, ok, err
}
