package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/curamai/sitesearch/internal/core/domain"
	"github.com/curamai/sitesearch/internal/core/ports"
)

// CachedBlogSearcher serves repeated blog queries from a cache. Cache errors
// fall through to the blog.
type CachedBlogSearcher struct {
	next  ports.BlogSearcher
	cache ports.BlogCache
	ttl   time.Duration
}

func NewCachedBlogSearcher(next ports.BlogSearcher, cache ports.BlogCache, ttl time.Duration) *CachedBlogSearcher {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedBlogSearcher{next: next, cache: cache, ttl: ttl}
}

func (s *CachedBlogSearcher) SearchPosts(ctx context.Context, query string) ([]domain.BlogPost, error) {
	key := strings.ToLower(strings.TrimSpace(query))

	posts, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("blog_cache_get_failed", "error", err)
	}
	if ok {
		return posts, nil
	}

	posts, err = s.next.SearchPosts(ctx, query)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, posts, s.ttl); err != nil {
		slog.Warn("blog_cache_set_failed", "error", err)
	}
	return posts, nil
}
