package ports

import (
	"context"
	"time"

	"github.com/curamai/sitesearch/internal/core/domain"
)

// BlogSearcher queries the third-party blog content search.
type BlogSearcher interface {
	SearchPosts(ctx context.Context, query string) ([]domain.BlogPost, error)
}

// BlogCache stores blog search results keyed by query.
type BlogCache interface {
	Get(ctx context.Context, query string) ([]domain.BlogPost, bool, error)
	Set(ctx context.Context, query string, posts []domain.BlogPost, ttl time.Duration) error
}

// EventPublisher hands search events to the analytics collaborator.
type EventPublisher interface {
	PublishSearch(ctx context.Context, event domain.SearchEvent) error
}

// Presenter receives session snapshots. It is the only place that touches
// presentation state.
type Presenter interface {
	Present(session domain.SearchSession)
}

// TextSanitizer turns an HTML fragment into plain text.
type TextSanitizer interface {
	PlainText(fragment string) string
}
