package ports

import (
	"context"

	"github.com/curamai/sitesearch/internal/core/domain"
)

// SiteSearcher is the inbound contract for single-shot searches rendered to a view.
type SiteSearcher interface {
	Search(ctx context.Context, query string) (domain.View, error)
	CombinedSearch(ctx context.Context, query string) (domain.View, error)
}

// ProgressiveBackend is the two-phase search contract. It is served by the
// HTTP adapter and consumed by the orchestrator, either in process or remotely.
type ProgressiveBackend interface {
	SearchFast(ctx context.Context, query string) (*domain.FastSearchResponse, error)
	SearchComplete(ctx context.Context, query string) (*domain.CompleteSearchResponse, error)
}
