package wordpress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/curamai/sitesearch/internal/core/domain"
	"github.com/curamai/sitesearch/internal/core/ports"
	"github.com/curamai/sitesearch/internal/infrastructure/resilience"
)

const (
	postsPath    = "/wp-json/wp/v2/posts"
	postFields   = "id,title,content,excerpt,link,date"
	probeTimeout = 5 * time.Second
	serviceName  = "wordpress"
)

var errNoReachableBlog = errors.New("no reachable blog endpoint")

type Config struct {
	// BaseURLs are tried in order; the first one that answers a probe is used.
	BaseURLs []string
	PerPage  int
	Timeout  time.Duration
}

// Client searches WordPress posts through the REST API.
type Client struct {
	candidates []string
	perPage    int
	httpClient *http.Client
	executor   *resilience.Executor
	sanitizer  ports.TextSanitizer

	mu       sync.Mutex
	resolved string
}

func New(cfg Config, executor *resilience.Executor, sanitizer ports.TextSanitizer) *Client {
	candidates := make([]string, 0, len(cfg.BaseURLs))
	seen := make(map[string]struct{}, len(cfg.BaseURLs))
	for _, raw := range cfg.BaseURLs {
		base := strings.TrimRight(strings.TrimSpace(raw), "/")
		if base == "" {
			continue
		}
		if _, ok := seen[base]; ok {
			continue
		}
		seen[base] = struct{}{}
		candidates = append(candidates, base)
	}
	if cfg.PerPage <= 0 {
		cfg.PerPage = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if executor == nil {
		executor = resilience.NewExecutor(resilience.DefaultConfig())
	}
	return &Client{
		candidates: candidates,
		perPage:    cfg.PerPage,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		executor:   executor,
		sanitizer:  sanitizer,
	}
}

// SearchPosts returns at most PerPage posts for query, ranked by how closely
// their title, excerpt and content match it.
func (c *Client) SearchPosts(ctx context.Context, query string) ([]domain.BlogPost, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.BlogPost{}, nil
	}

	base, err := c.baseURL(ctx)
	if err != nil {
		return nil, domain.WrapError(domain.ErrUpstream, "wordpress resolve", err)
	}

	params := url.Values{}
	params.Set("search", query)
	params.Set("per_page", strconv.Itoa(c.perPage))
	params.Set("_fields", postFields)

	raw, err := resilience.Call(ctx, c.executor, "wordpress.search", func(callCtx context.Context) ([]wpPost, error) {
		var posts []wpPost
		if err := c.getJSON(callCtx, base+postsPath+"?"+params.Encode(), &posts, "search"); err != nil {
			return nil, err
		}
		return posts, nil
	}, resilience.ClassifyHTTP)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.forget(base)
		}
		return nil, resilience.WrapUpstream("wordpress search", err)
	}

	posts := make([]domain.BlogPost, 0, len(raw))
	for _, post := range raw {
		posts = append(posts, post.toDomain(c.sanitizer))
	}
	posts = rankPosts(query, posts)
	if len(posts) > c.perPage {
		posts = posts[:c.perPage]
	}
	return posts, nil
}

// baseURL returns the cached endpoint or probes the candidates in order.
func (c *Client) baseURL(ctx context.Context) (string, error) {
	c.mu.Lock()
	resolved := c.resolved
	c.mu.Unlock()
	if resolved != "" {
		return resolved, nil
	}

	for _, candidate := range c.candidates {
		if err := c.probe(ctx, candidate); err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			slog.Warn("blog_endpoint_unreachable", "base_url", candidate, "error", err)
			continue
		}
		c.mu.Lock()
		c.resolved = candidate
		c.mu.Unlock()
		slog.Info("blog_endpoint_resolved", "base_url", candidate)
		return candidate, nil
	}
	return "", errNoReachableBlog
}

func (c *Client) probe(ctx context.Context, base string) error {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	var posts []json.RawMessage
	return c.getJSON(probeCtx, base+postsPath+"?per_page=1", &posts, "probe")
}

// forget drops a cached endpoint after a failure so the next search probes again.
func (c *Client) forget(base string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.resolved == base {
		c.resolved = ""
	}
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any, operation string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create %s request: %w", operation, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("wordpress %s request: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resilience.NewHTTPStatusError(serviceName, operation, resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}
