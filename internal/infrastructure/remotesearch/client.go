package remotesearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/curamai/sitesearch/internal/core/domain"
	"github.com/curamai/sitesearch/internal/infrastructure/resilience"
)

const (
	fastPath     = "/api/search-blog"
	completePath = "/api/search-blog-complete"
	serviceName  = "search backend"
)

// Client talks to a search API over the two-phase JSON contract.
type Client struct {
	baseURL    string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL string, timeout time.Duration, executor *resilience.Executor) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if executor == nil {
		executor = resilience.NewExecutor(resilience.DefaultConfig())
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		executor:   executor,
	}
}

type searchRequest struct {
	Query string `json:"query"`
}

// SearchFast returns the backend's own error message as a payload when it
// rejects the query, so the caller can show it.
func (c *Client) SearchFast(ctx context.Context, query string) (*domain.FastSearchResponse, error) {
	var out domain.FastSearchResponse
	err := c.executor.Execute(ctx, "search.fast", func(callCtx context.Context) error {
		return c.postJSON(callCtx, fastPath, searchRequest{Query: query}, &out, "fast")
	}, resilience.ClassifyHTTP)
	if err != nil {
		if message := backendMessage(err); message != "" {
			return &domain.FastSearchResponse{Query: query, Error: message}, nil
		}
		return nil, resilience.WrapUpstream("search fast", err)
	}
	if out.Sources == nil {
		out.Sources = []domain.RemoteSource{}
	}
	return &out, nil
}

func (c *Client) SearchComplete(ctx context.Context, query string) (*domain.CompleteSearchResponse, error) {
	var out domain.CompleteSearchResponse
	err := c.executor.Execute(ctx, "search.complete", func(callCtx context.Context) error {
		return c.postJSON(callCtx, completePath, searchRequest{Query: query}, &out, "complete")
	}, resilience.ClassifyHTTP)
	if err != nil {
		return nil, resilience.WrapUpstream("search complete", err)
	}
	if out.Sources == nil {
		out.Sources = []domain.RemoteSource{}
	}
	return &out, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, out any, operation string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("search %s request: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return resilience.NewHTTPStatusError(serviceName, operation, resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}

// backendMessage extracts {"error": "..."} from a 4xx response.
func backendMessage(err error) string {
	var statusErr *resilience.HTTPStatusError
	if !errors.As(err, &statusErr) {
		return ""
	}
	if statusErr.StatusCode < 400 || statusErr.StatusCode >= 500 {
		return ""
	}
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal([]byte(statusErr.Body), &payload) != nil {
		return ""
	}
	return strings.TrimSpace(payload.Error)
}
