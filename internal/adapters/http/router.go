package httpadapter

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/curamai/sitesearch/internal/core/domain"
	"github.com/curamai/sitesearch/internal/core/ports"
	"github.com/curamai/sitesearch/internal/observability/metrics"
)

const maxRequestBytes = 16 << 10

type Options struct {
	RateLimitRPS     float64
	RateLimitBurst   int
	MaxInFlight      int
	BackpressureWait time.Duration
	ValidateRequests bool
	Metrics          *metrics.HTTPServerMetrics
}

type Router struct {
	search  ports.SiteSearcher
	backend ports.ProgressiveBackend
	opts    Options
}

func NewRouter(search ports.SiteSearcher, backend ports.ProgressiveBackend, opts Options) *Router {
	return &Router{search: search, backend: backend, opts: opts}
}

// Handler builds the middleware chain. Metrics sit closest to the mux so the
// matched route pattern is visible to them.
func (rt *Router) Handler() (http.Handler, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("GET /openapi.yaml", rt.openapiDocument)
	mux.HandleFunc("POST /v1/search", rt.searchView)
	mux.HandleFunc("POST /api/search-blog", rt.searchFast)
	mux.HandleFunc("POST /api/search-blog-complete", rt.searchComplete)
	if rt.opts.Metrics != nil {
		mux.Handle("GET /metrics", rt.opts.Metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.opts.Metrics != nil {
		handler = rt.opts.Metrics.Middleware(handler)
	}
	if rt.opts.ValidateRequests {
		validator, err := newRequestValidator()
		if err != nil {
			return nil, err
		}
		handler = validator.middleware(handler)
	}
	handler = backpressureMiddleware(handler, rt.opts.MaxInFlight, rt.opts.BackpressureWait)
	handler = rateLimitMiddleware(handler, rt.opts.RateLimitRPS, rt.opts.RateLimitBurst)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler, nil
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) openapiDocument(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openapiSpec)
}

type searchRequest struct {
	Query string `json:"query"`
	Mode  string `json:"mode"`
}

func decodeSearchRequest(w http.ResponseWriter, r *http.Request) (searchRequest, bool) {
	var req searchRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && err != io.EOF {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return req, false
	}
	req.Query = strings.TrimSpace(req.Query)
	return req, true
}

// searchView serves the rendered view. mode=local skips the blog.
func (rt *Router) searchView(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSearchRequest(w, r)
	if !ok {
		return
	}

	start := time.Now()
	search := rt.search.CombinedSearch
	endpoint := "combined"
	if req.Mode == "local" {
		search = rt.search.Search
		endpoint = "local"
	}
	view, err := search(r.Context(), req.Query)
	if err != nil {
		rt.recordSearch(endpoint, "error", 0, start)
		rt.writeError(w, r, err)
		return
	}
	rt.recordSearch(endpoint, string(view.State), len(view.Cards), start)
	writeJSON(w, http.StatusOK, view)
}

func (rt *Router) searchFast(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSearchRequest(w, r)
	if !ok {
		return
	}

	start := time.Now()
	resp, err := rt.backend.SearchFast(r.Context(), req.Query)
	if err != nil {
		rt.recordSearch("fast", "error", 0, start)
		rt.writeError(w, r, err)
		return
	}
	rt.recordSearch("fast", string(resp.State), len(resp.Sources), start)
	writeJSON(w, http.StatusOK, resp)
}

func (rt *Router) searchComplete(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSearchRequest(w, r)
	if !ok {
		return
	}

	start := time.Now()
	resp, err := rt.backend.SearchComplete(r.Context(), req.Query)
	if err != nil {
		rt.recordSearch("complete", "error", 0, start)
		if resp != nil {
			slog.Warn("search_complete_degraded", "query", req.Query, "error", err)
			writeJSON(w, mapErrorToHTTPStatus(err), resp)
			return
		}
		rt.writeError(w, r, err)
		return
	}
	state := domain.ViewResults
	if len(resp.Sources) == 0 {
		state = domain.ViewNoResults
	}
	rt.recordSearch("complete", string(state), len(resp.Sources), start)
	writeJSON(w, http.StatusOK, resp)
}

func (rt *Router) recordSearch(endpoint, state string, sources int, start time.Time) {
	if rt.opts.Metrics != nil {
		rt.opts.Metrics.RecordSearch(endpoint, state, sources, time.Since(start))
	}
}

func (rt *Router) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error("search_failed", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": errorMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
