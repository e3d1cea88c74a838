package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sitesearch"

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	searchTotal      *prometheus.CounterVec
	searchSources    *prometheus.HistogramVec
	searchDuration   *prometheus.HistogramVec
	blogCallsTotal   *prometheus.CounterVec
	blogCallDuration prometheus.Histogram
	blogCacheTotal   *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()
	constLabels := prometheus.Labels{"service": service}

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "Total HTTP requests processed.",
			ConstLabels: constLabels,
		},
		[]string{"method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "request_duration_seconds",
			Help:        "HTTP request duration in seconds.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		},
		[]string{"method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "in_flight_requests",
			Help:        "Number of in-flight HTTP requests.",
			ConstLabels: constLabels,
		},
	)
	searchTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "search",
			Name:        "requests_total",
			Help:        "Searches served by endpoint and outcome state.",
			ConstLabels: constLabels,
		},
		[]string{"endpoint", "state"},
	)
	searchSources := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "search",
			Name:        "sources",
			Help:        "Distribution of sources returned per search.",
			Buckets:     []float64{0, 1, 2, 3, 5, 8, 13},
			ConstLabels: constLabels,
		},
		[]string{"endpoint"},
	)
	searchDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "search",
			Name:        "duration_seconds",
			Help:        "Search execution duration in seconds.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		},
		[]string{"endpoint"},
	)
	blogCallsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "blog",
			Name:        "calls_total",
			Help:        "Blog searches by status.",
			ConstLabels: constLabels,
		},
		[]string{"status"},
	)
	blogCallDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "blog",
			Name:        "call_duration_seconds",
			Help:        "Blog search latency in seconds.",
			Buckets:     []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			ConstLabels: constLabels,
		},
	)
	blogCacheTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "blog",
			Name:        "cache_lookups_total",
			Help:        "Blog cache lookups by result.",
			ConstLabels: constLabels,
		},
		[]string{"result"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		searchTotal,
		searchSources,
		searchDuration,
		blogCallsTotal,
		blogCallDuration,
		blogCacheTotal,
	)

	return &HTTPServerMetrics{
		registry:         registry,
		requestTotal:     requestTotal,
		requestDuration:  requestDuration,
		requestInFlight:  requestInFlight,
		searchTotal:      searchTotal,
		searchSources:    searchSources,
		searchDuration:   searchDuration,
		blogCallsTotal:   blogCallsTotal,
		blogCallDuration: blogCallDuration,
		blogCacheTotal:   blogCacheTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		path := r.URL.Path
		if r.Pattern == "" {
			// Unmatched paths share one series.
			path = "unmatched"
		}
		m.requestTotal.WithLabelValues(r.Method, path, strconv.Itoa(recorder.statusCode)).Inc()
		m.requestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// RecordSearch counts one served search. state is the view state, or "error".
func (m *HTTPServerMetrics) RecordSearch(endpoint, state string, sourceCount int, duration time.Duration) {
	if state == "" {
		state = "unknown"
	}
	m.searchTotal.WithLabelValues(endpoint, state).Inc()
	m.searchSources.WithLabelValues(endpoint).Observe(float64(sourceCount))
	m.searchDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) RecordBlogCall(err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.blogCallsTotal.WithLabelValues(status).Inc()
	m.blogCallDuration.Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.blogCacheTotal.WithLabelValues(result).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}
