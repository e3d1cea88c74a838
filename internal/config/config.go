package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	APIPort  string
	LogLevel string

	KnowledgeBasePath string
	KBSimulatedDelay  time.Duration
	SearchMaxResults  int
	SearchMinScore    int

	BlogSearchEnabled   bool
	WordPressBlogURLs   []string
	WordPressPerPage    int
	WordPressTimeout    time.Duration
	BlogSearchMessage   string
	BlogCacheTTL        time.Duration
	RemoteSearchURL     string
	RemoteSearchTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	NATSURL     string
	NATSSubject string

	APIRateLimitRPS        float64
	APIRateLimitBurst      int
	APIBackpressureMax     int
	APIBackpressureWait    time.Duration
	APIRequestValidation   bool
	NotificationTTL        time.Duration
	ResilienceRetries      int
	ResilienceBackoff      time.Duration
	ResilienceBreaker      bool
	ResilienceBreakerMin   int
	ResilienceBreakerRatio float64
	ResilienceOpenTimeout  time.Duration
}

func Load() Config {
	return Config{
		APIPort:  mustEnv("API_PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		KnowledgeBasePath: mustEnv("KNOWLEDGE_BASE_PATH", ""),
		KBSimulatedDelay:  time.Duration(mustEnvInt("KB_SIMULATED_LATENCY_MS", 0)) * time.Millisecond,
		SearchMaxResults:  mustEnvInt("SEARCH_MAX_RESULTS", 3),
		SearchMinScore:    mustEnvInt("SEARCH_MIN_SCORE", 15),

		BlogSearchEnabled:   mustEnvBool("BLOG_SEARCH_ENABLED", true),
		WordPressBlogURLs:   mustEnvList("WORDPRESS_BLOG_URLS", "https://blog.curam-ai.com.au,https://www.curam-ai.com.au,https://curam-ai.com.au"),
		WordPressPerPage:    mustEnvInt("WORDPRESS_PER_PAGE", 5),
		WordPressTimeout:    time.Duration(mustEnvInt("WORDPRESS_TIMEOUT_SECONDS", 10)) * time.Second,
		BlogSearchMessage:   mustEnv("BLOG_SEARCH_MESSAGE", "Searching blog articles for additional information..."),
		BlogCacheTTL:        time.Duration(mustEnvInt("BLOG_CACHE_TTL_SECONDS", 600)) * time.Second,
		RemoteSearchURL:     mustEnv("REMOTE_SEARCH_URL", ""),
		RemoteSearchTimeout: time.Duration(mustEnvInt("REMOTE_SEARCH_TIMEOUT_SECONDS", 30)) * time.Second,

		RedisAddr:     mustEnv("REDIS_ADDR", ""),
		RedisPassword: mustEnv("REDIS_PASSWORD", ""),
		RedisDB:       mustEnvInt("REDIS_DB", 0),

		NATSURL:     mustEnv("NATS_URL", ""),
		NATSSubject: mustEnv("NATS_SUBJECT", "sitesearch.search.performed"),

		APIRateLimitRPS:        mustEnvFloat("API_RATE_LIMIT_RPS", 20),
		APIRateLimitBurst:      mustEnvInt("API_RATE_LIMIT_BURST", 40),
		APIBackpressureMax:     mustEnvInt("API_BACKPRESSURE_MAX_IN_FLIGHT", 64),
		APIBackpressureWait:    time.Duration(mustEnvInt("API_BACKPRESSURE_WAIT_MS", 250)) * time.Millisecond,
		APIRequestValidation:   mustEnvBool("API_REQUEST_VALIDATION", true),
		NotificationTTL:        time.Duration(mustEnvInt("NOTIFICATION_TTL_MS", 3000)) * time.Millisecond,
		ResilienceRetries:      mustEnvInt("RESILIENCE_RETRY_MAX_ATTEMPTS", 1),
		ResilienceBackoff:      time.Duration(mustEnvInt("RESILIENCE_RETRY_INITIAL_BACKOFF_MS", 100)) * time.Millisecond,
		ResilienceBreaker:      mustEnvBool("RESILIENCE_BREAKER_ENABLED", true),
		ResilienceBreakerMin:   mustEnvInt("RESILIENCE_BREAKER_MIN_REQUESTS", 5),
		ResilienceBreakerRatio: mustEnvFloat("RESILIENCE_BREAKER_FAILURE_RATIO", 0.6),
		ResilienceOpenTimeout:  time.Duration(mustEnvInt("RESILIENCE_BREAKER_OPEN_TIMEOUT_SECONDS", 30)) * time.Second,
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func mustEnvList(key, fallback string) []string {
	raw := mustEnv(key, fallback)
	out := make([]string, 0, 4)
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
