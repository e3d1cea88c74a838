package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/curamai/sitesearch/internal/config"
	"github.com/curamai/sitesearch/internal/core/domain"
	"github.com/curamai/sitesearch/internal/infrastructure/queue/nats"
	"github.com/curamai/sitesearch/internal/observability/logging"
)

// worker consumes search events and writes them to the structured log, where
// the analytics pipeline picks them up.
func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger("worker", cfg.LogLevel)
	slog.SetDefault(logger)

	if cfg.NATSURL == "" {
		slog.Error("worker_config_error", "error", "NATS_URL is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events, err := nats.Connect(cfg.NATSURL, cfg.NATSSubject, nats.Options{})
	if err != nil {
		slog.Error("worker_connect_error", "error", err)
		os.Exit(1)
	}
	defer events.Close()

	slog.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = events.Subscribe(ctx, func(event domain.SearchEvent) {
		logger.Info("search_event",
			"id", event.ID,
			"request_id", event.RequestID,
			"search_type", event.SearchType,
			"query", event.Query,
			"results_count", event.ResultsCount,
			"sources", event.Sources,
			"occurred_at", event.OccurredAt,
		)
	})
	if err != nil {
		slog.Error("worker_subscribe_error", "error", err)
		os.Exit(1)
	}
}
