package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	mcpadapter "github.com/curamai/sitesearch/internal/adapters/mcp"
	"github.com/curamai/sitesearch/internal/bootstrap"
	"github.com/curamai/sitesearch/internal/config"
	"github.com/curamai/sitesearch/internal/observability/logging"
)

var version = "dev"

// The stdio transport owns stdout, so logs go to stderr.
func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLoggerTo(os.Stderr, "mcp", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, "mcp")
	if err != nil {
		slog.Error("bootstrap_error", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := mcpadapter.New(app.SearchUC, app.Sanitizer).ServeStdio(version); err != nil {
		slog.Error("mcp_serve_error", "error", err)
	}
}
