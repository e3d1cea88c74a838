package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/curamai/sitesearch/internal/bootstrap"
	"github.com/curamai/sitesearch/internal/config"
	"github.com/curamai/sitesearch/internal/observability/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "searchctl",
		Short:        "Query the site search engine from the terminal",
		SilenceUsage: true,
	}
	root.AddCommand(queryCmd(), progressiveCmd())
	return root
}

// newApp wires the engine with logs on stderr so stdout stays machine readable.
func newApp(ctx context.Context) (*bootstrap.App, error) {
	cfg := config.Load()
	logger := logging.NewJSONLoggerTo(os.Stderr, "searchctl", cfg.LogLevel)
	slog.SetDefault(logger)
	return bootstrap.New(ctx, cfg, "searchctl")
}

func queryCmd() *cobra.Command {
	var combined bool
	var format string
	cmd := &cobra.Command{
		Use:   "query [text...]",
		Short: "Run a single-shot search and print the rendered view",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			query := strings.Join(args, " ")
			search := app.SearchUC.Search
			if combined {
				search = app.SearchUC.CombinedSearch
			}
			view, err := search(ctx, query)
			if err != nil {
				return err
			}

			switch format {
			case "json":
				return writeJSONLine(cmd.OutOrStdout(), view)
			case "text":
				_, err := fmt.Fprint(cmd.OutOrStdout(), formatView(view, app.Sanitizer))
				return err
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}
	cmd.Flags().BoolVar(&combined, "combined", false, "append blog posts to the knowledge base results")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or json")
	return cmd
}

func progressiveCmd() *cobra.Command {
	var backendURL string
	cmd := &cobra.Command{
		Use:   "progressive [text...]",
		Short: "Run the two-phase search and stream every session snapshot as JSON lines",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			if backendURL == "" {
				backendURL = app.Config.RemoteSearchURL
			}
			presenter := newJSONLinesPresenter(cmd.OutOrStdout())
			search := app.NewProgressiveSearch(app.Backend(backendURL), presenter)

			search.Submit(ctx, strings.Join(args, " "))
			search.Wait()
			return presenter.Err()
		},
	}
	cmd.Flags().StringVar(&backendURL, "backend", "", "base URL of a remote search API (default REMOTE_SEARCH_URL, in-process when empty)")
	return cmd
}
