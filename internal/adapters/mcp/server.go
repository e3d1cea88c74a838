package mcpadapter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/curamai/sitesearch/internal/core/domain"
	"github.com/curamai/sitesearch/internal/core/ports"
)

const (
	ToolName = "site_search"

	modeLocal    = "local"
	modeCombined = "combined"
)

// Server exposes the site search as an MCP tool.
type Server struct {
	search    ports.SiteSearcher
	sanitizer ports.TextSanitizer
}

func New(search ports.SiteSearcher, sanitizer ports.TextSanitizer) *Server {
	return &Server{search: search, sanitizer: sanitizer}
}

func (s *Server) MCPServer(version string) *server.MCPServer {
	srv := server.NewMCPServer("sitesearch", version, server.WithToolCapabilities(false))
	srv.AddTool(searchTool(), s.handleSearch)
	return srv
}

// ServeStdio blocks until stdin is closed.
func (s *Server) ServeStdio(version string) error {
	return server.ServeStdio(s.MCPServer(version))
}

func searchTool() mcp.Tool {
	return mcp.NewTool(ToolName,
		mcp.WithDescription("Search the Curam-Ai knowledge base and blog for answers about the Protocol, pricing, ROI and document automation."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Natural language question."),
		),
		mcp.WithString("mode",
			mcp.Description("local searches the knowledge base only; combined also searches the blog."),
			mcp.Enum(modeLocal, modeCombined),
		),
	)
}

func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query is required"), nil
	}

	search := s.search.CombinedSearch
	if request.GetString("mode", modeCombined) == modeLocal {
		search = s.search.Search
	}
	view, err := search(ctx, query)
	if err != nil {
		slog.Warn("mcp_search_failed", "query", query, "error", err)
		return mcp.NewToolResultError("search failed, try again later"), nil
	}
	return mcp.NewToolResultText(s.formatView(view)), nil
}

func (s *Server) formatView(view domain.View) string {
	var b strings.Builder
	switch view.State {
	case domain.ViewEmptyQuery:
		b.WriteString(view.Message)
	case domain.ViewNoResults:
		b.WriteString(view.Title + ". " + view.Message)
	case domain.ViewIrrelevantQuery:
		b.WriteString(view.Title + ". " + s.sanitizer.PlainText(view.Message))
		if len(view.SupportedTopics) > 0 {
			b.WriteString("\nSupported topics:")
			for _, topic := range view.SupportedTopics {
				b.WriteString("\n- " + topic)
			}
		}
	default:
		for i, card := range view.Cards {
			if i > 0 {
				b.WriteString("\n\n")
			}
			fmt.Fprintf(&b, "%d. [%s] %s (%d%%)", i+1, card.Badge, card.RelevanceLabel, card.RelevancePercent)
			if card.Date != "" {
				b.WriteString(" " + card.Date)
			}
			b.WriteString("\n" + s.sanitizer.PlainText(card.AnswerHTML))
			for _, source := range card.Sources {
				fmt.Fprintf(&b, "\n  source: %s <%s>", source.Title, source.URL)
			}
		}
	}
	return b.String()
}
