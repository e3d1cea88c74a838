package mcpadapter

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/curamai/sitesearch/internal/core/domain"
	"github.com/curamai/sitesearch/internal/infrastructure/htmltext"
)

type searcherFake struct {
	view domain.View
	err  error
	mode string
}

func (f *searcherFake) Search(context.Context, string) (domain.View, error) {
	f.mode = modeLocal
	return f.view, f.err
}

func (f *searcherFake) CombinedSearch(context.Context, string) (domain.View, error) {
	f.mode = modeCombined
	return f.view, f.err
}

func callTool(t *testing.T, s *Server, args map[string]any) (*mcp.CallToolResult, string) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = ToolName
	req.Params.Arguments = args

	res, err := s.handleSearch(context.Background(), req)
	if err != nil {
		t.Fatalf("handleSearch() error = %v", err)
	}
	if len(res.Content) != 1 {
		t.Fatalf("expected one content item, got %d", len(res.Content))
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return res, text.Text
}

func TestSearchToolFormatsCards(t *testing.T) {
	searcher := &searcherFake{view: domain.View{
		State: domain.ViewResults,
		Cards: []domain.ResultCard{{
			Badge:            "Protocol Documentation",
			AnswerHTML:       "<p>Phase 1 is the <strong>Feasibility Sprint</strong>.</p>",
			Sources:          []domain.Source{{Title: "Phase 1", URL: "phase-1.html"}},
			RelevancePercent: 60,
			RelevanceLabel:   domain.LabelMedium,
		}},
	}}
	s := New(searcher, htmltext.New())

	res, text := callTool(t, s, map[string]any{"query": "phase 1 guarantee", "mode": "local"})
	if res.IsError {
		t.Fatalf("unexpected error result: %s", text)
	}
	if searcher.mode != modeLocal {
		t.Fatalf("expected local search, got %q", searcher.mode)
	}
	for _, want := range []string{"1. [Protocol Documentation] Medium Relevance (60%)", "Phase 1 is the Feasibility Sprint.", "source: Phase 1 <phase-1.html>"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in:\n%s", want, text)
		}
	}
}

func TestSearchToolIrrelevantListsTopics(t *testing.T) {
	searcher := &searcherFake{view: domain.View{
		State:           domain.ViewIrrelevantQuery,
		Title:           "Query Outside Search Domain",
		Message:         `Your search "pizza &amp; wine" is off topic.`,
		SupportedTopics: []string{"Pricing, guarantees, and ROI"},
	}}
	s := New(searcher, htmltext.New())

	_, text := callTool(t, s, map[string]any{"query": "pizza & wine"})
	if searcher.mode != modeCombined {
		t.Fatalf("expected combined search by default, got %q", searcher.mode)
	}
	if !strings.Contains(text, `"pizza & wine"`) || !strings.Contains(text, "- Pricing, guarantees, and ROI") {
		t.Fatalf("unexpected text:\n%s", text)
	}
}

func TestSearchToolErrors(t *testing.T) {
	s := New(&searcherFake{err: errors.New("boom")}, htmltext.New())

	res, _ := callTool(t, s, map[string]any{})
	if !res.IsError {
		t.Fatalf("expected error result for missing query")
	}
	res, text := callTool(t, s, map[string]any{"query": "roi"})
	if !res.IsError || strings.Contains(text, "boom") {
		t.Fatalf("expected sanitized error result, got %q", text)
	}
}
