package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/curamai/sitesearch/internal/core/domain"
	"github.com/curamai/sitesearch/internal/core/ports"
)

func writeJSONLine(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

// jsonLinesPresenter writes one session snapshot per line. The orchestrator
// presents from its phase-two goroutine, so writes are serialized.
type jsonLinesPresenter struct {
	mu  sync.Mutex
	w   io.Writer
	err error
}

func newJSONLinesPresenter(w io.Writer) *jsonLinesPresenter {
	return &jsonLinesPresenter{w: w}
}

func (p *jsonLinesPresenter) Present(session domain.SearchSession) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return
	}
	p.err = writeJSONLine(p.w, session)
}

func (p *jsonLinesPresenter) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func formatView(view domain.View, sanitizer ports.TextSanitizer) string {
	var b strings.Builder
	switch view.State {
	case domain.ViewResults:
		fmt.Fprintf(&b, "%d result(s) for %q\n", len(view.Cards), view.Query)
		for i, card := range view.Cards {
			fmt.Fprintf(&b, "\n%d. [%s] %s (%d%%)\n", i+1, card.Badge, card.RelevanceLabel, card.RelevancePercent)
			if card.Date != "" {
				fmt.Fprintf(&b, "   %s\n", card.Date)
			}
			fmt.Fprintf(&b, "   %s\n", sanitizer.PlainText(card.AnswerHTML))
			for _, source := range card.Sources {
				fmt.Fprintf(&b, "   - %s %s\n", source.Title, source.URL)
			}
		}
	default:
		if view.Title != "" {
			fmt.Fprintf(&b, "%s\n", view.Title)
		}
		if view.Message != "" {
			fmt.Fprintf(&b, "%s\n", sanitizer.PlainText(view.Message))
		}
		for _, topic := range view.SupportedTopics {
			fmt.Fprintf(&b, "  - %s\n", topic)
		}
	}
	return b.String()
}
