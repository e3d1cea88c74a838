package usecase

import (
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/curamai/sitesearch/internal/core/domain"
)

const (
	contentFallbackRunes = 300
	websiteExcerptRunes  = 200
	postDateLayout       = "2 Jan 2006"
)

var wordpressDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// blogResult maps a post into a remote result carrying the baseline score.
func blogResult(post domain.BlogPost) domain.Result {
	answer := strings.TrimSpace(post.Excerpt)
	if answer == "" {
		answer = truncateRunes(strings.TrimSpace(post.Content), contentFallbackRunes) + "..."
	}
	return domain.Result{
		Provenance: domain.ProvenanceRemote,
		Type:       domain.SourceBlog,
		AnswerHTML: html.EscapeString(answer),
		Sources:    []domain.Source{{Title: post.Title, URL: post.Link}},
		Score:      domain.RemoteBaselineScore,
		Date:       formatPostDate(post.Date),
	}
}

func blogSource(post domain.BlogPost) domain.RemoteSource {
	excerpt := strings.TrimSpace(post.Excerpt)
	if excerpt == "" {
		excerpt = truncateRunes(strings.TrimSpace(post.Content), websiteExcerptRunes)
	}
	return domain.RemoteSource{
		Title:   post.Title,
		Link:    post.Link,
		Excerpt: excerpt,
		Type:    domain.SourceBlog,
		Date:    formatPostDate(post.Date),
	}
}

// formatPostDate renders a WordPress date as "5 Mar 2025". Unparseable values
// are returned unchanged.
func formatPostDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range wordpressDateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.Format(postDateLayout)
		}
	}
	return raw
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
