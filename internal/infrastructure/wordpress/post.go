package wordpress

import (
	"sort"
	"strings"

	"github.com/curamai/sitesearch/internal/core/domain"
	"github.com/curamai/sitesearch/internal/core/ports"
)

type rendered struct {
	Rendered string `json:"rendered"`
}

type wpPost struct {
	ID      int      `json:"id"`
	Title   rendered `json:"title"`
	Content rendered `json:"content"`
	Excerpt rendered `json:"excerpt"`
	Link    string   `json:"link"`
	Date    string   `json:"date"`
}

func (p wpPost) toDomain(sanitizer ports.TextSanitizer) domain.BlogPost {
	return domain.BlogPost{
		Title:   sanitizer.PlainText(p.Title.Rendered),
		Excerpt: sanitizer.PlainText(p.Excerpt.Rendered),
		Content: sanitizer.PlainText(p.Content.Rendered),
		Link:    strings.TrimSpace(p.Link),
		Date:    strings.TrimSpace(p.Date),
	}
}

// Per-field weights. A word in the title counts ten times a word in the body.
const (
	titleWordWeight     = 10
	excerptWordWeight   = 5
	contentWordWeight   = 1
	titlePhraseWeight   = 20
	excerptPhraseWeight = 10
	contentPhraseWeight = 5
)

// rankPosts orders posts by keyword overlap with the query. WordPress search
// matches any field, so a post that only mentions a word deep in its body can
// come back first.
func rankPosts(query string, posts []domain.BlogPost) []domain.BlogPost {
	phrase := strings.ToLower(strings.TrimSpace(query))
	words := make([]string, 0, 4)
	for _, word := range strings.Fields(phrase) {
		if len([]rune(word)) > 2 {
			words = append(words, word)
		}
	}
	if len(words) == 0 {
		words = strings.Fields(phrase)
	}

	scores := make([]int, len(posts))
	order := make([]int, len(posts))
	for i, post := range posts {
		order[i] = i
		scores[i] = postRelevance(phrase, words, post)
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	ranked := make([]domain.BlogPost, len(posts))
	for i, idx := range order {
		ranked[i] = posts[idx]
	}
	return ranked
}

func postRelevance(phrase string, words []string, post domain.BlogPost) int {
	title := strings.ToLower(post.Title)
	excerpt := strings.ToLower(post.Excerpt)
	content := strings.ToLower(post.Content)

	score := 0
	for _, word := range words {
		if strings.Contains(title, word) {
			score += titleWordWeight
		}
		if strings.Contains(excerpt, word) {
			score += excerptWordWeight
		}
		if strings.Contains(content, word) {
			score += contentWordWeight
		}
	}
	if strings.Contains(title, phrase) {
		score += titlePhraseWeight
	}
	if strings.Contains(excerpt, phrase) {
		score += excerptPhraseWeight
	}
	if strings.Contains(content, phrase) {
		score += contentPhraseWeight
	}
	return score
}
