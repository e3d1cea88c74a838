package usecase

import (
	"html"
	"sort"
	"strings"

	"github.com/curamai/sitesearch/internal/core/domain"
	"github.com/curamai/sitesearch/internal/core/relevance"
)

const (
	badgeLocal  = "Protocol Documentation"
	badgeRemote = "Blog Post"

	headerWebsite = "Website Pages"
	headerBlog    = "Blog Articles"

	noResultsTitle   = "No results found"
	noResultsMessage = "Try rephrasing your question or use one of the example queries above."
	irrelevantTitle  = "Query Outside Search Domain"
	emptyQueryNotice = "Please enter a search query"
	genericFailure   = "An error occurred. Please try again."
)

// Renderer maps ranked results to a View. It never touches a page.
type Renderer struct {
	supportedTopics []string
}

func NewRenderer(supportedTopics []string) *Renderer {
	topics := make([]string, len(supportedTopics))
	copy(topics, supportedTopics)
	return &Renderer{supportedTopics: topics}
}

// Render sorts results by descending score (stable) and builds one card per
// result. An empty set yields the no-results state.
func (r *Renderer) Render(results []domain.Result, query string) domain.View {
	if len(results) == 0 {
		return domain.View{
			State:   domain.ViewNoResults,
			Query:   html.EscapeString(query),
			Title:   noResultsTitle,
			Message: noResultsMessage,
		}
	}

	ordered := make([]domain.Result, len(results))
	copy(ordered, results)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})

	cards := make([]domain.ResultCard, 0, len(ordered))
	for _, result := range ordered {
		percent := relevance.RelevancePercent(result.Score)
		badge := badgeLocal
		if result.Provenance == domain.ProvenanceRemote {
			badge = badgeRemote
		}
		cards = append(cards, domain.ResultCard{
			Provenance:       result.Provenance,
			Badge:            badge,
			AnswerHTML:       result.AnswerHTML,
			Sources:          result.Sources,
			Date:             result.Date,
			Score:            result.Score,
			RelevancePercent: percent,
			RelevanceLabel:   relevance.RelevanceLabel(percent),
		})
	}
	return domain.View{
		State: domain.ViewResults,
		Query: html.EscapeString(query),
		Cards: cards,
	}
}

func (r *Renderer) RenderIrrelevant(query string) domain.View {
	escaped := html.EscapeString(query)
	topics := make([]string, len(r.supportedTopics))
	copy(topics, r.supportedTopics)
	return domain.View{
		State:           domain.ViewIrrelevantQuery,
		Query:           escaped,
		Title:           irrelevantTitle,
		Message:         `Your search "` + escaped + `" doesn't appear to be related to AI automation, document intelligence, or the Curam-Ai Protocol.`,
		SupportedTopics: topics,
	}
}

func (r *Renderer) RenderEmpty() domain.View {
	return domain.View{State: domain.ViewEmptyQuery, Message: emptyQueryNotice}
}

func (r *Renderer) RenderError(query, message string) domain.View {
	if strings.TrimSpace(message) == "" {
		message = genericFailure
	}
	return domain.View{State: domain.ViewError, Query: html.EscapeString(query), Message: message}
}

// RenderSources groups sources website first, then blog. Sources of any other
// type are not shown.
func (r *Renderer) RenderSources(answer string, sources []domain.RemoteSource, isUpdate bool) domain.SourcesView {
	items := make([]domain.SourceItem, 0, len(sources))
	for _, source := range sources {
		items = append(items, domain.SourceItem{RemoteSource: source, New: isUpdate})
	}
	return groupSources(answer, items, isUpdate)
}

// MergeSources keeps every source already on screen and appends the incoming
// ones that are not, flagged as new.
func (r *Renderer) MergeSources(current *domain.SourcesView, answer string, incoming []domain.RemoteSource) domain.SourcesView {
	items := make([]domain.SourceItem, 0, len(incoming))
	seen := make(map[string]struct{}, len(incoming))
	previousAnswer := ""
	if current != nil {
		previousAnswer = current.AnswerHTML
		for _, group := range current.Groups {
			for _, item := range group.Sources {
				item.New = false
				seen[sourceKey(item.RemoteSource)] = struct{}{}
				items = append(items, item)
			}
		}
	}
	for _, source := range incoming {
		key := sourceKey(source)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		items = append(items, domain.SourceItem{RemoteSource: source, New: true})
	}
	if strings.TrimSpace(answer) == "" {
		answer = previousAnswer
	}
	return groupSources(answer, items, true)
}

func groupSources(answer string, items []domain.SourceItem, isUpdate bool) domain.SourcesView {
	website := make([]domain.SourceItem, 0, len(items))
	blog := make([]domain.SourceItem, 0, len(items))
	for _, item := range items {
		switch item.Type {
		case domain.SourceWebsite:
			website = append(website, item)
		case domain.SourceBlog:
			blog = append(blog, item)
		}
	}

	view := domain.SourcesView{AnswerHTML: answer, IsUpdate: isUpdate}
	if len(website) > 0 {
		view.Groups = append(view.Groups, domain.SourceGroup{Header: headerWebsite, Type: domain.SourceWebsite, Sources: website})
	}
	if len(blog) > 0 {
		view.Groups = append(view.Groups, domain.SourceGroup{Header: headerBlog, Type: domain.SourceBlog, Sources: blog})
	}
	view.Empty = len(view.Groups) == 0
	return view
}

func sourceKey(source domain.RemoteSource) string {
	if link := strings.TrimSpace(source.Link); link != "" {
		return link
	}
	return strings.ToLower(strings.TrimSpace(source.Title))
}
