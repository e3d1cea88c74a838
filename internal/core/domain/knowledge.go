package domain

// Provenance tells where a result or a source came from.
type Provenance string

const (
	ProvenanceLocal  Provenance = "local"
	ProvenanceRemote Provenance = "remote"
)

// SourceType is the display grouping of a source.
type SourceType string

const (
	SourceWebsite SourceType = "website"
	SourceBlog    SourceType = "blog"
)

type Source struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`
}

// KnowledgeEntry is one curated record of the static knowledge base.
type KnowledgeEntry struct {
	Keywords   []string `json:"keywords" yaml:"keywords"`
	AnswerHTML string   `json:"answer_html" yaml:"answer"`
	Sources    []Source `json:"sources" yaml:"sources"`
}

type ScoredResult struct {
	Entry KnowledgeEntry `json:"entry"`
	Score int            `json:"score"`
}

// RemoteSource is a source received from the backend or the blog collaborator.
type RemoteSource struct {
	Title   string     `json:"title"`
	Link    string     `json:"link"`
	Excerpt string     `json:"excerpt,omitempty"`
	Type    SourceType `json:"type"`
	Date    string     `json:"date,omitempty"`
}

// BlogPost is the blog collaborator's post shape after HTML has been stripped.
type BlogPost struct {
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	Content string `json:"content"`
	Link    string `json:"link"`
	Date    string `json:"date"`
}

// Result is the renderer input: either a scored knowledge base entry or a
// remote post carrying the baseline score.
type Result struct {
	Provenance Provenance `json:"provenance"`
	Type       SourceType `json:"type"`
	AnswerHTML string     `json:"answer_html"`
	Sources    []Source   `json:"sources"`
	Score      int        `json:"score"`
	Date       string     `json:"date,omitempty"`
}

// RemoteBaselineScore is the fixed score given to every blog result.
const RemoteBaselineScore = 5

func (r ScoredResult) AsResult() Result {
	return Result{
		Provenance: ProvenanceLocal,
		Type:       SourceWebsite,
		AnswerHTML: r.Entry.AnswerHTML,
		Sources:    r.Entry.Sources,
		Score:      r.Score,
	}
}
