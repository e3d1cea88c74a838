package domain

// ViewState is the user-facing outcome of a search.
type ViewState string

const (
	ViewResults         ViewState = "results"
	ViewNoResults       ViewState = "no_results"
	ViewIrrelevantQuery ViewState = "irrelevant_query"
	ViewEmptyQuery      ViewState = "empty_query"
	ViewError           ViewState = "error"
)

const (
	LabelHigh   = "High Relevance"
	LabelMedium = "Medium Relevance"
	LabelLow    = "Low Relevance"
)

type ResultCard struct {
	Provenance       Provenance `json:"provenance"`
	Badge            string     `json:"badge"`
	AnswerHTML       string     `json:"answer_html"`
	Sources          []Source   `json:"sources"`
	Date             string     `json:"date,omitempty"`
	Score            int        `json:"score"`
	RelevancePercent int        `json:"relevance_percent"`
	RelevanceLabel   string     `json:"relevance_label"`
}

// View describes what to display. Writing it to a page is the caller's job.
type View struct {
	State           ViewState    `json:"state"`
	Query           string       `json:"query"`
	Title           string       `json:"title,omitempty"`
	Message         string       `json:"message,omitempty"`
	Cards           []ResultCard `json:"cards,omitempty"`
	SupportedTopics []string     `json:"supported_topics,omitempty"`
}

type SourceItem struct {
	RemoteSource
	New bool `json:"new,omitempty"`
}

type SourceGroup struct {
	Header  string       `json:"header"`
	Type    SourceType   `json:"type"`
	Sources []SourceItem `json:"sources"`
}

// SourcesView is the answer plus sources grouped by provenance, as shown by
// the progressive search page.
type SourcesView struct {
	AnswerHTML string        `json:"answer_html"`
	Groups     []SourceGroup `json:"groups,omitempty"`
	Empty      bool          `json:"empty"`
	IsUpdate   bool          `json:"is_update"`
}
