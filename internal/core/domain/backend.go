package domain

// FastSearchResponse is the phase-one backend payload.
type FastSearchResponse struct {
	Answer        string         `json:"answer"`
	Sources       []RemoteSource `json:"sources"`
	Query         string         `json:"query,omitempty"`
	SearchingBlog bool           `json:"searching_blog,omitempty"`
	Message       string         `json:"message,omitempty"`
	State         ViewState      `json:"state,omitempty"`
	Error         string         `json:"error,omitempty"`
}

// CompleteSearchResponse is the phase-two backend payload.
type CompleteSearchResponse struct {
	Answer   string         `json:"answer"`
	Sources  []RemoteSource `json:"sources"`
	Query    string         `json:"query,omitempty"`
	Complete bool           `json:"complete,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// SearchEvent is published for every server-side search.
type SearchEvent struct {
	ID           string   `json:"id"`
	Query        string   `json:"query"`
	SearchType   string   `json:"search_type"`
	ResultsCount int      `json:"results_count"`
	Sources      []string `json:"sources,omitempty"`
	RequestID    string   `json:"request_id,omitempty"`
	OccurredAt   string   `json:"occurred_at"`
}

const (
	SearchTypeFast     = "rag_fast"
	SearchTypeComplete = "rag_complete"
	SearchTypeCombined = "combined"
)
