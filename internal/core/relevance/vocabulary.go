package relevance

// Vocabulary is the hand-curated word list data the classifier and scorer run
// on. It is loaded with the knowledge base and must be kept in sync with it.
type Vocabulary struct {
	StopWords       []string `yaml:"stop_words" json:"stop_words"`
	OffTopic        []string `yaml:"off_topic" json:"off_topic"`
	OnTopic         []string `yaml:"on_topic" json:"on_topic"`
	SupportedTopics []string `yaml:"supported_topics" json:"supported_topics"`
}

func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		StopWords: []string{
			"what", "is", "the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of",
			"with", "by", "from", "as", "are", "was", "were", "been", "be", "have", "has", "had",
			"do", "does", "did", "will", "would", "could", "should", "may", "might", "must", "can",
			"how", "why", "when", "where", "who",
		},
		OffTopic: []string{
			"recipe", "cooking", "weather", "sports", "celebrity", "movie", "game",
			"restaurant", "hotel", "travel", "vacation", "music", "fashion", "car",
			"bitcoin", "crypto", "stock", "forex", "dating", "pets", "gardening",
			"mars", "venus", "planet", "space", "relationship", "love", "marriage",
			"book", "novel", "fiction", "poem", "song", "album", "tv show", "netflix",
		},
		OnTopic: []string{
			"ai", "automation", "document", "protocol", "phase", "roi", "engineering",
			"accounting", "legal", "compliance", "workflow", "extraction", "rag",
			"implementation", "feasibility", "audit", "guarantee", "pricing", "cost",
			"invoice", "contract", "tender", "data", "extract", "search", "intelligence",
			"curam", "gemini", "python", "api", "pdf", "ocr", "azure", "cloud",
		},
		SupportedTopics: []string{
			"The Curam-Ai Protocol and its phases",
			"Document intelligence and extraction",
			"AI-powered workflow automation",
			"Industries we serve (Engineering, Accounting, Legal, etc.)",
			"Pricing, guarantees, and ROI",
		},
	}
}

// WithDefaults fills every empty list from DefaultVocabulary.
func (v Vocabulary) WithDefaults() Vocabulary {
	def := DefaultVocabulary()
	if len(v.StopWords) == 0 {
		v.StopWords = def.StopWords
	}
	if len(v.OffTopic) == 0 {
		v.OffTopic = def.OffTopic
	}
	if len(v.OnTopic) == 0 {
		v.OnTopic = def.OnTopic
	}
	if len(v.SupportedTopics) == 0 {
		v.SupportedTopics = def.SupportedTopics
	}
	return v
}
