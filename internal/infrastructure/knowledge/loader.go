package knowledge

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/curamai/sitesearch/internal/core/domain"
	"github.com/curamai/sitesearch/internal/core/relevance"
)

//go:embed knowledge.yaml
var defaultAsset []byte

// Base is the knowledge base asset: curated entries plus the vocabulary the
// classifier runs on.
type Base struct {
	Version    int                     `yaml:"version"`
	Vocabulary relevance.Vocabulary    `yaml:"vocabulary"`
	Entries    []domain.KnowledgeEntry `yaml:"entries"`
}

// Load reads the asset at path, or the embedded one when path is empty.
func Load(path string) (*Base, error) {
	if strings.TrimSpace(path) == "" {
		return Parse(defaultAsset)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Base, error) {
	var base Base
	if err := yaml.Unmarshal(data, &base); err != nil {
		return nil, fmt.Errorf("decode knowledge base yaml: %w", err)
	}
	if len(base.Entries) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "parse knowledge base", fmt.Errorf("no entries"))
	}

	for i := range base.Entries {
		entry := &base.Entries[i]
		keywords := make([]string, 0, len(entry.Keywords))
		for _, keyword := range entry.Keywords {
			keyword = strings.ToLower(strings.TrimSpace(keyword))
			if keyword != "" {
				keywords = append(keywords, keyword)
			}
		}
		if len(keywords) == 0 {
			return nil, domain.WrapError(domain.ErrInvalidInput, "parse knowledge base", fmt.Errorf("entry %d has no keywords", i))
		}
		entry.Keywords = keywords
		entry.AnswerHTML = strings.TrimSpace(entry.AnswerHTML)
		if entry.Sources == nil {
			entry.Sources = []domain.Source{}
		}
	}
	base.Vocabulary = base.Vocabulary.WithDefaults()
	return &base, nil
}
