package htmltext

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicyOnce sync.Once
	strictPolicy     *bluemonday.Policy

	whitespaceRun = regexp.MustCompile(`\s+`)
	blockBreak    = regexp.MustCompile(`(?i)<\s*(br|/p|/li|/h[1-6]|/div)\s*/?>`)
)

// StrictPolicy strips every element and attribute.
func StrictPolicy() *bluemonday.Policy {
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// Sanitizer converts HTML fragments from the knowledge base and the blog into
// plain text.
type Sanitizer struct{}

func New() Sanitizer {
	return Sanitizer{}
}

// PlainText removes tags, decodes entities and collapses whitespace. Block
// level breaks become spaces so adjacent words do not run together.
func (Sanitizer) PlainText(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return ""
	}
	fragment = blockBreak.ReplaceAllString(fragment, " ")
	text := html.UnescapeString(StrictPolicy().Sanitize(fragment))
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}
