package knowledge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/curamai/sitesearch/internal/core/domain"
)

func TestLoadEmbeddedAsset(t *testing.T) {
	base, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(base.Entries) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(base.Entries))
	}
	first := base.Entries[0]
	if first.Keywords[0] != "phase 1" {
		t.Fatalf("expected phase 1 entry first, got %v", first.Keywords)
	}
	if len(first.Sources) != 2 || first.Sources[1].URL != "homepage.html#faq" {
		t.Fatalf("unexpected sources %+v", first.Sources)
	}
	if len(base.Vocabulary.OffTopic) == 0 || len(base.Vocabulary.StopWords) == 0 {
		t.Fatalf("expected vocabulary to be loaded")
	}
}

func TestParseNormalizesKeywordsAndFillsVocabulary(t *testing.T) {
	base, err := Parse([]byte(`
entries:
  - keywords: ["  Invoice ", "", "OCR"]
    answer: "  <p>answer</p> "
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	entry := base.Entries[0]
	if len(entry.Keywords) != 2 || entry.Keywords[0] != "invoice" || entry.Keywords[1] != "ocr" {
		t.Fatalf("unexpected keywords %v", entry.Keywords)
	}
	if entry.AnswerHTML != "<p>answer</p>" {
		t.Fatalf("expected trimmed answer, got %q", entry.AnswerHTML)
	}
	if entry.Sources == nil {
		t.Fatalf("expected non-nil sources")
	}
	if len(base.Vocabulary.OnTopic) == 0 {
		t.Fatalf("expected default vocabulary")
	}
}

func TestParseRejectsEmptyBase(t *testing.T) {
	_, err := Parse([]byte("version: 1\nentries: []\n"))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	_, err = Parse([]byte("entries:\n  - answer: x\n"))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for entry without keywords, got %v", err)
	}
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.yaml")
	if err := os.WriteFile(path, []byte("entries:\n  - keywords: [audit]\n    answer: a\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	base, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if base.Entries[0].Keywords[0] != "audit" {
		t.Fatalf("unexpected entry %+v", base.Entries[0])
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
