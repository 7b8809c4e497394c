package relevance

import (
	"strings"
	"testing"
	"time"

	"bilgin-backend/models"
)

func docAt(id, content string, uploaded time.Time) models.Document {
	return models.Document{
		ID:         id,
		Filename:   id + ".txt",
		Content:    content,
		FileType:   "txt",
		UploadDate: uploaded,
	}
}

func TestAssembleFallbackContextEmptyCorpus(t *testing.T) {
	if got := AssembleFallbackContext(nil, FallbackMaxDocs, FallbackPrefixLen); got != "" {
		t.Fatalf("expected empty context, got %q", got)
	}
}

func TestAssembleFallbackContextPicksMostRecent(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	docs := []models.Document{
		docAt("old", "eski içerik", base),
		docAt("newest", "en yeni içerik", base.Add(2*time.Hour)),
		docAt("middle", "orta içerik", base.Add(time.Hour)),
	}

	got := AssembleFallbackContext(docs, 2, FallbackPrefixLen)
	if !strings.Contains(got, "en yeni içerik") || !strings.Contains(got, "orta içerik") {
		t.Fatalf("expected the two most recent documents, got %q", got)
	}
	if strings.Contains(got, "eski içerik") {
		t.Fatalf("oldest document should be excluded, got %q", got)
	}
	// Newest first.
	if strings.Index(got, "en yeni") > strings.Index(got, "orta") {
		t.Fatalf("expected newest-first ordering, got %q", got)
	}
}

func TestAssembleFallbackContextTruncates(t *testing.T) {
	long := strings.Repeat("a", 5000)
	docs := []models.Document{docAt("big", long, time.Now())}

	got := AssembleFallbackContext(docs, 2, 1000)
	if n := strings.Count(got, "a"); n != 1000 {
		t.Fatalf("expected 1000-character prefix, got %d", n)
	}
}

func TestAssembleFallbackContextTruncatesRuneSafe(t *testing.T) {
	long := strings.Repeat("ğ", 1500)
	docs := []models.Document{docAt("tr", long, time.Now())}

	got := AssembleFallbackContext(docs, 1, 1000)
	if n := strings.Count(got, "ğ"); n != 1000 {
		t.Fatalf("expected 1000 runes, got %d", n)
	}
	if strings.ContainsRune(got, '�') {
		t.Fatalf("rune boundary broken: %q", got[:20])
	}
}

func TestAugmentWithExamples(t *testing.T) {
	content := "belge içeriği"
	examples := []models.QARecord{
		{Question: "soru bir", Answer: "cevap bir"},
		{Question: "soru iki", Answer: "cevap iki"},
	}

	got := AugmentWithExamples(content, examples)
	if !strings.HasPrefix(got, content) {
		t.Fatalf("document content must lead, got %q", got)
	}
	if !strings.Contains(got, "--- ÖNCEKİ ÖRNEKLER ---") {
		t.Fatalf("missing examples header: %q", got)
	}
	if !strings.Contains(got, "Örnek Soru: soru iki") || !strings.Contains(got, "Örnek Cevap: cevap bir") {
		t.Fatalf("examples not rendered: %q", got)
	}
}

func TestAugmentWithExamplesNoHistory(t *testing.T) {
	if got := AugmentWithExamples("içerik", nil); got != "içerik" {
		t.Fatalf("expected unchanged content, got %q", got)
	}
}
