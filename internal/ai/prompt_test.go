package ai

import (
	"strings"
	"testing"
)

func TestBuildPromptWithDocument(t *testing.T) {
	got := BuildPrompt("Fotosentez nasıl çalışır?", "Bitkiler ışık enerjisini kullanır.")
	if !strings.Contains(got, "ÖĞRENME KAYNAĞI:") {
		t.Fatalf("missing source section: %q", got)
	}
	if !strings.Contains(got, "Bitkiler ışık enerjisini kullanır.") {
		t.Fatalf("document content not embedded: %q", got)
	}
	if !strings.Contains(got, "ÖĞRENCİ SORUSU: Fotosentez nasıl çalışır?") {
		t.Fatalf("question not embedded: %q", got)
	}
}

func TestBuildPromptWithoutDocument(t *testing.T) {
	got := BuildPrompt("Pisagor teoremi nedir?", "")
	if strings.Contains(got, "ÖĞRENME KAYNAĞI:") {
		t.Fatalf("unexpected source section without context: %q", got)
	}
	if !strings.Contains(got, "ÖĞRENCİ SORUSU: Pisagor teoremi nedir?") {
		t.Fatalf("question not embedded: %q", got)
	}
}

func TestBuildPromptTruncatesContext(t *testing.T) {
	long := strings.Repeat("x", 10000)
	got := BuildPrompt("soru", long)
	if n := strings.Count(got, "x"); n != maxContextChars {
		t.Fatalf("expected context capped at %d runes, got %d", maxContextChars, n)
	}
}

func TestEstimateTokens(t *testing.T) {
	if EstimateTokens("") != 1 {
		t.Fatalf("minimum should be 1")
	}
	if got := EstimateTokens(strings.Repeat("a", 400)); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
}
