package relevance

import (
	"testing"
)

func TestNormalizeLowercasesAndDeduplicates(t *testing.T) {
	tokens := Normalize("Enerji enerji Korunumu korunumu")
	if _, ok := tokens["enerji"]; !ok {
		t.Fatalf("expected lowercase token, got %v", tokens)
	}
	if _, ok := tokens["korunumu"]; !ok {
		t.Fatalf("missing token korunumu: %v", tokens)
	}
	if len(tokens) != 2 {
		t.Fatalf("expected deduplicated set of 2, got %v", tokens)
	}
}

func TestNormalizeWhitespaceOnly(t *testing.T) {
	if tokens := Normalize("  \t\n  "); len(tokens) != 0 {
		t.Fatalf("expected empty set, got %v", tokens)
	}
}

func TestStripStopwords(t *testing.T) {
	stop := StopwordSet(DefaultStopwords)
	tokens := Normalize("bu belge ve şu konu için nedir")
	keywords := StripStopwords(tokens, stop)

	for _, w := range []string{"bu", "ve", "şu", "için", "nedir"} {
		if _, ok := keywords[w]; ok {
			t.Errorf("stopword %q survived", w)
		}
	}
	for _, w := range []string{"belge", "konu"} {
		if _, ok := keywords[w]; !ok {
			t.Errorf("keyword %q removed", w)
		}
	}
}

func TestStripStopwordsAllStopwords(t *testing.T) {
	stop := StopwordSet(DefaultStopwords)
	keywords := StripStopwords(Normalize("bu ne nasıl mi"), stop)
	if len(keywords) != 0 {
		t.Fatalf("expected empty keyword set, got %v", keywords)
	}
}

func TestStopwordSetIsConfigurable(t *testing.T) {
	stop := StopwordSet([]string{"belge"})
	keywords := StripStopwords(Normalize("bu belge"), stop)
	if _, ok := keywords["belge"]; ok {
		t.Fatalf("injected stopword not applied: %v", keywords)
	}
	if _, ok := keywords["bu"]; !ok {
		t.Fatalf("non-stopword removed: %v", keywords)
	}
}
