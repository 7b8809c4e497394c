package relevance

import (
	"testing"
	"time"

	"bilgin-backend/models"
)

func doc(id, filename, content, fileType string) models.Document {
	return models.Document{
		ID:         id,
		Filename:   filename,
		Content:    content,
		FileType:   fileType,
		UploadDate: time.Now(),
	}
}

func TestFindBestMatchEmptyCorpus(t *testing.T) {
	res := FindBestMatch("makine öğrenmesi nedir", nil, DefaultConfig())
	if res.Matched || res.Document != nil || res.Score != 0 {
		t.Fatalf("expected no match for empty corpus, got %+v", res)
	}
}

func TestFindBestMatchBlankQuestion(t *testing.T) {
	docs := []models.Document{doc("1", "a.txt", "bazı içerik", "txt")}
	for _, q := range []string{"", "   ", "\t\n "} {
		res := FindBestMatch(q, docs, DefaultConfig())
		if res.Matched {
			t.Fatalf("question %q: expected no match, got %+v", q, res)
		}
	}
}

func TestFindBestMatchDeterministic(t *testing.T) {
	docs := []models.Document{
		doc("1", "fizik_notlari.pdf", "kuvvet ve hareket üzerine notlar", "pdf"),
		doc("2", "kimya.txt", "asit baz tepkimeleri", "txt"),
	}
	cfg := DefaultConfig()
	first := FindBestMatch("kuvvet nedir", docs, cfg)
	for i := 0; i < 10; i++ {
		again := FindBestMatch("kuvvet nedir", docs, cfg)
		if again.Matched != first.Matched || again.Score != first.Score || again.Document != first.Document {
			t.Fatalf("run %d: result changed: %+v vs %+v", i, again, first)
		}
	}
}

func TestFindBestMatchThreshold(t *testing.T) {
	// Single keyword substring hit only: phrase score 1, below the default threshold of 2.
	docs := []models.Document{doc("1", "notlar.txt", "deneysellik üzerine", "txt")}
	res := FindBestMatch("deneysel çalışma", docs, DefaultConfig())
	if res.Matched {
		t.Fatalf("expected sub-threshold score to be reported as no match, got %+v", res)
	}
	if res.Score == 0 {
		t.Fatalf("expected a nonzero best score to still be reported, got %+v", res)
	}

	cfg := DefaultConfig()
	cfg.MinScore = 1
	if res := FindBestMatch("deneysel çalışma", docs, cfg); !res.Matched {
		t.Fatalf("lowered threshold should match, got %+v", res)
	}
}

func TestFindBestMatchTieBreakFirstWins(t *testing.T) {
	// Both documents contain the two keywords exactly once each.
	docs := []models.Document{
		doc("first", "a.txt", "enerji korunumu yasası", "txt"),
		doc("second", "b.txt", "enerji korunumu ilkesi", "txt"),
	}
	res := FindBestMatch("enerji korunumu", docs, DefaultConfig())
	if !res.Matched || res.Document.ID != "first" {
		t.Fatalf("expected first document to win the tie, got %+v", res)
	}

	// Same corpus reversed: the other one must win now.
	docs[0], docs[1] = docs[1], docs[0]
	res = FindBestMatch("enerji korunumu", docs, DefaultConfig())
	if !res.Matched || res.Document.ID != "second" {
		t.Fatalf("expected new first document to win, got %+v", res)
	}
}

func TestFindBestMatchFilenameDominance(t *testing.T) {
	docs := []models.Document{
		doc("1", "bütçe_planı.pdf", "tamamen alakasız bir metin", "pdf"),
		doc("2", "rapor.txt", "yine alakasız başka bir metin", "txt"),
	}
	res := FindBestMatch("bütçe planı nedir", docs, DefaultConfig())
	if !res.Matched || res.Document.ID != "1" {
		t.Fatalf("expected filename match to win, got %+v", res)
	}
	// Keywords {bütçe, planı} both in the filename: 2 * 3 = 6.
	if res.Score != 6 {
		t.Fatalf("expected score 6, got %d", res.Score)
	}
}

func TestFindBestMatchStopwordOnlyQuestion(t *testing.T) {
	docs := []models.Document{
		doc("1", "test_document.txt",
			"Bu test belgesi, sistemin Türkçe içerik işleme kabiliyetini test eder.", "txt"),
	}
	res := FindBestMatch("Bu belge ne hakkında?", docs, DefaultConfig())
	if res.Matched {
		t.Fatalf("expected no match, got %+v", res)
	}
	if res.Score >= DefaultConfig().MinScore {
		t.Fatalf("expected sub-threshold score, got %d", res.Score)
	}
}

func TestFindBestMatchWordScoreOrdering(t *testing.T) {
	// word_scores 4, 4, 2: the tie at the top goes to input order.
	docs := []models.Document{
		doc("a", "d1.txt", "ısı sıcaklık", "txt"),
		doc("b", "d2.txt", "ısı sıcaklık", "txt"),
		doc("c", "d3.txt", "ısı yalıtımı", "txt"),
	}
	res := FindBestMatch("ısı sıcaklık farkı", docs, DefaultConfig())
	if !res.Matched || res.Document.ID != "a" {
		t.Fatalf("expected first of the tied top scorers, got %+v", res)
	}
}

func TestScoreDocumentBreakdown(t *testing.T) {
	cfg := DefaultConfig()
	d := doc("1", "hücre_biyolojisi.pdf", "hücre zarı ve hücre çekirdeği. hücre bölünmesi.", "pdf")
	keywords := StripStopwords(Normalize("hücre zarı nedir"), cfg.Stopwords)

	b := ScoreDocument(keywords, &d, cfg)
	if b.WordScore != 4 { // hücre + zarı both present as tokens
		t.Errorf("word score: got %d, want 4", b.WordScore)
	}
	if b.PhraseScore != 4 { // "hücre" occurs 3 times, "zarı" once
		t.Errorf("phrase score: got %d, want 4", b.PhraseScore)
	}
	if b.FilenameScore != 3 { // only "hücre" appears in the filename
		t.Errorf("filename score: got %d, want 3", b.FilenameScore)
	}
	if b.TypeBonus != 0 {
		t.Errorf("type bonus should default to 0, got %d", b.TypeBonus)
	}
	if b.Total != 11 {
		t.Errorf("total: got %d, want 11", b.Total)
	}
}

func TestScoreDocumentPDFBonus(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PDFBonus = 1

	pdfDoc := doc("1", "a.pdf", "konu anlatımı", "pdf")
	txtDoc := doc("2", "a.txt", "konu anlatımı", "txt")
	keywords := StripStopwords(Normalize("konu"), cfg.Stopwords)

	pb := ScoreDocument(keywords, &pdfDoc, cfg)
	tb := ScoreDocument(keywords, &txtDoc, cfg)
	if pb.Total != tb.Total+1 {
		t.Fatalf("pdf bonus not applied: pdf=%d txt=%d", pb.Total, tb.Total)
	}
}

func TestFindBestMatchDoesNotMutateCorpus(t *testing.T) {
	docs := []models.Document{
		doc("1", "b.txt", "ikinci belge", "txt"),
		doc("2", "a.txt", "birinci belge", "txt"),
	}
	before := make([]models.Document, len(docs))
	copy(before, docs)

	FindBestMatch("belge içeriği", docs, DefaultConfig())
	for i := range docs {
		if docs[i].ID != before[i].ID || docs[i].Content != before[i].Content {
			t.Fatalf("corpus snapshot mutated at %d", i)
		}
	}
}
