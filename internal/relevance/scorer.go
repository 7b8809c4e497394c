// Package relevance selects the stored document that best matches a
// free-text Turkish question, using a deterministic keyword scoring
// function. No embeddings, no external search service: the whole corpus
// snapshot is scanned per call, which is O(documents × keywords ×
// average content length) and acceptable while the corpus stays in the
// tens to low hundreds of documents.
package relevance

import (
	"strings"

	"bilgin-backend/models"
)

// Config carries the scoring weights, the stopword set and the
// acceptance threshold. Values are read-only during a call; construct
// one per process (or per test) and pass it in.
type Config struct {
	WordWeight     int // per keyword present in the content token set
	PhraseWeight   int // per substring occurrence of a keyword in the content
	FilenameWeight int // per keyword appearing in the filename
	PDFBonus       int // flat bonus for pdf documents, off by default
	MinScore       int // best score below this is reported as no match
	Stopwords      map[string]struct{}
}

// DefaultConfig returns the standard weights: exact token presence
// counts double, a filename hit counts triple, and the PDF quality
// prior is disabled.
func DefaultConfig() Config {
	return Config{
		WordWeight:     2,
		PhraseWeight:   1,
		FilenameWeight: 3,
		PDFBonus:       0,
		MinScore:       2,
		Stopwords:      StopwordSet(DefaultStopwords),
	}
}

// ScoreResult is the outcome of one retrieval pass. Document points
// into the caller's corpus slice and must not be retained past the
// request; it is nil when Matched is false.
type ScoreResult struct {
	Document *models.Document
	Score    int
	Matched  bool
}

// Breakdown explains how one document's score was computed.
type Breakdown struct {
	WordScore     int `json:"word_score"`
	PhraseScore   int `json:"phrase_score"`
	FilenameScore int `json:"filename_score"`
	TypeBonus     int `json:"type_bonus"`
	Total         int `json:"total"`
}

// ScoreDocument computes the relevance breakdown of a single document
// against an already-extracted keyword set.
func ScoreDocument(keywords map[string]struct{}, doc *models.Document, cfg Config) Breakdown {
	contentLower := strings.ToLower(doc.Content)
	contentWords := Normalize(doc.Content)
	filenameLower := strings.ToLower(doc.Filename)

	var b Breakdown
	for keyword := range keywords {
		if _, ok := contentWords[keyword]; ok {
			b.WordScore += cfg.WordWeight
		}
		// Substring occurrences approximate term frequency; a present
		// keyword contributes here at least once on top of WordScore.
		b.PhraseScore += cfg.PhraseWeight * strings.Count(contentLower, keyword)
		if strings.Contains(filenameLower, keyword) {
			b.FilenameScore += cfg.FilenameWeight
		}
	}
	if doc.FileType == "pdf" {
		b.TypeBonus = cfg.PDFBonus
	}
	b.Total = b.WordScore + b.PhraseScore + b.FilenameScore + b.TypeBonus
	return b
}

// FindBestMatch scores every document in the snapshot and returns the
// one with the strictly greatest total. Ties keep the first document in
// input order. An empty corpus, a blank question, or a best score below
// cfg.MinScore all yield an unmatched result rather than an error.
func FindBestMatch(question string, documents []models.Document, cfg Config) ScoreResult {
	if len(documents) == 0 || strings.TrimSpace(question) == "" {
		return ScoreResult{}
	}

	keywords := StripStopwords(Normalize(question), cfg.Stopwords)

	bestScore := 0
	var bestDoc *models.Document
	for i := range documents {
		total := ScoreDocument(keywords, &documents[i], cfg).Total
		if total > bestScore {
			bestScore = total
			bestDoc = &documents[i]
		}
	}

	if bestDoc == nil || bestScore < cfg.MinScore {
		return ScoreResult{Score: bestScore}
	}
	return ScoreResult{Document: bestDoc, Score: bestScore, Matched: true}
}
