package relevance

import (
	"sort"
	"strings"

	"bilgin-backend/models"
)

// Fallback assembly defaults: at most two of the most recent documents,
// each cut to a 1000-character prefix.
const (
	FallbackMaxDocs   = 2
	FallbackPrefixLen = 1000
)

// FallbackSourceLabel is what the caller reports instead of a document
// name when fallback context was used.
const FallbackSourceLabel = "Genel kaynaklardan"

// AssembleFallbackContext concatenates prefix-truncated excerpts of the
// most recently uploaded documents. It is the degrade-gracefully path
// when no single document scored above the threshold: some context is
// better than none, and the caller labels it generically rather than
// attributing a document.
func AssembleFallbackContext(documents []models.Document, maxDocs, prefixLen int) string {
	if len(documents) == 0 || maxDocs <= 0 {
		return ""
	}

	recent := make([]models.Document, len(documents))
	copy(recent, documents)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].UploadDate.After(recent[j].UploadDate)
	})
	if len(recent) > maxDocs {
		recent = recent[:maxDocs]
	}

	var sb strings.Builder
	for _, doc := range recent {
		content := doc.Content
		if runes := []rune(content); len(runes) > prefixLen {
			content = string(runes[:prefixLen])
		}
		sb.WriteString(content)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// AugmentWithExamples appends prior question/answer pairs to the
// document content as labeled examples, so the answer generator can
// imitate earlier accepted answers. It does not change which document
// won, only the text forwarded downstream.
func AugmentWithExamples(content string, examples []models.QARecord) string {
	if len(examples) == 0 {
		return content
	}

	var sb strings.Builder
	sb.WriteString(content)
	sb.WriteString("\n\n--- ÖNCEKİ ÖRNEKLER ---\n")
	for _, qa := range examples {
		sb.WriteString("\nÖrnek Soru: ")
		sb.WriteString(qa.Question)
		sb.WriteString("\nÖrnek Cevap: ")
		sb.WriteString(qa.Answer)
		sb.WriteString("\n")
	}
	return sb.String()
}
