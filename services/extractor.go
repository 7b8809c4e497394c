package services

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/gonfva/docxlib"
	"github.com/ledongthuc/pdf"
)

// ErrExtraction marks unreadable or corrupt uploads. Routes map it to a
// 422 with an explanatory message.
var ErrExtraction = errors.New("text extraction failed")

// ExtractText pulls plain text out of an uploaded file. fileType must be
// one of pdf, docx, txt (the MIME allow-list maps to these upstream).
func ExtractText(data []byte, fileType string) (string, error) {
	switch fileType {
	case "pdf":
		return extractPDF(data)
	case "docx":
		return extractDOCX(data)
	case "txt":
		return extractTXT(data)
	default:
		return "", fmt.Errorf("%w: unsupported file type %q", ErrExtraction, fileType)
	}
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	var textBuilder strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		fonts := make(map[string]*pdf.Font)
		text, err := page.GetPlainText(fonts)
		if err != nil {
			// A single broken page should not sink the document.
			continue
		}
		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}

	extracted := textBuilder.String()
	if strings.TrimSpace(extracted) == "" {
		return "", fmt.Errorf("%w: no text extracted from pdf", ErrExtraction)
	}
	return extracted, nil
}

// docxlib parses from an os.File, so the upload is staged in a temp file.
func extractDOCX(data []byte) (string, error) {
	tmpFile, err := os.CreateTemp("", "upload_*.docx")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	tmpFile.Close()

	file, err := os.Open(tmpFile.Name())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	doc, err := docxlib.Parse(file, stat.Size())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	var textBuilder strings.Builder
	for _, paragraph := range doc.Paragraphs() {
		for _, child := range paragraph.Children() {
			if child.Run != nil && child.Run.Text != nil {
				if text := strings.TrimSpace(child.Run.Text.Text); text != "" {
					textBuilder.WriteString(text)
					textBuilder.WriteString(" ")
				}
			}
			if child.Link != nil && child.Link.Run.Text != nil {
				if text := strings.TrimSpace(child.Link.Run.Text.Text); text != "" {
					textBuilder.WriteString(text)
					textBuilder.WriteString(" ")
				}
			}
		}
		textBuilder.WriteString("\n")
	}

	extracted := strings.TrimSpace(textBuilder.String())
	if extracted == "" {
		return "", fmt.Errorf("%w: no text extracted from docx", ErrExtraction)
	}
	return extracted, nil
}

func extractTXT(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: text file is not valid UTF-8", ErrExtraction)
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: text file is empty", ErrExtraction)
	}
	return text, nil
}
