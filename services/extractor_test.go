package services

import (
	"errors"
	"testing"
)

func TestExtractTextTXT(t *testing.T) {
	got, err := ExtractText([]byte("Türkçe bir metin dosyası içeriği."), "txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Türkçe bir metin dosyası içeriği." {
		t.Fatalf("content altered: %q", got)
	}
}

func TestExtractTextTXTInvalidUTF8(t *testing.T) {
	_, err := ExtractText([]byte{0xff, 0xfe, 0xfd}, "txt")
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
}

func TestExtractTextTXTEmpty(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("   \n\t ")} {
		if _, err := ExtractText(data, "txt"); !errors.Is(err, ErrExtraction) {
			t.Fatalf("expected ErrExtraction for %q, got %v", data, err)
		}
	}
}

func TestExtractTextUnsupportedType(t *testing.T) {
	_, err := ExtractText([]byte("data"), "xlsx")
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
}

func TestExtractTextCorruptPDF(t *testing.T) {
	_, err := ExtractText([]byte("definitely not a pdf"), "pdf")
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
}

func TestExtractTextCorruptDOCX(t *testing.T) {
	_, err := ExtractText([]byte("definitely not a docx"), "docx")
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
}
