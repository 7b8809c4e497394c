package utils

import (
	"strings"
	"testing"
)

func TestCompressTextRoundtrip(t *testing.T) {
	original := strings.Repeat("Mitokondri hücrenin enerji santralidir. ", 50)

	compressed, algorithm, err := CompressText(original)
	if err != nil {
		t.Fatalf("CompressText failed: %v", err)
	}
	if algorithm != CompressionGzip {
		t.Fatalf("expected gzip for large text, got %s", algorithm)
	}
	if len(compressed) >= len(original) {
		t.Errorf("compressed size %d not smaller than original %d", len(compressed), len(original))
	}

	restored, err := DecompressText(compressed, algorithm)
	if err != nil {
		t.Fatalf("DecompressText failed: %v", err)
	}
	if restored != original {
		t.Error("roundtrip did not restore original text")
	}
}

func TestCompressTextShortTextStoredPlain(t *testing.T) {
	original := "kısa metin"

	compressed, algorithm, err := CompressText(original)
	if err != nil {
		t.Fatalf("CompressText failed: %v", err)
	}
	if algorithm != CompressionNone {
		t.Fatalf("expected none for short text, got %s", algorithm)
	}
	if string(compressed) != original {
		t.Error("short text should be stored as-is")
	}

	restored, err := DecompressText(compressed, algorithm)
	if err != nil {
		t.Fatalf("DecompressText failed: %v", err)
	}
	if restored != original {
		t.Error("roundtrip did not restore original text")
	}
}

func TestDecompressDataUnsupportedAlgorithm(t *testing.T) {
	if _, err := DecompressData([]byte("data"), CompressionAlgorithm("zstd")); err == nil {
		t.Error("expected error for unsupported algorithm")
	}
}

func TestCompressDataEmptyInput(t *testing.T) {
	out, err := CompressData(nil, CompressionGzip)
	if err != nil {
		t.Fatalf("CompressData failed: %v", err)
	}
	if len(out) != 0 {
		t.Error("empty input should stay empty")
	}
}
