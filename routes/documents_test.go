package routes

import "testing"

func TestDetectFileTypeByMIME(t *testing.T) {
	cases := []struct {
		contentType string
		filename    string
		want        string
	}{
		{"application/pdf", "rapor.bin", "pdf"},
		{"application/pdf; charset=binary", "rapor.bin", "pdf"},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "not-docx", "docx"},
		{"text/plain", "notlar", "txt"},
	}

	for _, tc := range cases {
		if got := detectFileType(tc.contentType, tc.filename); got != tc.want {
			t.Errorf("detectFileType(%q, %q) = %q, want %q", tc.contentType, tc.filename, got, tc.want)
		}
	}
}

func TestDetectFileTypeExtensionFallback(t *testing.T) {
	cases := []struct {
		contentType string
		filename    string
		want        string
	}{
		{"application/octet-stream", "hücre_yapısı.PDF", "pdf"},
		{"", "ödev.docx", "docx"},
		{"application/octet-stream", "notlar.txt", "txt"},
	}

	for _, tc := range cases {
		if got := detectFileType(tc.contentType, tc.filename); got != tc.want {
			t.Errorf("detectFileType(%q, %q) = %q, want %q", tc.contentType, tc.filename, got, tc.want)
		}
	}
}

func TestDetectFileTypeUnsupported(t *testing.T) {
	if got := detectFileType("image/png", "resim.png"); got != "" {
		t.Errorf("expected empty type for unsupported file, got %q", got)
	}
	if got := detectFileType("", "arsiv.zip"); got != "" {
		t.Errorf("expected empty type for unsupported extension, got %q", got)
	}
}
