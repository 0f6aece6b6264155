//go:build !tesseract

package ocr

import "testing"

func TestTesseractStubReportsUnavailable(t *testing.T) {
	_, err := New(BackendTesseract, Deps{})
	if err == nil || !IsUnavailable(err) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}
