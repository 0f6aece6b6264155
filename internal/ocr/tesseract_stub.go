//go:build !tesseract

package ocr

// newTesseract is a stub when the binary was built without local OCR support.
func newTesseract(deps Deps) (Extractor, error) {
	return nil, unavailableError{msg: "tesseract backend not compiled in; rebuild with -tags=tesseract"}
}
