// Package ocr extracts plain text from PDF documents. It is structured into
// small files by concern:
//
//   - ocr.go: Extractor interface, Input, backend names.
//   - textract.go: synchronous Textract detection over rendered page images.
//   - textract_async.go: asynchronous Textract job start/poll for S3 objects.
//   - tesseract.go: local Tesseract backend (build with -tags=tesseract).
//   - tesseract_stub.go: no-CGO stub when the tag is not set.
//   - embedded.go: text-layer extraction for born-digital PDFs, no OCR.
//   - clean.go: shared text cleanup before prompting.
//
// Confidence values are normalized to 0..1 regardless of what the engine
// reports natively.
package ocr

import (
	"context"
	"fmt"

	"docex/pkg/types"
)

// Backend names accepted in config and API requests.
const (
	BackendTextract      = "textract"
	BackendTextractAsync = "textract-async"
	BackendTesseract     = "tesseract"
	BackendEmbedded      = "embedded"
)

// Input identifies one document for extraction. Bytes is the raw PDF; Key is
// the object key in the source bucket. Synchronous backends need Bytes, the
// async Textract backend needs Key.
type Input struct {
	Bytes  []byte
	Key    string
	Bucket string
}

// Extractor produces plain text from one document.
type Extractor interface {
	Extract(ctx context.Context, in Input) (types.OCRResult, error)
	// Close releases any resources held by the engine.
	Close() error
}

// ErrUnknownBackend is returned by New for unrecognized backend names.
type unknownBackendError struct{ name string }

func (e unknownBackendError) Error() string { return "unknown ocr backend: " + e.name }

// IsUnknownBackend reports whether err names an unrecognized backend.
func IsUnknownBackend(err error) bool {
	_, ok := err.(unknownBackendError)
	return ok
}

// Deps carries the collaborators backends may need.
type Deps struct {
	Textract TextractAPI
	// RenderDPI and MaxPages are passed through to the renderer.
	RenderDPI int
	MaxPages  int
	// MaxChars bounds cleaned text handed to the prompt builder.
	MaxChars int
	// Languages for the local Tesseract engine, e.g. ["eng"].
	Languages []string
}

// New constructs the named backend. The tesseract backend returns a
// dependency error unless the binary was built with -tags=tesseract.
func New(backend string, deps Deps) (Extractor, error) {
	switch backend {
	case BackendTextract:
		if deps.Textract == nil {
			return nil, fmt.Errorf("textract backend requires an AWS client")
		}
		return newTextractSync(deps), nil
	case BackendTextractAsync:
		if deps.Textract == nil {
			return nil, fmt.Errorf("textract-async backend requires an AWS client")
		}
		return newTextractAsync(deps), nil
	case BackendTesseract:
		return newTesseract(deps)
	case BackendEmbedded:
		return newEmbedded(deps), nil
	default:
		return nil, unknownBackendError{name: backend}
	}
}
