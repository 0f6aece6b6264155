package ocr

import (
	"context"
	"fmt"
	"time"

	"docex/internal/render"
	"docex/pkg/types"
)

// embeddedExtractor reads the PDF text layer directly. Only works for
// born-digital documents; scanned documents come back empty and get a
// pointed error instead of an empty result.
type embeddedExtractor struct {
	opts render.Options
	max  int
}

func newEmbedded(deps Deps) *embeddedExtractor {
	return &embeddedExtractor{
		opts: render.Options{DPI: deps.RenderDPI, MaxPages: deps.MaxPages},
		max:  deps.MaxChars,
	}
}

func (e *embeddedExtractor) Close() error { return nil }

func (e *embeddedExtractor) Extract(ctx context.Context, in Input) (types.OCRResult, error) {
	start := time.Now()
	text, pages, err := render.EmbeddedText(ctx, in.Bytes, e.opts)
	if err != nil {
		return types.OCRResult{}, err
	}
	cleaned := Clean(text, e.max)
	if cleaned == "" {
		return types.OCRResult{}, fmt.Errorf("no embedded text layer; document appears scanned, use the %s backend", BackendTextract)
	}
	return types.OCRResult{
		Text:     cleaned,
		Pages:    pages,
		Backend:  BackendEmbedded,
		Duration: time.Since(start),
	}, nil
}

// unavailableError signals a backend whose runtime dependency is missing so
// the HTTP layer can answer 503 instead of 500.
type unavailableError struct{ msg string }

func (e unavailableError) Error() string { return e.msg }

// IsUnavailable reports whether err indicates a missing engine dependency.
func IsUnavailable(err error) bool {
	_, ok := err.(unavailableError)
	return ok
}
