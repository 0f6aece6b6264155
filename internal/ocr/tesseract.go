//go:build tesseract

package ocr

import (
	"context"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"

	"docex/internal/render"
	"docex/pkg/types"
)

// tesseractExtractor runs local OCR over rendered page images. Requires
// libtesseract at build and run time; enabled with -tags=tesseract.
type tesseractExtractor struct {
	client *gosseract.Client
	opts   render.Options
	max    int
}

func newTesseract(deps Deps) (Extractor, error) {
	client := gosseract.NewClient()
	langs := deps.Languages
	if len(langs) == 0 {
		langs = []string{"eng"}
	}
	if err := client.SetLanguage(langs...); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &tesseractExtractor{
		client: client,
		opts:   render.Options{DPI: deps.RenderDPI, MaxPages: deps.MaxPages},
		max:    deps.MaxChars,
	}, nil
}

func (t *tesseractExtractor) Close() error { return t.client.Close() }

func (t *tesseractExtractor) Extract(ctx context.Context, in Input) (types.OCRResult, error) {
	start := time.Now()
	pages, err := render.PageImages(ctx, in.Bytes, t.opts)
	if err != nil {
		return types.OCRResult{}, err
	}
	var texts []string
	for _, png := range pages {
		if err := ctx.Err(); err != nil {
			return types.OCRResult{}, err
		}
		if err := t.client.SetImageFromBytes(png); err != nil {
			return types.OCRResult{}, err
		}
		text, err := t.client.Text()
		if err != nil {
			return types.OCRResult{}, err
		}
		texts = append(texts, text)
	}
	return types.OCRResult{
		Text:     Clean(strings.Join(texts, "\n"+render.PageBreak+"\n"), t.max),
		Pages:    len(pages),
		Backend:  BackendTesseract,
		Duration: time.Since(start),
	}, nil
}
