// Package render turns PDF bytes into page PNGs for multimodal prompts and
// reads the embedded text layer of born-digital documents.
package render

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// PageBreak separates pages in concatenated text output.
const PageBreak = "---PAGE BREAK---"

// Options bound how much of a document gets rendered.
type Options struct {
	// DPI for rasterization. Zero means 150.
	DPI int
	// MaxPages caps how many pages are rendered. Zero means all pages.
	MaxPages int
}

func (o Options) dpi() float64 {
	if o.DPI <= 0 {
		return 150
	}
	return float64(o.DPI)
}

func (o Options) cap(n int) int {
	if o.MaxPages > 0 && n > o.MaxPages {
		return o.MaxPages
	}
	return n
}

// PageCount reports the number of pages in the document.
func PageCount(pdf []byte) (int, error) {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()
	return doc.NumPage(), nil
}

// PageImages renders document pages to PNG, honoring the page cap and ctx
// cancellation between pages.
func PageImages(ctx context.Context, pdf []byte, opts Options) ([][]byte, error) {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	n := opts.cap(doc.NumPage())
	pages := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		png, err := doc.ImagePNG(i, opts.dpi())
		if err != nil {
			return nil, fmt.Errorf("render page %d: %w", i+1, err)
		}
		pages = append(pages, png)
	}
	return pages, nil
}

// EmbeddedText reads the text layer of each page and joins pages with the
// page-break marker. Empty output means the PDF is scanned-only and needs OCR.
func EmbeddedText(ctx context.Context, pdf []byte, opts Options) (string, int, error) {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return "", 0, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	n := opts.cap(doc.NumPage())
	var pages []string
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return "", 0, err
		}
		text, err := doc.Text(i)
		if err != nil {
			return "", 0, fmt.Errorf("text page %d: %w", i+1, err)
		}
		pages = append(pages, text)
	}
	joined := strings.TrimSpace(strings.Join(pages, "\n"+PageBreak+"\n"))
	return joined, n, nil
}

// EncodePNG returns the base64 form the model API expects for image blocks.
func EncodePNG(png []byte) string {
	return base64.StdEncoding.EncodeToString(png)
}
