package e2e

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"docex/internal/blueprint"
	"docex/internal/extract"
	"docex/internal/httpapi"
	"docex/internal/model"
	"docex/internal/ocr"
	"docex/internal/storage"
	"docex/pkg/types"
)

// createTempDocsDir creates a temporary directory populated with dummy .pdf
// files and returns the directory path and the keys.
func createTempDocsDir(t *testing.T, names ...string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		p := filepath.Join(dir, n)
		if err := os.WriteFile(p, []byte("%PDF-1.4 test"), 0o644); err != nil {
			t.Fatalf("write temp doc %s: %v", p, err)
		}
	}
	return dir, names
}

// stubOCR satisfies ocr.Extractor without touching any OCR engine.
type stubOCR struct{ text string }

func (s stubOCR) Extract(ctx context.Context, in ocr.Input) (types.OCRResult, error) {
	return types.OCRResult{Text: s.text, Pages: 1, Backend: "stub"}, nil
}

func (s stubOCR) Close() error { return nil }

// stubInvoker writes its canned output as two deltas. hold, when set, blocks
// the call until released or the context ends; used for backpressure tests.
type stubInvoker struct {
	output string
	hold   chan struct{}
}

func (si *stubInvoker) Invoke(ctx context.Context, req model.Request, w io.Writer, flush func()) (string, error) {
	if si.hold != nil {
		select {
		case <-si.hold:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	half := len(si.output) / 2
	for _, chunk := range []string{si.output[:half], si.output[half:]} {
		if w != nil {
			if _, err := io.WriteString(w, chunk); err != nil {
				return "", err
			}
			if flush != nil {
				flush()
			}
		}
	}
	return si.output, nil
}

// newServerForDir stands up the full HTTP stack over a local document
// directory with stubbed OCR and model collaborators.
func newServerForDir(t *testing.T, docsDir string, inv model.Invoker, maxInflight int, maxWait time.Duration) (*httptest.Server, *extract.Service) {
	t.Helper()
	store, err := storage.NewLocal(docsDir)
	if err != nil {
		t.Fatalf("local store: %v", err)
	}
	svc, err := extract.New(extract.Options{
		Store:            store,
		Registry:         blueprint.NewRegistry(),
		Invoker:          inv,
		Bucket:           docsDir,
		DefaultBlueprint: "invoice",
		DefaultModel:     "test-model",
		MaxInflight:      maxInflight,
		MaxWait:          maxWait,
		NewExtractor: func(backend string) (ocr.Extractor, error) {
			return stubOCR{text: "INVOICE #7\nTotal due: 99.00"}, nil
		},
	})
	if err != nil {
		t.Fatalf("extract.New: %v", err)
	}
	srv := httptest.NewServer(httpapi.NewMux(svc))
	t.Cleanup(srv.Close)
	return srv, svc
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

func postJSON(t *testing.T, url, payload string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(payload))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}
