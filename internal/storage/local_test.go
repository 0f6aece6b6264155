package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLocalListFiltersPDFs(t *testing.T) {
	d := t.TempDir()
	writeTempFile(t, d, "a.pdf", "%PDF-1.4")
	writeTempFile(t, d, "sub/b.PDF", "%PDF-1.4")
	writeTempFile(t, d, "notes.txt", "ignore me")
	writeTempFile(t, d, "sub/deep/c.pdf", "%PDF-1.4")

	st, err := NewLocal(d)
	if err != nil {
		t.Fatalf("new local: %v", err)
	}
	docs, err := st.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 pdfs, got %d: %+v", len(docs), docs)
	}
	keys := map[string]bool{}
	for _, doc := range docs {
		keys[doc.Key] = true
		if doc.Size == 0 || doc.Name == "" || doc.ModifiedUnix == 0 {
			t.Fatalf("incomplete document: %+v", doc)
		}
	}
	for _, want := range []string{"a.pdf", "sub/b.PDF", "sub/deep/c.pdf"} {
		if !keys[want] {
			t.Fatalf("missing key %q in %v", want, keys)
		}
	}
}

func TestLocalListEmptyIsNotError(t *testing.T) {
	st, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("new local: %v", err)
	}
	docs, err := st.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected empty, got %+v", docs)
	}
}

func TestLocalGetPutRoundTrip(t *testing.T) {
	st, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("new local: %v", err)
	}
	ctx := context.Background()
	if err := st.Put(ctx, "results/a.json", []byte(`{"ok":true}`), "application/json"); err != nil {
		t.Fatalf("put: %v", err)
	}
	b, err := st.Get(ctx, "results/a.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(b) != `{"ok":true}` {
		t.Fatalf("round trip: %q", b)
	}
}

func TestNewLocalRejectsMissingDir(t *testing.T) {
	if _, err := NewLocal("/definitely/not/a/dir-98765"); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}

func TestResultKey(t *testing.T) {
	if got := ResultKey("reports/q3.pdf"); got != "results/reports/q3.json" {
		t.Fatalf("got %q", got)
	}
	if got := ResultKey("plain"); got != "results/plain.json" {
		t.Fatalf("got %q", got)
	}
}
