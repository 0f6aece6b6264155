package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"docex/pkg/types"
)

type mockService struct {
	docs       []types.Document
	blueprints []types.BlueprintSummary
	status     types.StatusResponse
	ready      bool
	listErr    error
	ocrErr     error
	extractErr error
}

func (m *mockService) ListDocuments(ctx context.Context) ([]types.Document, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]types.Document(nil), m.docs...), nil
}

func (m *mockService) ListBlueprints() []types.BlueprintSummary {
	return append([]types.BlueprintSummary(nil), m.blueprints...)
}

func (m *mockService) Status() types.StatusResponse { return m.status }
func (m *mockService) Ready() bool                  { return m.ready }

func (m *mockService) RunOCR(ctx context.Context, req types.OCRRequest) (types.OCRResult, error) {
	if m.ocrErr != nil {
		return types.OCRResult{}, m.ocrErr
	}
	return types.OCRResult{Text: "hello world", Pages: 1, Backend: "textract"}, nil
}

func (m *mockService) Extract(ctx context.Context, req types.ExtractRequest, w io.Writer, flush func()) (types.ExtractResult, error) {
	if m.extractErr != nil {
		return types.ExtractResult{}, m.extractErr
	}
	if w != nil {
		_, _ = io.WriteString(w, "{\"total\"")
		_, _ = io.WriteString(w, ":12.5}")
	}
	return types.ExtractResult{
		Key:        req.Key,
		Blueprint:  "invoice",
		Model:      "test-model",
		Attributes: []byte(`{"total":12.5}`),
	}, nil
}

type mockHTTPError struct {
	msg  string
	code int
}

func (e mockHTTPError) Error() string   { return e.msg }
func (e mockHTTPError) StatusCode() int { return e.code }

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestDocumentsHandler(t *testing.T) {
	svc := &mockService{docs: []types.Document{{Key: "a.pdf"}, {Key: "b.pdf"}}}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/documents", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("content-type=%s", ct)
	}
	var body types.DocumentsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body.Documents) != 2 {
		t.Fatalf("documents len=%d", len(body.Documents))
	}
}

func TestBlueprintsHandler(t *testing.T) {
	svc := &mockService{blueprints: []types.BlueprintSummary{{ID: "invoice", Builtin: true}}}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/blueprints", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.BlueprintsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body.Blueprints) != 1 || body.Blueprints[0].ID != "invoice" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestStatusHandler(t *testing.T) {
	svc := &mockService{status: types.StatusResponse{Storage: "s3", Bucket: "docs", MaxInflight: 4}}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Bucket != "docs" || body.MaxInflight != 4 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestHealthz(t *testing.T) {
	r := NewMux(&mockService{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestReadyz(t *testing.T) {
	r := NewMux(&mockService{ready: true})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestReadyz_NotReady(t *testing.T) {
	r := NewMux(&mockService{ready: false})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "warming up") {
		t.Fatalf("body=%q", w.Body.String())
	}
}

func TestOCRHandler(t *testing.T) {
	w := postJSON(t, NewMux(&mockService{}), "/ocr", `{"key":"a.pdf"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var body types.OCRResult
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Text != "hello world" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestOCRHandler_MissingKey(t *testing.T) {
	w := postJSON(t, NewMux(&mockService{}), "/ocr", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestExtract_NonStreaming(t *testing.T) {
	w := postJSON(t, NewMux(&mockService{}), "/extract", `{"key":"a.pdf"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var body types.ExtractResult
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Blueprint != "invoice" {
		t.Fatalf("unexpected body: %+v", body)
	}
	// Attributes ride inline on the wire so non-Go clients can read them.
	if !strings.Contains(w.Body.String(), `"attributes":{"total":12.5}`) {
		t.Fatalf("attributes not inline JSON: %s", w.Body.String())
	}
}

func TestExtract_StreamingNDJSON(t *testing.T) {
	w := postJSON(t, NewMux(&mockService{}), "/extract", `{"key":"a.pdf","stream":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/x-ndjson") {
		t.Fatalf("content-type=%s", ct)
	}
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 2 delta lines + 1 result line, got %d: %q", len(lines), w.Body.String())
	}
	var delta struct {
		Delta string `json:"delta"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &delta); err != nil || delta.Delta == "" {
		t.Fatalf("first line is not a delta: %q (%v)", lines[0], err)
	}
	var final struct {
		Result types.ExtractResult `json:"result"`
	}
	if err := json.Unmarshal([]byte(lines[2]), &final); err != nil {
		t.Fatalf("last line is not a result: %q (%v)", lines[2], err)
	}
	if final.Result.Blueprint != "invoice" {
		t.Fatalf("unexpected result: %+v", final.Result)
	}
}

func TestExtract_BadJSON(t *testing.T) {
	w := postJSON(t, NewMux(&mockService{}), "/extract", "not-json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestExtract_MissingKey(t *testing.T) {
	w := postJSON(t, NewMux(&mockService{}), "/extract", `{"blueprint":"invoice"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestExtract_WrongContentType(t *testing.T) {
	r := NewMux(&mockService{})
	req := httptest.NewRequest(http.MethodPost, "/extract", bytes.NewBufferString(`{"key":"a.pdf"}`))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestExtract_HTTPErrorMapping(t *testing.T) {
	svc := &mockService{extractErr: mockHTTPError{msg: "teapot", code: http.StatusTeapot}}
	w := postJSON(t, NewMux(svc), "/extract", `{"key":"a.pdf"}`)
	if w.Code != http.StatusTeapot {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Code != http.StatusTeapot || body.Error != "teapot" {
		t.Fatalf("unexpected error payload: %+v", body)
	}
}
