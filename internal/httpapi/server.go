package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docex/internal/extract"
	"docex/internal/model"
	"docex/internal/ocr"
	"docex/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	ListDocuments(ctx context.Context) ([]types.Document, error)
	ListBlueprints() []types.BlueprintSummary
	Status() types.StatusResponse
	RunOCR(ctx context.Context, req types.OCRRequest) (types.OCRResult, error)
	Extract(ctx context.Context, req types.ExtractRequest, w io.Writer, flush func()) (types.ExtractResult, error)
	Ready() bool
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/documents", handleDocuments(svc))
	r.Get("/blueprints", handleBlueprints(svc))
	r.Get("/status", handleStatus(svc))
	r.Post("/ocr", handleOCR(svc))
	r.Post("/extract", handleExtract(svc))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("warming up"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// handleDocuments lists PDF documents under the configured bucket/prefix.
//
// @Summary  List documents
// @Produce  json
// @Success  200 {object} types.DocumentsResponse
// @Router   /documents [get]
func handleDocuments(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := svc.ListDocuments(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, types.DocumentsResponse{Documents: docs})
	}
}

// handleBlueprints lists the registered blueprints.
//
// @Summary  List blueprints
// @Produce  json
// @Success  200 {object} types.BlueprintsResponse
// @Router   /blueprints [get]
func handleBlueprints(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, types.BlueprintsResponse{Blueprints: svc.ListBlueprints()})
	}
}

// handleStatus reports service counters and configuration.
//
// @Summary  Service status
// @Produce  json
// @Success  200 {object} types.StatusResponse
// @Router   /status [get]
func handleStatus(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.Status())
	}
}

// handleOCR runs text extraction on one document and returns the result.
//
// @Summary  OCR one document
// @Accept   json
// @Produce  json
// @Param    request body types.OCRRequest true "document key and optional backend"
// @Success  200 {object} types.OCRResult
// @Router   /ocr [post]
func handleOCR(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.OCRRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Key) == "" {
			writeJSONError(w, http.StatusBadRequest, "key is required")
			return
		}
		ctx, cancel := requestContext(r)
		defer cancel()
		res, err := svc.RunOCR(ctx, req)
		if err != nil {
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			writeServiceError(w, err)
			return
		}
		writeJSON(w, res)
	}
}

// handleExtract runs the full pipeline. With "stream": true the response is
// NDJSON: one {"delta": ...} line per model chunk, then a {"result": ...}
// line. Without it, a single JSON result is returned.
//
// @Summary  Extract structured attributes from one document
// @Accept   json
// @Produce  json
// @Param    request body types.ExtractRequest true "extraction request"
// @Success  200 {object} types.ExtractResult
// @Failure  404 {object} types.ErrorResponse
// @Failure  429 {object} types.ErrorResponse
// @Router   /extract [post]
func handleExtract(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ExtractRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Key) == "" {
			writeJSONError(w, http.StatusBadRequest, "key is required")
			return
		}

		ctx, cancel := requestContext(r)
		defer cancel()

		lvl := requestLogLevel(r)
		start := time.Now()
		logExtract(r, lvl, "extract start", 0, 0, nil)

		// The delta writer flushes after every line itself, so the service
		// gets a nil flush func.
		var sink io.Writer
		if req.Stream {
			w.Header().Set("Content-Type", "application/x-ndjson")
			dw := &deltaWriter{w: w}
			if f, ok := w.(http.Flusher); ok {
				dw.flush = f.Flush
			}
			sink = dw
			if lvl >= LevelDebug {
				sink = io.MultiWriter(dw, &loggingLineWriter{})
			}
		}

		res, err := svc.Extract(ctx, req, sink, nil)
		if err != nil {
			// Client disconnect or shutdown: nothing useful left to write.
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			if req.Stream {
				// Headers are gone; report the failure as a final NDJSON line.
				writeNDJSONLine(w, map[string]any{"error": err.Error(), "code": statusForError(err)})
				logExtract(r, lvl, "extract end", statusForError(err), time.Since(start), err)
				return
			}
			status := statusForError(err)
			if status == http.StatusTooManyRequests {
				IncrementBackpressure("extract")
			}
			writeJSONError(w, status, errorMessage(err))
			logExtract(r, lvl, "extract end", status, time.Since(start), err)
			return
		}

		if req.Stream {
			writeNDJSONLine(w, map[string]any{"result": res})
		} else {
			writeJSON(w, res)
		}
		logExtract(r, lvl, "extract end", http.StatusOK, time.Since(start), nil)
	}
}

// decodeJSONBody enforces content type and size limits, then decodes into v.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		// Oversized bodies also land here; 400 avoids leaking size details.
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// requestContext joins the request context with the server base context and
// applies the configured extract timeout.
func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	if sec := extractTimeout; sec > 0 {
		tctx, tcancel := context.WithTimeout(ctx, time.Duration(sec)*time.Second)
		return tctx, func() { tcancel(); cancel() }
	}
	return ctx, cancel
}

// statusForError maps well-known service errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case extract.IsDocumentNotFound(err), extract.IsBlueprintNotFound(err):
		return http.StatusNotFound
	case extract.IsTooBusy(err):
		return http.StatusTooManyRequests
	case extract.IsResponseInvalid(err), model.IsAccessDenied(err):
		return http.StatusBadGateway
	case ocr.IsUnknownBackend(err):
		return http.StatusBadRequest
	case ocr.IsUnavailable(err):
		return http.StatusServiceUnavailable
	}
	if he, ok := err.(HTTPError); ok {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

// errorMessage attaches the remediation hint to access-denied failures; the
// rest keep their plain message.
func errorMessage(err error) string {
	if model.IsAccessDenied(err) {
		return err.Error() + ": " + model.AccessDeniedHint
	}
	return err.Error()
}

func writeServiceError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status == http.StatusTooManyRequests {
		IncrementBackpressure("ocr")
	}
	writeJSONError(w, status, errorMessage(err))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}

func writeNDJSONLine(w http.ResponseWriter, v any) {
	_ = json.NewEncoder(w).Encode(v)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// deltaWriter wraps raw model text chunks into {"delta": ...} NDJSON lines.
type deltaWriter struct {
	w     io.Writer
	flush func()
}

func (d *deltaWriter) Write(p []byte) (int, error) {
	line, err := json.Marshal(map[string]string{"delta": string(p)})
	if err != nil {
		return 0, err
	}
	if _, err := d.w.Write(append(line, '\n')); err != nil {
		return 0, err
	}
	if d.flush != nil {
		d.flush()
	}
	return len(p), nil
}

func logExtract(r *http.Request, lvl LogLevel, msg string, status int, dur time.Duration, err error) {
	if lvl < LevelInfo {
		return
	}
	if zlog != nil {
		z := zlog.Info().Str("path", r.URL.Path)
		if status != 0 {
			z = z.Int("status", status).Dur("dur", dur)
		}
		if rid := middleware.GetReqID(r.Context()); rid != "" {
			z = z.Str("request_id", rid)
		}
		if err != nil {
			z = z.Err(err)
		}
		z.Msg(msg)
		return
	}
	if err != nil {
		log.Printf("%s path=%s status=%d dur=%s err=%v", msg, r.URL.Path, status, dur, err)
		return
	}
	log.Printf("%s path=%s status=%d dur=%s", msg, r.URL.Path, status, dur)
}
