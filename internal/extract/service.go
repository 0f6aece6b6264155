package extract

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"docex/internal/blueprint"
	"docex/internal/jsonutil"
	"docex/internal/model"
	"docex/internal/ocr"
	"docex/internal/prompt"
	"docex/internal/render"
	"docex/internal/storage"
	"docex/pkg/types"
)

// Input modes accepted in extract requests.
const (
	ModeText   = "text"
	ModeVision = "vision"
)

// Options configures a Service. Zero values fall back to sensible defaults
// in New; Store, Registry and Invoker are required.
type Options struct {
	Store    storage.Store
	Registry *blueprint.Registry
	Invoker  model.Invoker
	// Textract is the AWS client handed to the OCR backends. May be nil for
	// offline runs restricted to the embedded/tesseract backends.
	Textract ocr.TextractAPI
	// NewExtractor overrides how OCR backends are constructed. Nil means
	// ocr.New with this service's deps. Embedders with custom engines (and
	// tests) plug in here.
	NewExtractor func(backend string) (ocr.Extractor, error)
	// Bucket names the S3 bucket for async OCR jobs and status reporting.
	// For the local store this is the root directory.
	Bucket string

	DefaultBlueprint string
	DefaultModel     string
	DefaultBackend   string

	RenderDPI int
	MaxPages  int
	MaxChars  int
	Languages []string

	// MaxInflight bounds concurrent Extract calls; MaxWait is how long a
	// request queues before it is rejected as too busy.
	MaxInflight int
	MaxWait     time.Duration

	Log zerolog.Logger
}

// Service orchestrates the pipeline: storage fetch, OCR or page render,
// prompt build, streamed model invocation, JSON extraction.
type Service struct {
	store    storage.Store
	registry *blueprint.Registry
	invoker  model.Invoker

	bucket           string
	defaultBlueprint string
	defaultModel     string
	defaultBackend   string
	ocrDeps          ocr.Deps
	renderOpts       render.Options

	// Indirections for tests; default to the real implementations.
	newExtractor func(backend string) (ocr.Extractor, error)
	renderPages  func(ctx context.Context, pdf []byte, opts render.Options) ([][]byte, error)

	gate *gate
	log  zerolog.Logger

	stats serviceStats
}

// New wires a Service from its collaborators.
func New(opts Options) (*Service, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("extract: Store is required")
	}
	if opts.Registry == nil {
		return nil, fmt.Errorf("extract: Registry is required")
	}
	if opts.Invoker == nil {
		return nil, fmt.Errorf("extract: Invoker is required")
	}
	if opts.DefaultBackend == "" {
		opts.DefaultBackend = ocr.BackendTextract
	}
	if opts.MaxInflight <= 0 {
		opts.MaxInflight = 4
	}
	if opts.MaxWait <= 0 {
		opts.MaxWait = 30 * time.Second
	}
	deps := ocr.Deps{
		Textract:  opts.Textract,
		RenderDPI: opts.RenderDPI,
		MaxPages:  opts.MaxPages,
		MaxChars:  opts.MaxChars,
		Languages: opts.Languages,
	}
	s := &Service{
		store:            opts.Store,
		registry:         opts.Registry,
		invoker:          opts.Invoker,
		bucket:           opts.Bucket,
		defaultBlueprint: opts.DefaultBlueprint,
		defaultModel:     opts.DefaultModel,
		defaultBackend:   opts.DefaultBackend,
		ocrDeps:          deps,
		renderOpts:       render.Options{DPI: opts.RenderDPI, MaxPages: opts.MaxPages},
		gate:             newGate(opts.MaxInflight, opts.MaxWait),
		log:              opts.Log,
	}
	s.newExtractor = opts.NewExtractor
	if s.newExtractor == nil {
		s.newExtractor = func(backend string) (ocr.Extractor, error) { return ocr.New(backend, s.ocrDeps) }
	}
	s.renderPages = render.PageImages
	s.stats.started = time.Now()
	return s, nil
}

// Warmup verifies the storage backend is reachable by listing once. Success
// flips readiness; failure is returned so serve can log it and keep going.
func (s *Service) Warmup(ctx context.Context) error {
	docs, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("warmup list: %w", err)
	}
	s.stats.ready.Store(true)
	s.log.Info().Int("documents", len(docs)).Str("storage", s.store.Name()).Msg("storage reachable")
	return nil
}

// ListDocuments returns the PDF documents visible in the configured store.
// An empty bucket/prefix is not an error; the slice is just empty.
func (s *Service) ListDocuments(ctx context.Context) ([]types.Document, error) {
	docs, err := s.store.List(ctx)
	if err != nil {
		s.stats.noteError(err)
		return nil, err
	}
	s.stats.ready.Store(true)
	if docs == nil {
		docs = []types.Document{}
	}
	return docs, nil
}

// ListBlueprints summarizes the registered blueprints for listings.
func (s *Service) ListBlueprints() []types.BlueprintSummary {
	bps := s.registry.List()
	out := make([]types.BlueprintSummary, 0, len(bps))
	for _, b := range bps {
		out = append(out, types.BlueprintSummary{
			ID:          b.ID,
			Description: b.Description,
			Fields:      b.FieldNames(),
			Builtin:     b.Builtin,
		})
	}
	return out
}

// RunOCR extracts plain text from one document using the requested backend
// (or the configured default).
func (s *Service) RunOCR(ctx context.Context, req types.OCRRequest) (types.OCRResult, error) {
	backend := req.Backend
	if backend == "" {
		backend = s.defaultBackend
	}
	ex, err := s.newExtractor(backend)
	if err != nil {
		return types.OCRResult{}, err
	}
	defer ex.Close()

	in := ocr.Input{Key: req.Key}
	if s.store.Name() == "s3" {
		in.Bucket = s.bucket
	}
	// The async backend reads the object straight from S3; everything else
	// wants the raw bytes. With local storage the bucket stays empty and the
	// async backend refuses the job with a usable message.
	if backend != ocr.BackendTextractAsync {
		b, err := s.store.Get(ctx, req.Key)
		if err != nil {
			err = wrapGetErr(req.Key, err)
			s.stats.noteError(err)
			return types.OCRResult{}, err
		}
		in.Bytes = b
	}
	res, err := ex.Extract(ctx, in)
	if err != nil {
		s.stats.noteError(err)
		return types.OCRResult{}, err
	}
	s.stats.ready.Store(true)
	s.log.Debug().Str("key", req.Key).Str("backend", res.Backend).
		Int("pages", res.Pages).Int("chars", len(res.Text)).Msg("ocr done")
	return res, nil
}

// Extract runs the full pipeline for one document. Model text deltas are
// written to w as they arrive (flush called after each when non-nil); the
// parsed result is returned at the end. Pass a nil w to discard the stream.
func (s *Service) Extract(ctx context.Context, req types.ExtractRequest, w io.Writer, flush func()) (types.ExtractResult, error) {
	release, err := s.gate.acquire(ctx)
	if err != nil {
		s.stats.noteError(err)
		return types.ExtractResult{}, err
	}
	defer release()

	bpID := req.Blueprint
	if bpID == "" {
		bpID = s.defaultBlueprint
	}
	bp, ok := s.registry.Get(bpID)
	if !ok {
		err := blueprintNotFoundError{id: bpID}
		s.stats.noteError(err)
		return types.ExtractResult{}, err
	}
	modelID := req.Model
	if modelID == "" {
		modelID = s.defaultModel
	}
	mode := req.Mode
	if mode == "" {
		mode = ModeText
	}

	start := time.Now()
	mreq := model.Request{Model: modelID, System: prompt.System}
	switch mode {
	case ModeText:
		ocrRes, err := s.RunOCR(ctx, types.OCRRequest{Key: req.Key})
		if err != nil {
			return types.ExtractResult{}, err
		}
		p, err := prompt.ForText(bp, ocrRes.Text)
		if err != nil {
			return types.ExtractResult{}, err
		}
		mreq.Prompt = p
	case ModeVision:
		pdf, err := s.store.Get(ctx, req.Key)
		if err != nil {
			err = wrapGetErr(req.Key, err)
			s.stats.noteError(err)
			return types.ExtractResult{}, err
		}
		images, err := s.renderPages(ctx, pdf, s.renderOpts)
		if err != nil {
			s.stats.noteError(err)
			return types.ExtractResult{}, err
		}
		p, err := prompt.ForVision(bp, len(images))
		if err != nil {
			return types.ExtractResult{}, err
		}
		mreq.Prompt = p
		mreq.Images = images
	default:
		return types.ExtractResult{}, fmt.Errorf("unknown mode %q (want %s or %s)", mode, ModeText, ModeVision)
	}

	s.log.Info().Str("key", req.Key).Str("blueprint", bp.ID).Str("model", modelID).
		Str("mode", mode).Msg("extract start")
	raw, err := s.invoker.Invoke(ctx, mreq, w, flush)
	if err != nil {
		s.stats.noteError(err)
		return types.ExtractResult{}, err
	}
	s.log.Debug().Str("raw", trimForLog(raw, 200)).Msg("model output")

	obj, err := jsonutil.ExtractObject(raw)
	if err != nil {
		err = wrapParseErr(err)
		s.stats.noteError(err)
		return types.ExtractResult{}, err
	}
	decorated, err := jsonutil.Decorate(obj, jsonutil.Meta{
		SourceKey: req.Key,
		Blueprint: bp.ID,
		Model:     modelID,
		Duration:  time.Since(start),
	})
	if err != nil {
		return types.ExtractResult{}, fmt.Errorf("decorate result: %w", err)
	}

	res := types.ExtractResult{
		Key:        req.Key,
		Blueprint:  bp.ID,
		Model:      modelID,
		Attributes: jsonutil.Pretty([]byte(decorated)),
		RawOutput:  raw,
	}
	if req.Upload {
		rk := storage.ResultKey(req.Key)
		if err := s.store.Put(ctx, rk, res.Attributes, "application/json"); err != nil {
			s.stats.noteError(err)
			return types.ExtractResult{}, fmt.Errorf("upload result: %w", err)
		}
		res.ResultKey = rk
	}
	s.stats.extractions.Add(1)
	s.stats.ready.Store(true)
	s.log.Info().Str("key", req.Key).Dur("dur", time.Since(start)).
		Int("chars", len(raw)).Msg("extract end")
	return res, nil
}

// trimForLog keeps log lines readable when model output is dumped at debug.
func trimForLog(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
