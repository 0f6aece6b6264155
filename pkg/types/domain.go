package types

import (
	"encoding/json"
	"time"
)

// Document represents a discoverable source document in the bucket or local store.
type Document struct {
	// Storage key (object key or relative file path).
	// example: reports/q3-earnings.pdf
	Key string `json:"key" example:"reports/q3-earnings.pdf"`
	// Human-friendly name (base name without directory).
	// example: q3-earnings.pdf
	Name string `json:"name" example:"q3-earnings.pdf"`
	// Size of the document in bytes.
	// example: 482113
	Size int64 `json:"size" example:"482113"`
	// Last modification time (unix seconds), when known.
	// example: 1700000000
	ModifiedUnix int64 `json:"modified_unix,omitempty" example:"1700000000"`
}

// OCRResult is the outcome of running text extraction on one document.
type OCRResult struct {
	// Extracted text, pages concatenated in reading order.
	Text string `json:"text"`
	// Number of pages processed.
	// example: 4
	Pages int `json:"pages" example:"4"`
	// Mean confidence reported by the OCR engine, 0..1. Zero when the
	// backend does not report confidence (embedded text).
	// example: 0.987
	Confidence float64 `json:"confidence,omitempty" example:"0.987"`
	// Backend that produced the text (textract, textract-async, tesseract, embedded).
	// example: textract
	Backend string `json:"backend" example:"textract"`
	// Wall-clock duration of the extraction.
	Duration time.Duration `json:"duration_ns,omitempty"`
}

// ExtractResult is the final outcome of the extract pipeline for one document.
type ExtractResult struct {
	// Storage key of the source document.
	// example: reports/q3-earnings.pdf
	Key string `json:"key" example:"reports/q3-earnings.pdf"`
	// Blueprint used to shape the extraction.
	// example: invoice
	Blueprint string `json:"blueprint" example:"invoice"`
	// Model that produced the attributes.
	// example: anthropic.claude-3-5-sonnet-20241022-v2:0
	Model string `json:"model" example:"anthropic.claude-3-5-sonnet-20241022-v2:0"`
	// Extracted attributes as raw JSON (shaped by the blueprint schema).
	// RawMessage keeps them inline on the wire instead of base64-encoded.
	Attributes json.RawMessage `json:"attributes"`
	// Raw accumulated model output, kept for debugging prompt issues.
	RawOutput string `json:"raw_output,omitempty"`
	// Key the result JSON was uploaded to, when upload was requested.
	// example: results/q3-earnings.json
	ResultKey string `json:"result_key,omitempty" example:"results/q3-earnings.json"`
}
