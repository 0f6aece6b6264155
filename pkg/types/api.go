package types

// ExtractRequest represents a structured-extraction request payload.
type ExtractRequest struct {
	// Storage key of the document to process.
	// example: reports/q3-earnings.pdf
	Key string `json:"key" example:"reports/q3-earnings.pdf"`
	// Blueprint id naming the fields to extract. If empty, the server default is used.
	// example: invoice
	Blueprint string `json:"blueprint,omitempty" example:"invoice"`
	// Optional model id override. If empty, the server default is used.
	// example: anthropic.claude-3-5-sonnet-20241022-v2:0
	Model string `json:"model,omitempty"`
	// Input mode: "text" sends OCR text to the model, "vision" sends rendered
	// page images. Defaults to text.
	// example: text
	Mode string `json:"mode,omitempty" example:"text"`
	// If true, stream model deltas as NDJSON before the final result line.
	// example: true
	Stream bool `json:"stream,omitempty" example:"true"`
	// If true, upload the result JSON next to the source document.
	// example: false
	Upload bool `json:"upload,omitempty" example:"false"`
}

// OCRRequest represents an OCR-only request payload.
type OCRRequest struct {
	// Storage key of the document to process.
	// example: reports/q3-earnings.pdf
	Key string `json:"key" example:"reports/q3-earnings.pdf"`
	// Backend override: textract, textract-async, tesseract, embedded.
	// example: textract
	Backend string `json:"backend,omitempty" example:"textract"`
}

// DocumentsResponse wraps the list of documents returned by GET /documents.
type DocumentsResponse struct {
	// Documents visible under the configured bucket/prefix.
	Documents []Document `json:"documents"`
}

// BlueprintSummary describes one available blueprint for listings.
type BlueprintSummary struct {
	// Blueprint id.
	// example: invoice
	ID string `json:"id" example:"invoice"`
	// One-line description of what the blueprint extracts.
	// example: Line items, totals and parties from an invoice.
	Description string `json:"description"`
	// Field names the blueprint extracts.
	Fields []string `json:"fields"`
	// True for blueprints compiled into the binary.
	// example: true
	Builtin bool `json:"builtin" example:"true"`
}

// BlueprintsResponse wraps the list returned by GET /blueprints.
type BlueprintsResponse struct {
	Blueprints []BlueprintSummary `json:"blueprints"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Storage backend in use (s3 or local).
	// example: s3
	Storage string `json:"storage" example:"s3"`
	// Bucket or root directory documents are read from.
	// example: document-samples
	Bucket string `json:"bucket" example:"document-samples"`
	// OCR backend in use.
	// example: textract
	OCRBackend string `json:"ocr_backend" example:"textract"`
	// Default model id for extraction.
	Model string `json:"model"`
	// Number of in-flight extract requests.
	// example: 1
	Inflight int `json:"inflight" example:"1"`
	// Maximum concurrent extract requests before backpressure triggers.
	// example: 4
	MaxInflight int `json:"max_inflight" example:"4"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
	// Total extractions served since start.
	// example: 12
	ExtractionsTotal uint64 `json:"extractions_total" example:"12"`
	// Last error observed by the service (if any).
	LastError string `json:"last_error,omitempty"`
}
