// Package extract orchestrates the document pipeline: fetch from storage,
// obtain text (OCR) or page images, build the blueprint prompt, invoke the
// model with streaming, and parse one JSON object out of the accumulated
// output. It is structured into small files by concern:
//
//   - service.go: core Service type, constructor, pipeline entry points.
//   - errors.go: error types and helpers (IsDocumentNotFound, IsTooBusy, ...).
//   - admission.go: bounded in-flight admission for the HTTP surface.
//   - status.go: Status/Ready reporting.
//
// External packages should treat this package as the orchestration layer and
// use public methods only (New, ListDocuments, ListBlueprints, RunOCR,
// Extract, Status, Ready).
package extract
