// Package storage abstracts where source documents live. Two backends are
// provided: an S3 bucket (the normal case) and a local directory for offline
// runs. Listing only surfaces PDF documents; everything else in the bucket is
// ignored.
package storage

import (
	"context"
	"strings"

	"docex/pkg/types"
)

// Store is the minimal object access the pipeline needs.
type Store interface {
	// List returns PDF documents under the configured prefix.
	List(ctx context.Context) ([]types.Document, error)
	// Get fetches a whole object body.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put writes an object body with the given content type.
	Put(ctx context.Context, key string, body []byte, contentType string) error
	// Name identifies the backend for status reporting ("s3" or "local").
	Name() string
}

// isPDF filters listings the same way regardless of backend.
func isPDF(key string) bool {
	return strings.HasSuffix(strings.ToLower(key), ".pdf")
}

// ResultKey derives the upload key for an extraction result from the source
// document key: the extension is swapped for .json under a results/ prefix.
func ResultKey(docKey string) string {
	base := docKey
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return "results/" + base + ".json"
}
