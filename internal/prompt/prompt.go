// Package prompt builds the instructions sent to the foundation model. All
// builders demand a single strict JSON object so downstream parsing stays
// trivial.
package prompt

import (
	"fmt"
	"strings"

	"docex/internal/blueprint"
)

// System is the preamble used for every extraction call.
const System = `You are a document data extraction engine. You read documents and return structured attributes as JSON. You never explain, apologize, or add prose around the JSON.`

const rules = `Rules:
- Output exactly one JSON object matching the schema below.
- The output MUST start with { and end with }.
- No markdown fences, no comments, no text outside the JSON.
- Use null for attributes that are absent from the document.
- Copy values as printed; normalize dates to YYYY-MM-DD when unambiguous.`

// ForText builds the prompt for OCR-text extraction.
func ForText(bp blueprint.Blueprint, ocrText string) (string, error) {
	schema, err := bp.SchemaJSON()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("Extract the following attributes from the document text below.\n\n")
	b.WriteString(rules)
	b.WriteString("\n\nJSON schema of the expected output:\n")
	b.WriteString(schema)
	b.WriteString("\n\nDocument text (OCR):\n<document>\n")
	b.WriteString(ocrText)
	b.WriteString("\n</document>")
	return b.String(), nil
}

// ForVision builds the prompt for page-image extraction; the images ride
// along as separate content blocks.
func ForVision(bp blueprint.Blueprint, pageCount int) (string, error) {
	schema, err := bp.SchemaJSON()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "The attached %d images are the pages of one document, in order.\n", pageCount)
	b.WriteString("Extract the following attributes from them.\n\n")
	b.WriteString(rules)
	b.WriteString("\n\nJSON schema of the expected output:\n")
	b.WriteString(schema)
	return b.String(), nil
}
