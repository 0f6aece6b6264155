package ocr

import (
	"regexp"
	"strings"
)

var (
	reSpaces    = regexp.MustCompile(`[ \t]+`)
	reBlankRuns = regexp.MustCompile(`\n{3,}`)
	rePageNum   = regexp.MustCompile(`(?i)^(page\s*\d+|\d+\s*/\s*\d+|\d+)$`)
)

// ocrArtifacts are junk sequences engines leave behind.
var ocrArtifacts = []string{"�", ""}

// Clean normalizes OCR output before it is handed to the prompt builder:
// collapses whitespace, drops bare page-number lines and replacement
// characters, and truncates to maxChars at a paragraph boundary.
// maxChars <= 0 disables truncation.
func Clean(text string, maxChars int) string {
	if text == "" {
		return text
	}
	for _, a := range ocrArtifacts {
		text = strings.ReplaceAll(text, a, "")
	}
	text = reSpaces.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if rePageNum.MatchString(trimmed) {
			continue
		}
		out = append(out, trimmed)
	}
	text = strings.Join(out, "\n")
	text = reBlankRuns.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)

	if maxChars > 0 && len(text) > maxChars {
		truncated := text[:maxChars]
		// prefer cutting at a paragraph break if one lands in the second half
		if idx := strings.LastIndex(truncated, "\n\n"); idx > maxChars/2 {
			truncated = truncated[:idx]
		}
		text = truncated
	}
	return text
}
