// Package schema handles loading, compiling, and validating MCP JSON schemas.
// file: internal/schema/helpers.go
package schema

import "strings"

const previewRuneLimit = 100

// calculatePreview renders up to previewRuneLimit runes of data for safe
// inclusion in a log line or error context, with control characters
// replaced by '.' and an ellipsis marking truncation. Operates rune-wise
// rather than byte-wise so a truncated multi-byte sequence never produces
// invalid UTF-8 in the preview.
func calculatePreview(data []byte) string {
	var b strings.Builder
	count := 0
	for _, r := range string(data) {
		if count == previewRuneLimit {
			b.WriteString("...")
			return b.String()
		}
		if r < 32 || r == 127 {
			r = '.'
		}
		b.WriteRune(r)
		count++
	}
	return b.String()
}
