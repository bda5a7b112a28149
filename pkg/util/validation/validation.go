// Package validation holds lightweight, regex-based checks for MCP naming
// and content rules that don't need a full JSON Schema pass.
// file: pkg/util/validation/validation.go
package validation

import "regexp"

var mimeTypePattern = regexp.MustCompile(`^[a-z]+/[a-z0-9\-\.\+]*(;\s?[a-z0-9\-\.]+\s*=\s*[a-z0-9\-\.]+)*$`)

// ValidateMimeType checks if a MIME type is in a valid format.
func ValidateMimeType(mimeType string) bool {
	return mimeTypePattern.MatchString(mimeType)
}

var toolNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidateToolName checks if a tool name follows this SDK's naming rule:
// lowercase alphanumeric with underscores, starting with a letter.
func ValidateToolName(name string) bool {
	return toolNamePattern.MatchString(name)
}

// ValidateRequired checks if all required fields exist in a map, returning
// the names of whichever are missing (nil if none).
func ValidateRequired(data map[string]interface{}, requiredFields []string) []string {
	var missing []string
	for _, field := range requiredFields {
		if _, exists := data[field]; !exists {
			missing = append(missing, field)
		}
	}
	return missing
}
