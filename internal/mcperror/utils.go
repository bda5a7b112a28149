// Package mcperror defines error types, codes, and utilities for MCP and JSON-RPC.
// file: internal/mcperror/utils.go
package mcperror

import (
	"github.com/cockroachdb/errors"
)

// IsResourceNotFoundError checks if the error is a resource not found error.
func IsResourceNotFoundError(err error) bool {
	return errors.Is(err, ErrResourceNotFound)
}

// IsToolNotFoundError checks if the error is a tool not found error.
func IsToolNotFoundError(err error) bool {
	return errors.Is(err, ErrToolNotFound)
}

// IsInvalidArgumentsError checks if the error is an invalid arguments error.
func IsInvalidArgumentsError(err error) bool {
	return errors.Is(err, ErrInvalidArguments)
}

// allDetailed walks the unwrap chain collecting every attached
// *detailedError, outermost first. Later (closer to the root cause) entries
// lose ties, matching the teacher convention of letting the outermost
// wrapper take precedence.
func allDetailed(err error) []*detailedError {
	var found []*detailedError
	for err != nil {
		var de *detailedError
		if errors.As(err, &de) {
			found = append(found, de)
			err = de.cause
			continue
		}
		break
	}
	return found
}

// GetErrorCategory gets the error category from an error.
func GetErrorCategory(err error) string {
	if chain := allDetailed(err); len(chain) > 0 {
		return chain[0].category
	}
	return ""
}

// GetErrorCode gets the JSON-RPC error code from an error.
func GetErrorCode(err error) int {
	if chain := allDetailed(err); len(chain) > 0 {
		return chain[0].code
	}
	return CodeInternalError
}

// GetErrorProperties extracts all properties from an error, giving
// precedence to the outermost wrapper on key collisions.
func GetErrorProperties(err error) map[string]interface{} {
	properties := make(map[string]interface{})
	for _, de := range allDetailed(err) {
		for k, v := range de.properties {
			if _, exists := properties[k]; !exists {
				properties[k] = v
			}
		}
	}
	return properties
}

// ErrorToMap converts an error to a map suitable for JSON-RPC error responses.
func ErrorToMap(err error) map[string]interface{} {
	if err == nil {
		return nil
	}

	code := GetErrorCode(err)
	properties := GetErrorProperties(err)

	errorMap := map[string]interface{}{
		"code":    code,
		"message": UserFacingMessage(code),
	}

	dataProps := make(map[string]interface{})
	for k, v := range properties {
		if k != "category" && k != "code" && k != "stack" &&
			!containsSensitiveKeyword(k) {
			dataProps[k] = v
		}
	}

	if len(dataProps) > 0 {
		errorMap["data"] = dataProps
	}

	return errorMap
}

// containsSensitiveKeyword checks if a key might contain sensitive information.
func containsSensitiveKeyword(key string) bool {
	sensitiveKeywords := []string{"token", "password", "secret", "key", "auth", "credential"}
	for _, keyword := range sensitiveKeywords {
		if key == keyword {
			return true
		}
	}
	return false
}
