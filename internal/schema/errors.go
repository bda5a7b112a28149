// Package schema handles loading, compiling, and validating MCP JSON schemas.
// This file defines the package's error vocabulary. A schema failure is
// wrapped through internal/mcperror under CategorySchema so it carries the
// same category/code pair as any other internal error, while still exposing
// the JSON-pointer paths (SchemaPath/InstancePath) that pinpoint where in the
// document a validation failed.
// file: internal/schema/errors.go
package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dkoosis/mcpsdk/internal/mcperror"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrorCode identifies which stage of schema handling failed. Values mirror
// the matching mcperror.Code* constant so ErrorCode(e.Code) is always a valid
// JSON-RPC error code, not a package-private numbering scheme.
type ErrorCode int

const (
	ErrSchemaNotFound      ErrorCode = mcperror.CodeSchemaNotFound
	ErrSchemaLoadFailed    ErrorCode = mcperror.CodeSchemaLoadFailed
	ErrSchemaCompileFailed ErrorCode = mcperror.CodeSchemaCompileFailed
	ErrValidationFailed    ErrorCode = mcperror.CodeValidationFailed
	ErrInvalidJSONFormat   ErrorCode = mcperror.CodeInvalidJSONFormat
)

// Sentinel causes, independent of the wire code, for errors.Is checks.
var (
	errNotFound   = errors.New("schema definition not found")
	errLoad       = errors.New("schema could not be loaded")
	errCompile    = errors.New("schema failed to compile")
	errValidation = errors.New("instance failed schema validation")
	errBadJSON    = errors.New("instance is not valid JSON")
)

func sentinelFor(code ErrorCode) error {
	switch code {
	case ErrSchemaNotFound:
		return errNotFound
	case ErrSchemaLoadFailed:
		return errLoad
	case ErrSchemaCompileFailed:
		return errCompile
	case ErrInvalidJSONFormat:
		return errBadJSON
	default:
		return errValidation
	}
}

// ValidationError reports a schema-stage failure. It is the domain-specific
// wrapper schema callers see; GetErrorCategory/GetErrorCode/ToJSONRPCError
// still work on it because Cause is an mcperror.ErrorWithDetails value.
type ValidationError struct {
	Code         ErrorCode
	Message      string
	Cause        error
	SchemaPath   string
	InstancePath string
	Context      map[string]interface{}
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "schema: %s", e.Message)
	if e.InstancePath != "" {
		fmt.Fprintf(&b, " (at %s)", e.InstancePath)
	}
	if e.SchemaPath != "" {
		fmt.Fprintf(&b, " [schema: %s]", e.SchemaPath)
	}
	return b.String()
}

// Unwrap exposes the mcperror-wrapped cause for errors.Is/As/category lookup.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// WithContext attaches a debugging key/value pair and returns e for chaining.
func (e *ValidationError) WithContext(key string, value interface{}) *ValidationError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewValidationError builds a ValidationError whose Cause is routed through
// mcperror.ErrorWithDetails under CategorySchema, so a schema failure reads
// the same way to a caller as a transport or tool-dispatch failure.
func NewValidationError(code ErrorCode, message string, cause error) *ValidationError {
	var marked error
	if cause != nil {
		marked = errors.Mark(errors.Wrap(cause, message), sentinelFor(code))
	} else {
		marked = errors.Mark(errors.Newf("%s", message), sentinelFor(code))
	}
	return &ValidationError{
		Code:    code,
		Message: message,
		Cause:   mcperror.ErrorWithDetails(marked, mcperror.CategorySchema, int(code), nil),
	}
}

// convertValidationError turns a jsonschema/v5 failure into a ValidationError,
// carrying over the instance/schema pointers and a short corrective hint.
func convertValidationError(valErr *jsonschema.ValidationError, messageType string, data []byte) *ValidationError {
	message := valErr.Message
	if message == "" {
		message = "schema validation failed"
	}

	out := NewValidationError(ErrValidationFailed, message, valErr)
	out.InstancePath = valErr.InstanceLocation
	out.SchemaPath = valErr.KeywordLocation
	out.WithContext("messageType", messageType)
	out.WithContext("dataPreview", calculatePreview(data))
	out.WithContext("suggestion", suggestFix(message, valErr.InstanceLocation))

	if causes := flattenCauses(valErr, nil); len(causes) > 0 {
		out.WithContext("causes", causes)
	}
	return out
}

// flattenCauses walks nested jsonschema causes into a flat list of
// instance/keyword/message triples, depth-first.
func flattenCauses(valErr *jsonschema.ValidationError, acc []map[string]string) []map[string]string {
	for _, cause := range valErr.Causes {
		entry := map[string]string{}
		if cause.InstanceLocation != "" {
			entry["instanceLocation"] = cause.InstanceLocation
		}
		if cause.KeywordLocation != "" {
			entry["keywordLocation"] = cause.KeywordLocation
		}
		if cause.Message != "" {
			entry["message"] = cause.Message
		}
		if len(entry) > 0 {
			acc = append(acc, entry)
		}
		acc = flattenCauses(cause, acc)
	}
	return acc
}

var reQuotedToken = regexp.MustCompile(`['"]([^'"]+)['"]`)

// suggestFix turns a jsonschema/v5 validation message into a short
// corrective hint, covering the handful of failure shapes the library
// actually emits (missing property, type mismatch, pattern, additional
// properties, enum, format). Anything else echoes the raw message back.
func suggestFix(msg, instancePath string) string {
	path := instancePath
	switch {
	case path == "", path == "/":
		path = "the message root"
	case !strings.HasPrefix(path, "/"):
		path = "/" + path
	}

	quoted := func() (string, bool) {
		m := reQuotedToken.FindStringSubmatch(msg)
		if m == nil {
			return "", false
		}
		return m[1], true
	}

	switch {
	case strings.Contains(msg, "required property"), strings.Contains(msg, "missing properties"):
		if name, ok := quoted(); ok {
			return fmt.Sprintf("add the required field %q to %s", name, path)
		}
		return fmt.Sprintf("add the missing required field(s) to %s", path)
	case strings.Contains(msg, "additionalProperties"):
		if name, ok := quoted(); ok {
			return fmt.Sprintf("remove unexpected property %q from %s", name, path)
		}
		return fmt.Sprintf("remove properties not defined by the schema from %s", path)
	case strings.Contains(msg, "invalid type"), strings.Contains(msg, "expected"):
		return fmt.Sprintf("check the value type at %s against the schema", path)
	case strings.Contains(msg, "does not match pattern"):
		return fmt.Sprintf("the value at %s must match the schema's required pattern", path)
	case strings.Contains(msg, "enum"), strings.Contains(msg, "one of"):
		return fmt.Sprintf("the value at %s must be one of the schema's allowed values", path)
	case strings.Contains(msg, "format"):
		return fmt.Sprintf("the value at %s does not satisfy its required format", path)
	default:
		return fmt.Sprintf("review %s against the schema: %s", path, msg)
	}
}
