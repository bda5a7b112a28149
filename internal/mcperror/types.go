// Package mcperror defines error types, codes, and utilities for MCP and JSON-RPC.
// file: internal/mcperror/types.go
package mcperror

import (
	"github.com/cockroachdb/errors"
)

// Base sentinel errors used throughout the runtime. Callers test for these
// with errors.Is rather than comparing codes directly.
var (
	ErrResourceNotFound  = errors.New("resource not found")
	ErrToolNotFound      = errors.New("tool not found")
	ErrPromptNotFound    = errors.New("prompt not found")
	ErrInvalidArguments  = errors.New("invalid arguments")
	ErrTimeout           = errors.New("operation timed out")
	ErrCancelled         = errors.New("request cancelled")
	ErrProtocolMismatch  = errors.New("protocol version mismatch")
	ErrConnectionClosed  = errors.New("connection closed")
	ErrNameCollision     = errors.New("name collision")
	ErrNotInitialized    = errors.New("server not initialized")
	ErrDuplicateRegister = errors.New("duplicate handler registration")
)

// detailedError carries the category/code/properties a handler attaches to
// an error, alongside the stack-bearing cause cockroachdb/errors already
// gives us. It is deliberately unexported: callers reach its fields through
// GetErrorCategory/GetErrorCode/GetErrorProperties, via errors.As, the same
// way cockroachdb/errors' own withMessage/withStack wrappers are consumed.
type detailedError struct {
	cause      error
	category   string
	code       int
	properties map[string]interface{}
}

func (e *detailedError) Error() string { return e.cause.Error() }
func (e *detailedError) Unwrap() error { return e.cause }

// ErrorWithDetails attaches category, code, and arbitrary properties to err,
// retrievable later with GetErrorCategory/GetErrorCode/GetErrorProperties.
func ErrorWithDetails(err error, category string, code int, details map[string]interface{}) error {
	props := make(map[string]interface{}, len(details))
	for k, v := range details {
		props[k] = v
	}
	return &detailedError{cause: err, category: category, code: code, properties: props}
}

// NewResourceError creates a new resource-related error with context.
func NewResourceError(message string, cause error, properties map[string]interface{}) error {
	var err error
	if cause == nil {
		err = errors.Newf("%s", message)
	} else {
		err = errors.Wrapf(cause, "%s", message)
	}
	err = errors.Mark(err, ErrResourceNotFound)
	return ErrorWithDetails(err, CategoryResource, CodeResourceNotFound, properties)
}

// NewToolError creates a new tool-related error with context.
func NewToolError(message string, cause error, properties map[string]interface{}) error {
	var err error
	if cause == nil {
		err = errors.Newf("%s", message)
	} else {
		err = errors.Wrapf(cause, "%s", message)
	}
	err = errors.Mark(err, ErrToolNotFound)
	return ErrorWithDetails(err, CategoryTool, CodeToolNotFound, properties)
}

// NewPromptError creates a new prompt-related error with context.
func NewPromptError(message string, cause error, properties map[string]interface{}) error {
	var err error
	if cause == nil {
		err = errors.Newf("%s", message)
	} else {
		err = errors.Wrapf(cause, "%s", message)
	}
	err = errors.Mark(err, ErrPromptNotFound)
	return ErrorWithDetails(err, CategoryPrompt, CodePromptNotFound, properties)
}

// NewInvalidArgumentsError creates a new invalid arguments error with context.
func NewInvalidArgumentsError(message string, properties map[string]interface{}) error {
	err := errors.Newf("%s", message)
	err = errors.Mark(err, ErrInvalidArguments)
	return ErrorWithDetails(err, CategoryRPC, CodeInvalidParams, properties)
}

// NewMethodNotFoundError creates a new method-not-found error with context.
func NewMethodNotFoundError(method string, properties map[string]interface{}) error {
	err := errors.Newf("method '%s' not found", method)
	details := map[string]interface{}{"method": method}
	for k, v := range properties {
		details[k] = v
	}
	return ErrorWithDetails(err, CategoryRPC, CodeMethodNotFound, details)
}

// NewTimeoutError creates a new timeout error with context.
func NewTimeoutError(message string, properties map[string]interface{}) error {
	err := errors.Newf("%s", message)
	err = errors.Mark(err, ErrTimeout)
	return ErrorWithDetails(err, CategoryRPC, CodeTimeoutError, properties)
}

// NewCancelledError creates a new locally-cancelled-call error with context.
func NewCancelledError(message string, properties map[string]interface{}) error {
	err := errors.Newf("%s", message)
	err = errors.Mark(err, ErrCancelled)
	return ErrorWithDetails(err, CategoryRPC, CodeRequestCancelled, properties)
}

// NewProtocolMismatchError creates an error for failed handshake version negotiation.
func NewProtocolMismatchError(message string, properties map[string]interface{}) error {
	err := errors.Newf("%s", message)
	err = errors.Mark(err, ErrProtocolMismatch)
	return ErrorWithDetails(err, CategoryProtocol, CodeProtocolMismatch, properties)
}

// NewConnectionClosedError creates an error delivered to pending calls on session close.
func NewConnectionClosedError(message string, properties map[string]interface{}) error {
	err := errors.Newf("%s", message)
	err = errors.Mark(err, ErrConnectionClosed)
	return ErrorWithDetails(err, CategorySession, CodeConnectionClosed, properties)
}

// NewNameCollisionError creates an error for duplicate session or tool names.
func NewNameCollisionError(message string, properties map[string]interface{}) error {
	err := errors.Newf("%s", message)
	err = errors.Mark(err, ErrNameCollision)
	return ErrorWithDetails(err, CategoryGroup, CodeNameCollision, properties)
}

// NewNotInitializedError creates an error for requests received before the
// handshake has completed.
func NewNotInitializedError(message string, properties map[string]interface{}) error {
	err := errors.Newf("%s", message)
	err = errors.Mark(err, ErrNotInitialized)
	return ErrorWithDetails(err, CategorySession, CodeServerNotInitialized, properties)
}
