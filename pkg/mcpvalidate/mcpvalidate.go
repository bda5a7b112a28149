// Package mcpvalidate is optional dispatch-table middleware: it wraps a
// session.RequestHandler so its params are checked against a schema
// definition before the handler ever sees them. Validation is opt-in per
// the Non-goal that the session runtime itself never validates payloads —
// a host wires this in only for the methods it wants checked, and only for
// methods the configured schema actually has a definition for.
// file: pkg/mcpvalidate/mcpvalidate.go
package mcpvalidate

import (
	"context"
	"encoding/json"

	"github.com/dkoosis/mcpsdk/internal/mcperror"
	"github.com/dkoosis/mcpsdk/internal/schema"
	"github.com/dkoosis/mcpsdk/internal/session"
)

// defaultMethodSchemas maps JSON-RPC method names to the schema definition
// name describing their params object, for the methods this SDK's own
// embedded schema.json carries a definition for.
func defaultMethodSchemas() map[string]string {
	return map[string]string{
		"tools/call":     "CallToolRequest",
		"resources/read": "ReadResourceRequest",
		"prompts/get":    "GetPromptRequest",
	}
}

// Middleware wraps request handlers with schema validation, driven by a
// method-name-to-schema-definition mapping.
type Middleware struct {
	validator     schema.ValidatorInterface
	methodSchemas map[string]string
}

// New builds a Middleware using the default method-to-schema mapping. Use
// WithMethodSchema to extend it, e.g. after configuring a schema override
// that adds definitions for application-specific methods.
func New(validator schema.ValidatorInterface) *Middleware {
	return &Middleware{validator: validator, methodSchemas: defaultMethodSchemas()}
}

// WithMethodSchema registers (or overrides) the schema definition name used
// to validate method's params, and returns m for chaining.
func (m *Middleware) WithMethodSchema(method, schemaName string) *Middleware {
	m.methodSchemas[method] = schemaName
	return m
}

// Wrap returns a handler that validates params against method's configured
// schema definition before calling handler. If method has no configured
// schema, or the validator has no matching definition loaded, handler is
// returned unwrapped — validation is best-effort, never a hard requirement.
func (m *Middleware) Wrap(method string, handler session.RequestHandler) session.RequestHandler {
	name, ok := m.methodSchemas[method]
	if !ok || m.validator == nil || !m.validator.HasSchema(name) {
		return handler
	}
	return func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		if err := m.validator.Validate(ctx, name, params); err != nil {
			return nil, mcperror.NewInvalidArgumentsError(
				"params failed schema validation",
				map[string]interface{}{"method": method, "schema": name, "cause": err.Error()},
			)
		}
		return handler(ctx, params)
	}
}

// WrapAll applies Wrap to every handler in handlers, returning a new map;
// handlers is left untouched.
func (m *Middleware) WrapAll(handlers map[string]session.RequestHandler) map[string]session.RequestHandler {
	wrapped := make(map[string]session.RequestHandler, len(handlers))
	for method, h := range handlers {
		wrapped[method] = m.Wrap(method, h)
	}
	return wrapped
}
