// file: pkg/mcp/client.go
package mcp

import (
	"context"

	"github.com/dkoosis/mcpsdk/internal/mcptypes"
	"github.com/dkoosis/mcpsdk/internal/session"
)

// NewClient builds an initiator-role Session. Callers still supply their own
// NotificationHandlers (for "notifications/tools/list_changed",
// "notifications/resources/updated", and so on) through opts; NewClient's
// only job is pinning the role, the way NewServer pins RoleResponder and
// installs its own built-ins.
func NewClient(opts session.Options) (*session.Session, error) {
	opts.Role = session.RoleInitiator
	return session.New(opts)
}

// ListTools issues tools/list and decodes the result, saving callers from
// repeating the marshal/unmarshal boilerplate around Session.Call.
func ListTools(ctx context.Context, s *session.Session) (*mcptypes.ListToolsResult, error) {
	raw, err := s.Call(ctx, "tools/list", mcptypes.ListToolsRequest{})
	if err != nil {
		return nil, err
	}
	var result mcptypes.ListToolsResult
	if err := decodeResult(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CallTool issues tools/call for name with arguments and decodes the result.
func CallTool(ctx context.Context, s *session.Session, name string, arguments map[string]any) (*mcptypes.CallToolResult, error) {
	raw, err := s.Call(ctx, "tools/call", mcptypes.CallToolRequest{Name: name, Arguments: arguments})
	if err != nil {
		return nil, err
	}
	var result mcptypes.CallToolResult
	if err := decodeResult(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListResources issues resources/list and decodes the result.
func ListResources(ctx context.Context, s *session.Session) (*mcptypes.ListResourcesResult, error) {
	raw, err := s.Call(ctx, "resources/list", mcptypes.ListResourcesRequest{})
	if err != nil {
		return nil, err
	}
	var result mcptypes.ListResourcesResult
	if err := decodeResult(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ReadResource issues resources/read for uri and decodes the result.
func ReadResource(ctx context.Context, s *session.Session, uri string) (*mcptypes.ReadResourceResult, error) {
	raw, err := s.Call(ctx, "resources/read", mcptypes.ReadResourceRequest{URI: uri})
	if err != nil {
		return nil, err
	}
	var result mcptypes.ReadResourceResult
	if err := decodeResult(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListPrompts issues prompts/list and decodes the result.
func ListPrompts(ctx context.Context, s *session.Session) (*mcptypes.ListPromptsResult, error) {
	raw, err := s.Call(ctx, "prompts/list", mcptypes.ListPromptsRequest{})
	if err != nil {
		return nil, err
	}
	var result mcptypes.ListPromptsResult
	if err := decodeResult(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetPrompt issues prompts/get for name with arguments and decodes the result.
func GetPrompt(ctx context.Context, s *session.Session, name string, arguments map[string]string) (*mcptypes.GetPromptResult, error) {
	raw, err := s.Call(ctx, "prompts/get", mcptypes.GetPromptRequest{Name: name, Arguments: arguments})
	if err != nil {
		return nil, err
	}
	var result mcptypes.GetPromptResult
	if err := decodeResult(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Ping issues the liveness-check ping method and discards its empty result.
func Ping(ctx context.Context, s *session.Session) error {
	_, err := s.Call(ctx, "ping", mcptypes.EmptyResult{})
	return err
}
