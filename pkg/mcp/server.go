// Package mcp is the small public façade over internal/session: Client and
// Server constructors that preselect which built-in methods a session's
// dispatch table registers, so callers never touch internal/session
// directly. Grounded on the teacher's cmd/server wiring a connection
// manager's resource/tool backends into its dispatch table, generalized
// here to the responder side of any MCP session.
// file: pkg/mcp/server.go
package mcp

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/dkoosis/mcpsdk/internal/mcperror"
	"github.com/dkoosis/mcpsdk/internal/mcptypes"
	"github.com/dkoosis/mcpsdk/internal/schema"
	"github.com/dkoosis/mcpsdk/internal/session"
	"github.com/dkoosis/mcpsdk/pkg/mcpvalidate"
	"github.com/dkoosis/mcpsdk/pkg/util/url"
	"github.com/dkoosis/mcpsdk/pkg/util/validation"
)

// ServerOption customizes NewServer beyond its required Options/Backend.
type ServerOption func(*serverConfig)

type serverConfig struct {
	validator schema.ValidatorInterface
}

// WithSchemaValidation installs validator as dispatch-table middleware: its
// schema definitions, where present, are checked against tools/call,
// resources/read, and prompts/get params before those reach the Backend's
// handlers. Per spec.md's validation Non-goal, this is opt-in — a Server
// built without this option performs no schema validation at all.
func WithSchemaValidation(validator schema.ValidatorInterface) ServerOption {
	return func(c *serverConfig) { c.validator = validator }
}

// ToolHandler implements one tool's behavior, per the host-supplied Tool
// handler interface of spec §6: "(name, arguments) -> Result<ToolResult>".
type ToolHandler func(ctx context.Context, arguments map[string]any) (*mcptypes.CallToolResult, error)

// ToolDefinition pairs a tool's advertised descriptor with its handler.
type ToolDefinition struct {
	Tool    mcptypes.Tool
	Handler ToolHandler
}

// ResourceReader implements a resource's read behavior, per §6's "Resource
// read handler: (uri) -> ResourceContents".
type ResourceReader func(ctx context.Context, uri string) (*mcptypes.ReadResourceResult, error)

// ResourceDefinition pairs a resource's advertised descriptor with its
// reader.
type ResourceDefinition struct {
	Resource mcptypes.Resource
	Reader   ResourceReader
}

// PromptHandler implements a prompt's render behavior, per §6's "Prompt
// list/get handlers: analogous."
type PromptHandler func(ctx context.Context, arguments map[string]string) (*mcptypes.GetPromptResult, error)

// PromptDefinition pairs a prompt's advertised descriptor with its handler.
type PromptDefinition struct {
	Prompt  mcptypes.Prompt
	Handler PromptHandler
}

// Backend is everything a Server needs to answer the built-in MCP method
// set: the closed list of tools, resources, and prompts it exposes.
type Backend struct {
	Tools     []ToolDefinition
	Resources []ResourceDefinition
	Prompts   []PromptDefinition
}

// NewServer builds a responder-role Session that answers "initialize" (via
// Session's own built-in handler), "ping", and the tools/resources/prompts
// method set out of backend. It fails construction if backend names a tool
// whose name fails this SDK's naming rule or a resource whose URI fails the
// "scheme://path" shape, the way duplicate method registration already
// fails construction in internal/session.
func NewServer(opts session.Options, backend Backend, serverOpts ...ServerOption) (*session.Session, error) {
	opts.Role = session.RoleResponder

	cfg := &serverConfig{}
	for _, opt := range serverOpts {
		opt(cfg)
	}

	tools := make(map[string]ToolDefinition, len(backend.Tools))
	for _, t := range backend.Tools {
		if !validation.ValidateToolName(t.Tool.Name) {
			return nil, mcperror.NewInvalidArgumentsError("invalid tool name", map[string]interface{}{"name": t.Tool.Name})
		}
		if _, dup := tools[t.Tool.Name]; dup {
			return nil, mcperror.NewNameCollisionError("duplicate tool name", map[string]interface{}{"name": t.Tool.Name})
		}
		tools[t.Tool.Name] = t
	}

	resources := make(map[string]ResourceDefinition, len(backend.Resources))
	for _, r := range backend.Resources {
		if !url.ValidateResourceURI(r.Resource.URI) {
			return nil, mcperror.NewInvalidArgumentsError("invalid resource URI", map[string]interface{}{"uri": r.Resource.URI})
		}
		if _, dup := resources[r.Resource.URI]; dup {
			return nil, mcperror.NewNameCollisionError("duplicate resource URI", map[string]interface{}{"uri": r.Resource.URI})
		}
		resources[r.Resource.URI] = r
	}

	prompts := make(map[string]PromptDefinition, len(backend.Prompts))
	for _, p := range backend.Prompts {
		if _, dup := prompts[p.Prompt.Name]; dup {
			return nil, mcperror.NewNameCollisionError("duplicate prompt name", map[string]interface{}{"name": p.Prompt.Name})
		}
		prompts[p.Prompt.Name] = p
	}

	s := &serverBackend{tools: tools, resources: resources, prompts: prompts}

	handlers := map[string]session.RequestHandler{
		"ping":           s.handlePing,
		"tools/list":     s.handleToolsList,
		"tools/call":     s.handleToolsCall,
		"resources/list": s.handleResourcesList,
		"resources/read": s.handleResourcesRead,
		"prompts/list":   s.handlePromptsList,
		"prompts/get":    s.handlePromptsGet,
	}
	if cfg.validator != nil {
		handlers = mcpvalidate.New(cfg.validator).WrapAll(handlers)
	}

	if opts.RequestHandlers == nil {
		opts.RequestHandlers = handlers
	} else {
		for method, h := range handlers {
			if _, exists := opts.RequestHandlers[method]; exists {
				return nil, mcperror.NewNameCollisionError("method is reserved by the server façade", map[string]interface{}{"method": method})
			}
			opts.RequestHandlers[method] = h
		}
	}

	return session.New(opts)
}

// serverBackend holds the closed, validated Backend a Server was built
// with and implements each built-in method as a session.RequestHandler.
type serverBackend struct {
	tools     map[string]ToolDefinition
	resources map[string]ResourceDefinition
	prompts   map[string]PromptDefinition
}

func (s *serverBackend) handlePing(_ context.Context, _ json.RawMessage) (interface{}, error) {
	return mcptypes.EmptyResult{}, nil
}

func (s *serverBackend) handleToolsList(_ context.Context, _ json.RawMessage) (interface{}, error) {
	names := make([]string, 0, len(s.tools))
	for name := range s.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	result := mcptypes.ListToolsResult{Tools: make([]mcptypes.Tool, 0, len(names))}
	for _, name := range names {
		result.Tools = append(result.Tools, s.tools[name].Tool)
	}
	return result, nil
}

func (s *serverBackend) handleToolsCall(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req mcptypes.CallToolRequest
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, mcperror.NewInvalidArgumentsError("malformed tools/call params", map[string]interface{}{"cause": err.Error()})
	}
	def, ok := s.tools[req.Name]
	if !ok {
		return nil, mcperror.NewToolError("unknown tool", nil, map[string]interface{}{"name": req.Name})
	}
	result, err := def.Handler(ctx, req.Arguments)
	if err != nil {
		return nil, mcperror.NewToolError("tool handler failed", err, map[string]interface{}{"name": req.Name})
	}
	return result, nil
}

func (s *serverBackend) handleResourcesList(_ context.Context, _ json.RawMessage) (interface{}, error) {
	uris := make([]string, 0, len(s.resources))
	for uri := range s.resources {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	result := mcptypes.ListResourcesResult{Resources: make([]mcptypes.Resource, 0, len(uris))}
	for _, uri := range uris {
		result.Resources = append(result.Resources, s.resources[uri].Resource)
	}
	return result, nil
}

func (s *serverBackend) handleResourcesRead(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req mcptypes.ReadResourceRequest
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, mcperror.NewInvalidArgumentsError("malformed resources/read params", map[string]interface{}{"cause": err.Error()})
	}
	def, ok := s.resources[req.URI]
	if !ok {
		return nil, mcperror.NewResourceError("unknown resource", nil, map[string]interface{}{"uri": req.URI})
	}
	result, err := def.Reader(ctx, req.URI)
	if err != nil {
		return nil, mcperror.NewResourceError("resource reader failed", err, map[string]interface{}{"uri": req.URI})
	}
	return result, nil
}

func (s *serverBackend) handlePromptsList(_ context.Context, _ json.RawMessage) (interface{}, error) {
	names := make([]string, 0, len(s.prompts))
	for name := range s.prompts {
		names = append(names, name)
	}
	sort.Strings(names)
	result := mcptypes.ListPromptsResult{Prompts: make([]mcptypes.Prompt, 0, len(names))}
	for _, name := range names {
		result.Prompts = append(result.Prompts, s.prompts[name].Prompt)
	}
	return result, nil
}

func (s *serverBackend) handlePromptsGet(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req mcptypes.GetPromptRequest
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, mcperror.NewInvalidArgumentsError("malformed prompts/get params", map[string]interface{}{"cause": err.Error()})
	}
	def, ok := s.prompts[req.Name]
	if !ok {
		return nil, mcperror.NewPromptError("unknown prompt", nil, map[string]interface{}{"name": req.Name})
	}
	result, err := def.Handler(ctx, req.Arguments)
	if err != nil {
		return nil, mcperror.NewPromptError("prompt handler failed", err, map[string]interface{}{"name": req.Name})
	}
	return result, nil
}
