// file: cmd/mcpsdk/demo.go
package main

import (
	"context"
	"time"

	"github.com/dkoosis/mcpsdk/internal/config"
	"github.com/dkoosis/mcpsdk/internal/logging"
	"github.com/dkoosis/mcpsdk/internal/mcptypes"
	"github.com/dkoosis/mcpsdk/internal/session"
	"github.com/dkoosis/mcpsdk/internal/transport"
	"github.com/dkoosis/mcpsdk/pkg/mcp"
)

func buildServerOptions(cfg *config.Config, tr transport.Transport, logger logging.Logger) session.Options {
	return session.Options{
		Transport:    tr,
		Config:       cfg,
		Logger:       logger,
		LocalInfo:    mcptypes.Implementation{Name: "mcpsdk-demo-server", Version: version},
		Capabilities: cfg.Capabilities,
	}
}

func buildClientOptions(cfg *config.Config, tr transport.Transport, logger logging.Logger) session.Options {
	return session.Options{
		Transport: tr,
		Config:    cfg,
		Logger:    logger,
		LocalInfo: mcptypes.Implementation{Name: "mcpsdk-cli", Version: version},
	}
}

// demoBackend is the fixed tool/resource/prompt set the "serve" command
// exposes. The "list" command queries only its tools.
func demoBackend() mcp.Backend {
	return mcp.Backend{
		Tools: []mcp.ToolDefinition{
			{
				Tool: mcptypes.Tool{
					Name:        "echo",
					Description: "Echoes back the provided text.",
					InputSchema: map[string]any{
						"type":       "object",
						"properties": map[string]any{"text": map[string]any{"type": "string"}},
						"required":   []string{"text"},
					},
				},
				Handler: func(_ context.Context, arguments map[string]any) (*mcptypes.CallToolResult, error) {
					text, _ := arguments["text"].(string)
					return &mcptypes.CallToolResult{Content: []mcptypes.ContentBlock{mcptypes.NewTextContent(text)}}, nil
				},
			},
			{
				Tool: mcptypes.Tool{
					Name:        "now",
					Description: "Returns the current server time in RFC3339.",
					InputSchema: map[string]any{"type": "object"},
				},
				Handler: func(_ context.Context, _ map[string]any) (*mcptypes.CallToolResult, error) {
					return &mcptypes.CallToolResult{Content: []mcptypes.ContentBlock{
						mcptypes.NewTextContent(time.Now().Format(time.RFC3339)),
					}}, nil
				},
			},
		},
		Resources: []mcp.ResourceDefinition{
			{
				Resource: mcptypes.Resource{URI: "mem://status", Name: "status", MimeType: "text/plain"},
				Reader: func(_ context.Context, _ string) (*mcptypes.ReadResourceResult, error) {
					return &mcptypes.ReadResourceResult{Contents: []mcptypes.ContentBlock{mcptypes.NewTextContent("ok")}}, nil
				},
			},
		},
		Prompts: []mcp.PromptDefinition{
			{
				Prompt: mcptypes.Prompt{
					Name:        "greet",
					Description: "Greets a named user.",
					Arguments:   []mcptypes.PromptArgument{{Name: "name", Required: true}},
				},
				Handler: func(_ context.Context, arguments map[string]string) (*mcptypes.GetPromptResult, error) {
					return &mcptypes.GetPromptResult{Messages: []mcptypes.PromptMessage{
						{Role: "user", Content: mcptypes.NewTextContent("Hello, " + arguments["name"] + "!")},
					}}, nil
				},
			},
		},
	}
}
