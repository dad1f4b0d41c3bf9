// Package mcp adapts the tool registry to the Model Context Protocol
// using mark3labs/mcp-go. It serves the same catalog over stdio for
// single-client use and over SSE when mounted in the HTTP server.
package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rigpilot/rigpilot/internal/domain/tool"
	"github.com/rigpilot/rigpilot/internal/registry"
)

// Dispatcher routes a tool call. The registry satisfies it directly;
// the telemetry wrapper satisfies it with spans around the registry.
type Dispatcher interface {
	Dispatch(ctx context.Context, name string, args map[string]any) (map[string]any, error)
}

// Server wraps the MCP server built from a registry.
type Server struct {
	mcp *server.MCPServer
	log *slog.Logger
}

// NewServer builds an MCP server advertising every registered tool.
// Calls are routed through dispatch, which defaults to the registry.
func NewServer(reg *registry.Registry, dispatch Dispatcher, version string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	if dispatch == nil {
		dispatch = reg
	}

	s := server.NewMCPServer(
		"rigpilot",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(
			"Remote automation gateway: screen capture, mouse and keyboard "+
				"control, file transfer, shell commands, and multi-step workflows "+
				"on the host machine.",
		),
	)

	for _, def := range reg.Definitions() {
		s.AddTool(convertTool(def), makeHandler(dispatch, def.Name, log))
	}

	return &Server{mcp: s, log: log}
}

// ServeStdio blocks serving MCP over stdin/stdout until the client
// closes the stream. Stdout belongs to the protocol in this mode, so
// the logger must write to stderr.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// SSE returns the SSE transport for mounting under the HTTP router.
func (s *Server) SSE(baseURL string) *server.SSEServer {
	return server.NewSSEServer(s.mcp,
		server.WithBaseURL(baseURL),
		server.WithSSEEndpoint("/mcp"),
		server.WithMessageEndpoint("/mcp/messages"),
	)
}

// convertTool maps a registry definition onto an MCP tool schema.
func convertTool(def tool.Definition) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(def.Description)}
	for _, p := range def.Schema.Params {
		popts := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			popts = append(popts, mcp.Required())
		}
		switch p.Type {
		case tool.TypeString:
			if len(p.Enum) > 0 {
				popts = append(popts, mcp.Enum(p.Enum...))
			}
			opts = append(opts, mcp.WithString(p.Name, popts...))
		case tool.TypeInteger, tool.TypeNumber:
			opts = append(opts, mcp.WithNumber(p.Name, popts...))
		case tool.TypeBoolean:
			opts = append(opts, mcp.WithBoolean(p.Name, popts...))
		case tool.TypeStringArray:
			popts = append(popts, mcp.Items(map[string]any{"type": "string"}))
			opts = append(opts, mcp.WithArray(p.Name, popts...))
		case tool.TypeObjectArray:
			popts = append(popts, mcp.Items(map[string]any{"type": "object"}))
			opts = append(opts, mcp.WithArray(p.Name, popts...))
		}
	}
	return mcp.NewTool(def.Name, opts...)
}

// makeHandler bridges an MCP call to the registry. Dispatch errors
// become MCP tool errors, never protocol errors, so the client always
// gets a structured response.
func makeHandler(dispatch Dispatcher, name string, log *slog.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := dispatch.Dispatch(ctx, name, req.GetArguments())
		if err != nil {
			log.Warn("tool call failed", "tool", name, "err", err)
			return mcp.NewToolResultError(err.Error()), nil
		}

		// Screenshots go back as image content so MCP clients can
		// render them directly.
		if name == "screenshot" {
			if image, ok := result["image"].(string); ok {
				meta := map[string]any{
					"success": true,
					"width":   result["width"],
					"height":  result["height"],
					"format":  result["format"],
				}
				text, _ := json.Marshal(meta)
				return mcp.NewToolResultImage(string(text), image, "image/png"), nil
			}
		}

		data, err := json.Marshal(result)
		if err != nil {
			return mcp.NewToolResultError("encode result: " + err.Error()), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}
