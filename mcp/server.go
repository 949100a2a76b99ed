// Package mcp exposes the tool catalog as an MCP (Model Context
// Protocol) server, so MCP clients can discover and call the
// productivity tools directly.
//
// Destructive tools are withheld: MCP has no confirmation round-trip,
// and actions that modify or delete data must not run without one.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	pal "github.com/agenticpal/pal"
	"github.com/agenticpal/pal/catalog"
)

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name    string
	version string
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) {
		c.version = version
	}
}

// NewServer creates an MCP server over a bound registry. Every
// non-destructive catalog tool is registered; arguments are validated
// against the tool's schema before the handler runs.
func NewServer(reg *catalog.Registry, opts ...ServerOption) *server.MCPServer {
	cfg := &serverConfig{
		name:    "pal-tools",
		version: "1.0.0",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := server.NewMCPServer(
		cfg.name,
		cfg.version,
		server.WithToolCapabilities(true),
	)

	for _, def := range reg.Catalog().Definitions() {
		if def.Destructive {
			continue
		}
		t := def.Tool()
		s.AddTool(
			mcp.NewToolWithRawSchema(t.Name, t.Description, t.Parameters),
			makeHandler(reg, t.Name),
		)
	}

	return s
}

// makeHandler wraps one catalog tool as an MCP tool handler.
func makeHandler(reg *catalog.Registry, name string) func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsJSON := "{}"
		if req.Params.Arguments != nil {
			data, err := json.Marshal(req.Params.Arguments)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to marshal arguments: %v", err)), nil
			}
			argsJSON = string(data)
		}

		inv, err := reg.Resolve(pal.ToolCall{Name: name, Arguments: argsJSON})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result := reg.Invoke(ctx, inv)
		if result.IsError {
			return mcp.NewToolResultError(result.Content), nil
		}
		return mcp.NewToolResultText(result.Content), nil
	}
}

// ServeStdio starts an MCP server over stdin/stdout, the standard
// transport for MCP servers invoked as subprocesses.
func ServeStdio(reg *catalog.Registry, opts ...ServerOption) error {
	return server.ServeStdio(NewServer(reg, opts...))
}
