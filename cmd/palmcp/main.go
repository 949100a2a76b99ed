// Command palmcp exposes the productivity tool catalog as an MCP server
// over stdio, so MCP clients can discover and call the tools directly.
// Destructive tools are withheld; MCP has no confirmation round-trip.
//
// Usage:
//
//	go run ./cmd/palmcp
//
// Configuration for Claude Desktop (claude_desktop_config.json):
//
//	{
//	    "mcpServers": {
//	        "pal-tools": {
//	            "command": "go",
//	            "args": ["run", "./cmd/palmcp"],
//	            "cwd": "/path/to/pal"
//	        }
//	    }
//	}
package main

import (
	"log"

	"github.com/agenticpal/pal/catalog"
	"github.com/agenticpal/pal/mcp"
	"github.com/agenticpal/pal/service"
)

func main() {
	cat := catalog.Default()
	reg := catalog.NewRegistry(cat)
	service.MustBindAll(reg, service.NewCalendar(), service.NewMail(), service.NewTasks())

	if err := mcp.ServeStdio(reg,
		mcp.WithName("pal-tools"),
		mcp.WithVersion("1.0.0"),
	); err != nil {
		log.Fatal(err)
	}
}
