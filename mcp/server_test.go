package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenticpal/pal/catalog"
	"github.com/agenticpal/pal/service"
)

func startClient(t *testing.T) *client.Client {
	t.Helper()

	cat := catalog.Default()
	reg := catalog.NewRegistry(cat)
	service.MustBindAll(reg, service.NewCalendar(), service.NewMail(), service.NewTasks())

	srv := NewServer(reg, WithName("test-server"), WithVersion("0.0.1"))
	c, err := client.NewInProcessClient(srv)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	t.Cleanup(func() { c.Close() })

	_, err = c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    "test-client",
				Version: "1.0.0",
			},
		},
	})
	require.NoError(t, err)
	return c
}

func TestServerWithholdsDestructiveTools(t *testing.T) {
	c := startClient(t)

	result, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
	require.NoError(t, err)

	names := make([]string, len(result.Tools))
	for i, tool := range result.Tools {
		names[i] = tool.Name
	}

	// 17 catalog tools minus the two destructive deletions.
	assert.Len(t, result.Tools, 15)
	assert.Contains(t, names, "create_task")
	assert.Contains(t, names, "list_calendar_events")
	assert.NotContains(t, names, "delete_task")
	assert.NotContains(t, names, "delete_calendar_event")
}

func TestServerCallsTools(t *testing.T) {
	c := startClient(t)

	t.Run("valid call returns the payload", func(t *testing.T) {
		result, err := c.CallTool(context.Background(), mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "create_task",
				Arguments: map[string]any{"title": "From MCP"},
			},
		})
		require.NoError(t, err)

		assert.False(t, result.IsError)
		require.Len(t, result.Content, 1)
		text, ok := result.Content[0].(mcp.TextContent)
		require.True(t, ok)
		assert.Contains(t, text.Text, "From MCP")
	})

	t.Run("schema violation is an error result", func(t *testing.T) {
		result, err := c.CallTool(context.Background(), mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "create_task",
				Arguments: map[string]any{"priority": "high"},
			},
		})
		require.NoError(t, err)

		assert.True(t, result.IsError)
	})

	t.Run("collaborator failure is an error result", func(t *testing.T) {
		result, err := c.CallTool(context.Background(), mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "get_email_details",
				Arguments: map[string]any{"message_id": "missing"},
			},
		})
		require.NoError(t, err)

		assert.True(t, result.IsError)
	})
}
