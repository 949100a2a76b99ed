package pal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleConstants(t *testing.T) {
	assert.Equal(t, Role("user"), RoleUser)
	assert.Equal(t, Role("assistant"), RoleAssistant)
	assert.Equal(t, Role("system"), RoleSystem)
	assert.Equal(t, Role("tool"), RoleTool)
}

func TestGenerateMessageID(t *testing.T) {
	t.Run("has message prefix", func(t *testing.T) {
		id := GenerateMessageID()
		assert.Contains(t, id, "msg-")
	})

	t.Run("generates unique IDs", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			id := GenerateMessageID()
			assert.False(t, seen[id], "duplicate ID: %s", id)
			seen[id] = true
		}
	})
}

func TestNewUserMessage(t *testing.T) {
	msg := NewUserMessage("What's on my calendar today?")

	assert.Equal(t, RoleUser, msg.Role)
	assert.Equal(t, "What's on my calendar today?", msg.Content)
	assert.NotEmpty(t, msg.ID)
	assert.False(t, msg.Timestamp.IsZero())
	assert.Empty(t, msg.ToolCalls)
	assert.Empty(t, msg.ToolResults)
}

func TestNewAssistantMessage(t *testing.T) {
	msg := NewAssistantMessage("You have two meetings today.")

	assert.Equal(t, RoleAssistant, msg.Role)
	assert.Equal(t, "You have two meetings today.", msg.Content)
	assert.NotEmpty(t, msg.ID)
	assert.False(t, msg.Timestamp.IsZero())
}

func TestResponse(t *testing.T) {
	t.Run("text response has no tool calls", func(t *testing.T) {
		resp := Response{
			Content:      "Done.",
			FinishReason: "stop",
			Usage:        Usage{InputTokens: 10, OutputTokens: 5},
		}

		assert.Empty(t, resp.ToolCalls)
		assert.Equal(t, 10, resp.Usage.InputTokens)
		assert.Equal(t, 5, resp.Usage.OutputTokens)
	})

	t.Run("tool call response", func(t *testing.T) {
		resp := Response{
			FinishReason: "tool_use",
			ToolCalls: []ToolCall{
				{ID: "call_1", Name: "discover_tools", Arguments: `{"category":"calendar"}`},
			},
		}

		assert.Len(t, resp.ToolCalls, 1)
		assert.Equal(t, "discover_tools", resp.ToolCalls[0].Name)
	})
}
