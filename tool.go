package pal

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Tool defines a function that can be called by the model.
type Tool struct {
	// Name is the unique identifier for the tool.
	Name string
	// Description explains what the tool does (helps the model decide when to use it).
	Description string
	// Parameters is a JSON Schema object defining the function parameters.
	Parameters json.RawMessage
}

// ToolCall represents a request from the model to invoke a tool.
type ToolCall struct {
	// ID is a unique identifier for this tool call (used to match results).
	ID string `json:"id"`
	// Name is the name of the tool to invoke.
	Name string `json:"name"`
	// Arguments is a JSON string containing the arguments to pass.
	Arguments string `json:"arguments"`
}

// ToolResult represents the result of executing a tool call.
// Content carries the structured payload on success, or the failure
// detail when IsError is set.
type ToolResult struct {
	// ToolCallID matches the ID from the corresponding ToolCall or Invocation.
	ToolCallID string `json:"toolCallId"`
	// Content is the result content to return to the model.
	Content string `json:"content"`
	// IsError indicates if the result represents an error.
	IsError bool `json:"isError,omitempty"`
}

// ToolChoice controls how the model uses tools.
type ToolChoice string

const (
	// ToolChoiceAuto lets the model decide when to use tools (default).
	ToolChoiceAuto ToolChoice = "auto"
	// ToolChoiceNone disables tool use for the request.
	ToolChoiceNone ToolChoice = "none"
	// ToolChoiceRequired forces the model to use a tool.
	ToolChoiceRequired ToolChoice = "required"
)

// NewToolResultMessage creates a message containing tool results.
func NewToolResultMessage(results ...ToolResult) Message {
	return Message{
		Role:        RoleTool,
		ToolResults: results,
	}
}

// InvocationStatus tracks an invocation through the confirmation gate.
type InvocationStatus string

const (
	// InvocationProposed means the model requested the call but it has not run.
	InvocationProposed InvocationStatus = "proposed"
	// InvocationConfirmed means the user approved a destructive call.
	InvocationConfirmed InvocationStatus = "confirmed"
	// InvocationExecuted means the call ran and succeeded.
	InvocationExecuted InvocationStatus = "executed"
	// InvocationCancelled means the user declined the call.
	InvocationCancelled InvocationStatus = "cancelled"
	// InvocationFailed means the call ran and the collaborator reported failure.
	InvocationFailed InvocationStatus = "failed"
)

// Invocation is a validated tool call flowing through the agent loop.
// Destructive is copied from the catalog definition at proposal time so
// later catalog edits cannot retroactively change pending actions.
type Invocation struct {
	// ID is a unique identifier, matching the originating ToolCall when present.
	ID string `json:"id"`
	// Tool is the catalog tool name.
	Tool string `json:"tool"`
	// Args holds the schema-validated arguments.
	Args map[string]any `json:"args,omitempty"`
	// Destructive mirrors the tool definition at proposal time.
	Destructive bool `json:"destructive,omitempty"`
	// Status tracks the invocation through the confirmation gate.
	Status InvocationStatus `json:"status"`
}

// GenerateInvocationID creates a unique invocation identifier.
func GenerateInvocationID() string {
	return "inv-" + uuid.New().String()
}
