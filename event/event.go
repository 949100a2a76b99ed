// Package event defines the ordered stream event protocol between the
// agent loop and a client. Events are produced by exactly one loop run
// and consumed by exactly one subscriber; emission order is delivery
// order, with no reordering or duplication. Connected is always first
// and Complete or Error is always last.
package event

import (
	"context"
	"time"

	pal "github.com/agenticpal/pal"
)

// Type identifies the kind of event.
type Type string

// Connection events
const (
	// Connected fires once when a subscriber attaches, before anything else.
	Connected Type = "connected"

	// Error fires when the cycle terminates abnormally. Always last.
	Error Type = "error"
)

// Streaming events
const (
	// Token fires for each streamed model text fragment.
	Token Type = "token"

	// NodeStart fires when a loop phase begins (plan, execute, synthesize).
	NodeStart Type = "node_start"

	// NodeEnd fires when a loop phase completes.
	NodeEnd Type = "node_end"
)

// Action events
const (
	// ActionStart fires before a tool invocation executes.
	ActionStart Type = "action_start"

	// ActionEnd fires with the invocation's result.
	ActionEnd Type = "action_end"
)

// Completion events
const (
	// Complete fires with the final response text. Always last on success.
	Complete Type = "complete"

	// ConfirmationRequired fires when destructive actions await explicit
	// user approval. The cycle still ends with Complete afterwards.
	ConfirmationRequired Type = "confirmation_required"
)

// Event is one ordered unit of the server-to-client progress protocol.
type Event struct {
	// Type identifies the kind of event.
	Type Type

	// ThreadID identifies the conversation the event belongs to.
	ThreadID string

	// Node names the loop phase for NodeStart/NodeEnd events.
	Node string

	// Token contains the text fragment for Token events.
	Token string

	// Invocation identifies the tool call for ActionStart/ActionEnd events.
	Invocation *pal.Invocation

	// Result contains the outcome for ActionEnd events.
	Result *pal.ToolResult

	// Pending lists the invocations awaiting approval for
	// ConfirmationRequired events.
	Pending []pal.Invocation

	// Summary is the human-readable confirmation prompt for
	// ConfirmationRequired events.
	Summary string

	// Response contains the final text for Complete events.
	Response string

	// Err contains the failure for Error events.
	Err error

	// Timestamp is when the event was emitted.
	Timestamp time.Time
}

// NewChannel creates a buffered event channel with standard capacity.
func NewChannel() chan Event {
	return make(chan Event, 64)
}

// Emit sends an event with timestamp to the channel. It blocks until the
// consumer accepts the event or the context is cancelled: dropping would
// break the protocol's ordering and delivery guarantees. Returns false
// when the context ended before delivery.
func Emit(ctx context.Context, ch chan<- Event, e Event) bool {
	e.Timestamp = time.Now()
	select {
	case ch <- e:
		return true
	case <-ctx.Done():
		return false
	}
}
