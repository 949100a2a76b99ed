package agui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	pal "github.com/agenticpal/pal"
	"github.com/agenticpal/pal/event"
)

func TestNewMapper(t *testing.T) {
	t.Run("keeps provided IDs", func(t *testing.T) {
		m := NewMapper("thread-1", "run-1")
		assert.Equal(t, "thread-1", m.ThreadID())
		assert.Equal(t, "run-1", m.RunID())
	})

	t.Run("generates missing IDs", func(t *testing.T) {
		m := NewMapper("", "")
		assert.NotEmpty(t, m.ThreadID())
		assert.NotEmpty(t, m.RunID())
	})
}

func TestMapEventLifecycle(t *testing.T) {
	m := NewMapper("thread-1", "run-1")

	t.Run("connected starts the run", func(t *testing.T) {
		out := m.MapEvent(event.Event{Type: event.Connected})
		require.Len(t, out, 1)
		assert.Equal(t, events.EventTypeRunStarted, out[0].Type())
	})

	t.Run("first token opens a message frame", func(t *testing.T) {
		out := m.MapEvent(event.Event{Type: event.Token, Token: "He"})
		require.Len(t, out, 2)
		assert.Equal(t, events.EventTypeTextMessageStart, out[0].Type())
		assert.Equal(t, events.EventTypeTextMessageContent, out[1].Type())
	})

	t.Run("subsequent tokens only carry content", func(t *testing.T) {
		out := m.MapEvent(event.Event{Type: event.Token, Token: "llo"})
		require.Len(t, out, 1)
		assert.Equal(t, events.EventTypeTextMessageContent, out[0].Type())
	})

	t.Run("node end closes the open frame", func(t *testing.T) {
		out := m.MapEvent(event.Event{Type: event.NodeEnd, Node: "agent"})
		require.Len(t, out, 2)
		assert.Equal(t, events.EventTypeTextMessageEnd, out[0].Type())
		assert.Equal(t, events.EventTypeStepFinished, out[1].Type())
	})

	t.Run("complete finishes the run with no frame left open", func(t *testing.T) {
		out := m.MapEvent(event.Event{Type: event.Complete, Response: "Hello"})
		require.Len(t, out, 1)
		assert.Equal(t, events.EventTypeRunFinished, out[0].Type())
	})
}

func TestMapEventActions(t *testing.T) {
	m := NewMapper("thread-1", "run-1")
	inv := &pal.Invocation{ID: "inv-1", Tool: "create_task", Args: map[string]any{"title": "x"}}

	t.Run("action start maps to tool call start and args", func(t *testing.T) {
		out := m.MapEvent(event.Event{Type: event.ActionStart, Invocation: inv})
		require.Len(t, out, 2)
		assert.Equal(t, events.EventTypeToolCallStart, out[0].Type())
		assert.Equal(t, events.EventTypeToolCallArgs, out[1].Type())
	})

	t.Run("action end maps to tool call end and result", func(t *testing.T) {
		out := m.MapEvent(event.Event{
			Type:       event.ActionEnd,
			Invocation: inv,
			Result:     &pal.ToolResult{ToolCallID: "inv-1", Content: "done"},
		})
		require.Len(t, out, 2)
		assert.Equal(t, events.EventTypeToolCallEnd, out[0].Type())
		assert.Equal(t, events.EventTypeToolCallResult, out[1].Type())
	})

	t.Run("nil invocation maps to nothing", func(t *testing.T) {
		assert.Nil(t, m.MapEvent(event.Event{Type: event.ActionStart}))
	})
}

func TestMapEventConfirmation(t *testing.T) {
	m := NewMapper("thread-1", "run-1")
	m.MapEvent(event.Event{Type: event.Token, Token: "thinking"})

	out := m.MapEvent(event.Event{
		Type:    event.ConfirmationRequired,
		Summary: "**Confirmation Required**",
	})

	// Open frame closes, then the prompt arrives as a complete message.
	require.Len(t, out, 4)
	assert.Equal(t, events.EventTypeTextMessageEnd, out[0].Type())
	assert.Equal(t, events.EventTypeTextMessageStart, out[1].Type())
	assert.Equal(t, events.EventTypeTextMessageContent, out[2].Type())
	assert.Equal(t, events.EventTypeTextMessageEnd, out[3].Type())
}

func TestMapEventError(t *testing.T) {
	m := NewMapper("thread-1", "run-1")

	out := m.MapEvent(event.Event{Type: event.Error, Err: errors.New("provider down")})

	require.Len(t, out, 1)
	assert.Equal(t, events.EventTypeRunError, out[0].Type())
}

func TestRunAgentInputPrepare(t *testing.T) {
	content := func(s string) *string { return &s }

	t.Run("takes the newest user message", func(t *testing.T) {
		input := RunAgentInput{
			ThreadID: "thread-1",
			RunID:    "run-1",
			Messages: []events.Message{
				{Role: "user", Content: content("first")},
				{Role: "assistant", Content: content("reply")},
				{Role: "user", Content: content("second")},
			},
		}

		prepared, err := input.Prepare()
		require.NoError(t, err)
		assert.Equal(t, "second", prepared.Text)
		assert.Equal(t, "thread-1", prepared.ThreadID)
	})

	t.Run("no user message fails", func(t *testing.T) {
		input := RunAgentInput{Messages: []events.Message{
			{Role: "assistant", Content: content("hi")},
		}}

		_, err := input.Prepare()
		assert.ErrorIs(t, err, ErrNoMessages)
	})

	t.Run("empty messages fail", func(t *testing.T) {
		_, err := (&RunAgentInput{}).Prepare()
		assert.ErrorIs(t, err, ErrNoMessages)
	})
}
