package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pal "github.com/agenticpal/pal"
	"github.com/agenticpal/pal/catalog"
	"github.com/agenticpal/pal/event"
	"github.com/agenticpal/pal/meta"
	"github.com/agenticpal/pal/service"
	"github.com/agenticpal/pal/thread"
)

// mockProvider replays a script of responses, streaming each one's
// content character by character before the final Done event.
type mockProvider struct {
	mu        sync.Mutex
	responses []*pal.Response
	calls     [][]pal.Message
}

func (m *mockProvider) next(messages []pal.Message) (*pal.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, messages)
	if len(m.responses) == 0 {
		return nil, fmt.Errorf("mock provider: script exhausted after %d calls", len(m.calls))
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp, nil
}

func (m *mockProvider) Chat(ctx context.Context, messages []pal.Message, opts ...pal.Option) (*pal.Response, error) {
	return m.next(messages)
}

func (m *mockProvider) ChatStream(ctx context.Context, messages []pal.Message, opts ...pal.Option) (<-chan pal.StreamEvent, error) {
	resp, err := m.next(messages)
	if err != nil {
		return nil, err
	}

	ch := make(chan pal.StreamEvent)
	go func() {
		defer close(ch)
		for _, r := range resp.Content {
			ch <- pal.StreamEvent{Delta: string(r)}
		}
		ch <- pal.StreamEvent{Done: true, Response: resp}
	}()
	return ch, nil
}

func textResponse(text string) *pal.Response {
	return &pal.Response{Content: text, FinishReason: "stop"}
}

func invokeCall(id, tool string, params map[string]any) pal.ToolCall {
	args, _ := json.Marshal(map[string]any{"tool_name": tool, "parameters": params})
	return pal.ToolCall{ID: id, Name: meta.ToolInvoke, Arguments: string(args)}
}

func toolResponse(calls ...pal.ToolCall) *pal.Response {
	return &pal.Response{FinishReason: "tool_use", ToolCalls: calls}
}

type fixture struct {
	loop     *Loop
	calendar *service.Calendar
	tasks    *service.Tasks
	threads  *thread.Manager
}

func newFixture(t *testing.T, provider pal.ModelProvider, opts ...Option) *fixture {
	t.Helper()
	cat := catalog.Default()
	reg := catalog.NewRegistry(cat)
	cal := service.NewCalendar()
	tasks := service.NewTasks()
	service.MustBindAll(reg, cal, service.NewMail(), tasks)

	return &fixture{
		loop:     NewLoop(provider, meta.NewFacade(cat, reg), reg, opts...),
		calendar: cal,
		tasks:    tasks,
		threads:  thread.NewManager(),
	}
}

func collectEvents(t *testing.T, f *fixture, th *thread.Thread) []event.Event {
	t.Helper()
	var events []event.Event
	for ev := range f.loop.RunStream(context.Background(), th) {
		events = append(events, ev)
	}
	return events
}

func eventTypes(events []event.Event) []event.Type {
	out := make([]event.Type, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}

func TestPlainReply(t *testing.T) {
	provider := &mockProvider{responses: []*pal.Response{textResponse("Hello!")}}
	f := newFixture(t, provider)
	th := f.threads.GetOrCreate("")

	result, err := f.loop.Send(context.Background(), th, "hi")
	require.NoError(t, err)

	assert.Equal(t, "Hello!", result.Text)
	assert.False(t, result.RequiresConfirmation())
	assert.Equal(t, thread.StateIdle, result.State)

	msgs := th.History().Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, pal.RoleUser, msgs[0].Role)
	assert.Equal(t, pal.RoleAssistant, msgs[1].Role)
}

func TestStreamEventOrder(t *testing.T) {
	provider := &mockProvider{responses: []*pal.Response{textResponse("ok")}}
	f := newFixture(t, provider)
	th := f.threads.GetOrCreate("")
	th.SetPendingInput(thread.InputMessage, "hi")

	events := collectEvents(t, f, th)

	require.NotEmpty(t, events)
	assert.Equal(t, event.Connected, events[0].Type)
	assert.Equal(t, event.Complete, events[len(events)-1].Type)

	types := eventTypes(events)
	assert.Equal(t, []event.Type{
		event.Connected,
		event.NodeStart, // agent
		event.Token, event.Token,
		event.NodeEnd,
		event.Complete,
	}, types)
	assert.Equal(t, "agent", events[1].Node)
}

// TestStreamReplayRebuildsHistory replays a completed cycle's event
// stream and checks it reconstructs the same append sequence the
// thread recorded: user text, the assistant tool-call turn, the tool
// results, and the closing reply.
func TestStreamReplayRebuildsHistory(t *testing.T) {
	provider := &mockProvider{responses: []*pal.Response{
		toolResponse(invokeCall("c1", "create_task", map[string]any{"title": "Buy milk"})),
		textResponse("Task created."),
	}}
	f := newFixture(t, provider)
	th := f.threads.GetOrCreate("")
	th.SetPendingInput(thread.InputMessage, "add buy milk")

	events := collectEvents(t, f, th)

	rebuilt := []pal.Message{{Role: pal.RoleUser, Content: "add buy milk"}}
	var tokens strings.Builder
	var calls []pal.ToolCall
	var results []pal.ToolResult
	for _, ev := range events {
		switch ev.Type {
		case event.Token:
			tokens.WriteString(ev.Token)
		case event.ActionStart:
			calls = append(calls, pal.ToolCall{ID: ev.Invocation.ID})
		case event.ActionEnd:
			results = append(results, *ev.Result)
		case event.NodeEnd:
			if ev.Node == "tools" {
				rebuilt = append(rebuilt,
					pal.Message{Role: pal.RoleAssistant, Content: tokens.String(), ToolCalls: calls},
					pal.Message{Role: pal.RoleTool, ToolResults: results})
				tokens.Reset()
				calls = nil
				results = nil
			}
		case event.Complete:
			assert.Equal(t, tokens.String(), ev.Response, "final reply equals the streamed tokens")
			rebuilt = append(rebuilt, pal.Message{Role: pal.RoleAssistant, Content: ev.Response})
		}
	}

	recorded := th.History().Messages()
	require.Len(t, recorded, len(rebuilt))
	for i := range rebuilt {
		assert.Equal(t, rebuilt[i].Role, recorded[i].Role, "message %d role", i)
		assert.Equal(t, rebuilt[i].Content, recorded[i].Content, "message %d content", i)
		assert.Equal(t, rebuilt[i].ToolResults, recorded[i].ToolResults, "message %d results", i)
		require.Len(t, recorded[i].ToolCalls, len(rebuilt[i].ToolCalls), "message %d calls", i)
		for j := range rebuilt[i].ToolCalls {
			assert.Equal(t, rebuilt[i].ToolCalls[j].ID, recorded[i].ToolCalls[j].ID)
		}
	}
}

func TestNonDestructiveToolFlow(t *testing.T) {
	provider := &mockProvider{responses: []*pal.Response{
		toolResponse(invokeCall("c1", "create_task", map[string]any{"title": "Buy milk"})),
		textResponse("Created the task."),
	}}
	f := newFixture(t, provider)
	th := f.threads.GetOrCreate("")
	th.SetPendingInput(thread.InputMessage, "add buy milk to my list")

	events := collectEvents(t, f, th)

	types := eventTypes(events)
	assert.Contains(t, types, event.ActionStart)
	assert.Contains(t, types, event.ActionEnd)
	assert.NotContains(t, types, event.ConfirmationRequired)
	assert.Equal(t, event.Complete, types[len(types)-1])

	// The task really exists.
	out, err := f.tasks.ListTasks(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, 1, out.(map[string]any)["count"])

	// Tool results are recorded in history for the next model step.
	var sawToolMsg bool
	for _, msg := range th.History().Messages() {
		if msg.Role == pal.RoleTool {
			sawToolMsg = true
			require.Len(t, msg.ToolResults, 1)
			assert.Equal(t, "c1", msg.ToolResults[0].ToolCallID)
		}
	}
	assert.True(t, sawToolMsg)
}

func TestDestructiveFlowRequiresConfirmation(t *testing.T) {
	provider := &mockProvider{responses: []*pal.Response{
		toolResponse(invokeCall("c1", "delete_calendar_event", map[string]any{"event_id": "evt-1"})),
	}}
	f := newFixture(t, provider)
	f.calendar.Seed(service.CalendarEvent{ID: "evt-1", Title: "3pm meeting", Start: "2026-08-24T15:00:00"})

	th := f.threads.GetOrCreate("")
	th.SetPendingInput(thread.InputMessage, "delete my 3pm meeting")

	events := collectEvents(t, f, th)

	types := eventTypes(events)
	require.Contains(t, types, event.ConfirmationRequired)
	assert.Equal(t, event.Complete, types[len(types)-1])
	assert.NotContains(t, types, event.ActionStart, "nothing executes before confirmation")

	assert.Equal(t, thread.StateAwaitingConfirmation, th.State())
	require.Len(t, th.PendingActions(), 1)
	assert.Equal(t, 1, f.calendar.Len(), "event still exists")

	var confirmation event.Event
	for _, e := range events {
		if e.Type == event.ConfirmationRequired {
			confirmation = e
		}
	}
	assert.Contains(t, confirmation.Summary, "Delete calendar event (ID: evt-1)")
	require.Len(t, confirmation.Pending, 1)
	assert.Equal(t, "delete_calendar_event", confirmation.Pending[0].Tool)
}

func TestConfirmExecutesParkedActions(t *testing.T) {
	provider := &mockProvider{responses: []*pal.Response{
		toolResponse(invokeCall("c1", "delete_calendar_event", map[string]any{"event_id": "evt-1"})),
		textResponse("Deleted the 3pm meeting."),
	}}
	f := newFixture(t, provider)
	f.calendar.Seed(service.CalendarEvent{ID: "evt-1", Title: "3pm meeting", Start: "2026-08-24T15:00:00"})
	th := f.threads.GetOrCreate("")

	result, err := f.loop.Send(context.Background(), th, "delete my 3pm meeting")
	require.NoError(t, err)
	require.True(t, result.RequiresConfirmation())

	result, err = f.loop.Confirm(context.Background(), th)
	require.NoError(t, err)

	assert.Equal(t, "Deleted the 3pm meeting.", result.Text)
	assert.Equal(t, thread.StateIdle, result.State)
	assert.Equal(t, 0, f.calendar.Len(), "event is gone")
	assert.Empty(t, th.PendingActions())
}

func TestConfirmStreamsActionEvents(t *testing.T) {
	provider := &mockProvider{responses: []*pal.Response{
		toolResponse(invokeCall("c1", "delete_task", map[string]any{"task_id": "task-1"})),
		textResponse("Done."),
	}}
	f := newFixture(t, provider)
	f.tasks.CreateTask(context.Background(), map[string]any{"title": "doomed"})

	th := f.threads.GetOrCreate("")
	_, err := f.loop.Send(context.Background(), th, "delete it")
	require.NoError(t, err)
	require.Len(t, th.PendingActions(), 1)

	var events []event.Event
	for ev := range f.loop.ConfirmStream(context.Background(), th) {
		events = append(events, ev)
	}

	types := eventTypes(events)
	assert.Contains(t, types, event.ActionStart)
	assert.Contains(t, types, event.ActionEnd)
	assert.Equal(t, event.Complete, types[len(types)-1])
}

func TestConfirmWithoutPendingFails(t *testing.T) {
	provider := &mockProvider{}
	f := newFixture(t, provider)
	th := f.threads.GetOrCreate("")

	_, err := f.loop.Confirm(context.Background(), th)

	var noPending *thread.ErrNoPendingConfirmation
	assert.ErrorAs(t, err, &noPending)
}

func TestCancelDiscardsParkedActions(t *testing.T) {
	provider := &mockProvider{responses: []*pal.Response{
		toolResponse(invokeCall("c1", "delete_calendar_event", map[string]any{"event_id": "evt-1"})),
	}}
	f := newFixture(t, provider)
	f.calendar.Seed(service.CalendarEvent{ID: "evt-1", Title: "Meeting", Start: "2026-08-24T15:00:00"})
	th := f.threads.GetOrCreate("")

	_, err := f.loop.Send(context.Background(), th, "delete the meeting")
	require.NoError(t, err)

	cancelled, ok := f.loop.Cancel(th)

	require.True(t, ok)
	require.Len(t, cancelled, 1)
	assert.Equal(t, pal.InvocationCancelled, cancelled[0].Status)
	assert.Equal(t, thread.StateIdle, th.State())
	assert.Equal(t, 1, f.calendar.Len(), "nothing was deleted")

	t.Run("cancel again is a no-op", func(t *testing.T) {
		_, ok := f.loop.Cancel(th)
		assert.False(t, ok)
	})
}

func TestPlainMessageWhileAwaitingCancelsImplicitly(t *testing.T) {
	provider := &mockProvider{responses: []*pal.Response{
		toolResponse(invokeCall("c1", "delete_calendar_event", map[string]any{"event_id": "evt-1"})),
		textResponse("Sure, leaving it alone."),
	}}
	f := newFixture(t, provider)
	f.calendar.Seed(service.CalendarEvent{ID: "evt-1", Title: "Meeting", Start: "2026-08-24T15:00:00"})
	th := f.threads.GetOrCreate("")

	_, err := f.loop.Send(context.Background(), th, "delete the meeting")
	require.NoError(t, err)
	require.Equal(t, thread.StateAwaitingConfirmation, th.State())

	result, err := f.loop.Send(context.Background(), th, "actually, what's on my calendar?")
	require.NoError(t, err)

	assert.Equal(t, thread.StateIdle, result.State)
	assert.Empty(t, th.PendingActions())
	assert.Equal(t, 1, f.calendar.Len(), "parked deletion never ran")
}

func TestIterationCapEndsGracefully(t *testing.T) {
	discover := pal.ToolCall{ID: "d", Name: meta.ToolDiscover, Arguments: `{}`}
	provider := &mockProvider{responses: []*pal.Response{
		toolResponse(discover),
		toolResponse(discover),
		toolResponse(discover),
	}}
	f := newFixture(t, provider, WithMaxIterations(2))
	th := f.threads.GetOrCreate("")

	result, err := f.loop.Send(context.Background(), th, "loop forever")
	require.NoError(t, err)

	assert.Equal(t, iterationCapReply, result.Text)
	assert.Equal(t, thread.StateIdle, result.State)
}

func TestDiscoverSchemaRoundTrip(t *testing.T) {
	getSchema := pal.ToolCall{ID: "s", Name: meta.ToolGetSchema, Arguments: `{"tool_name":"create_task"}`}
	provider := &mockProvider{responses: []*pal.Response{
		toolResponse(pal.ToolCall{ID: "d", Name: meta.ToolDiscover, Arguments: `{"category":"tasks"}`}),
		toolResponse(getSchema),
		textResponse("Here is what I can do with tasks."),
	}}
	f := newFixture(t, provider)
	th := f.threads.GetOrCreate("")

	result, err := f.loop.Send(context.Background(), th, "what can you do with tasks?")
	require.NoError(t, err)
	assert.Equal(t, "Here is what I can do with tasks.", result.Text)

	// Both meta answers came back as tool results, no executions.
	var toolResults int
	for _, msg := range th.History().Messages() {
		if msg.Role == pal.RoleTool {
			toolResults += len(msg.ToolResults)
		}
	}
	assert.Equal(t, 2, toolResults)
}

func TestParallelReadsAllComplete(t *testing.T) {
	provider := &mockProvider{responses: []*pal.Response{
		toolResponse(
			invokeCall("c1", "list_calendar_events", map[string]any{}),
			invokeCall("c2", "list_unread_emails", map[string]any{}),
			invokeCall("c3", "list_tasks", map[string]any{}),
		),
		textResponse("Here's your day."),
	}}
	f := newFixture(t, provider)
	th := f.threads.GetOrCreate("")
	th.SetPendingInput(thread.InputMessage, "what's my day look like?")

	events := collectEvents(t, f, th)

	starts, ends := 0, 0
	for _, e := range events {
		switch e.Type {
		case event.ActionStart:
			starts++
		case event.ActionEnd:
			ends++
		}
	}
	assert.Equal(t, 3, starts)
	assert.Equal(t, 3, ends)

	// Results land in call order regardless of lane scheduling.
	for _, msg := range th.History().Messages() {
		if msg.Role == pal.RoleTool {
			require.Len(t, msg.ToolResults, 3)
			assert.Equal(t, "c1", msg.ToolResults[0].ToolCallID)
			assert.Equal(t, "c2", msg.ToolResults[1].ToolCallID)
			assert.Equal(t, "c3", msg.ToolResults[2].ToolCallID)
		}
	}
}

func TestSystemPromptPrepended(t *testing.T) {
	provider := &mockProvider{responses: []*pal.Response{textResponse("ok")}}
	f := newFixture(t, provider)
	th := f.threads.GetOrCreate("")

	_, err := f.loop.Send(context.Background(), th, "hi")
	require.NoError(t, err)

	require.Len(t, provider.calls, 1)
	messages := provider.calls[0]
	require.NotEmpty(t, messages)
	assert.Equal(t, pal.RoleSystem, messages[0].Role)
	assert.NotEmpty(t, messages[0].Content)
}

func TestRunWithoutInputErrors(t *testing.T) {
	provider := &mockProvider{}
	f := newFixture(t, provider)
	th := f.threads.GetOrCreate("")

	_, err := f.loop.Run(context.Background(), th)

	var noInput *thread.ErrNoPendingInput
	assert.ErrorAs(t, err, &noInput)
}

func TestApplyLoopOptions(t *testing.T) {
	o := ApplyOptions()
	assert.Equal(t, 8, o.MaxIterations)
	assert.NotEmpty(t, o.SystemPrompt)
	assert.NotZero(t, o.Timeout)
	assert.NotZero(t, o.HandlerTimeout)

	o = ApplyOptions(WithMaxIterations(3), WithSystemPrompt("custom"))
	assert.Equal(t, 3, o.MaxIterations)
	assert.Equal(t, "custom", o.SystemPrompt)
}
