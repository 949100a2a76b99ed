package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pal "github.com/agenticpal/pal"
	"github.com/agenticpal/pal/catalog"
	"github.com/agenticpal/pal/service"
)

// recordingGate accepts or rejects proposals and remembers them.
type recordingGate struct {
	proposed []pal.Invocation
	err      error
}

func (g *recordingGate) Propose(inv pal.Invocation) error {
	if g.err != nil {
		return g.err
	}
	g.proposed = append(g.proposed, inv)
	return nil
}

func testFacade(t *testing.T) *Facade {
	t.Helper()
	cat := catalog.Default()
	reg := catalog.NewRegistry(cat)
	service.MustBindAll(reg, service.NewCalendar(), service.NewMail(), service.NewTasks())
	return NewFacade(cat, reg)
}

func TestIsMetaTool(t *testing.T) {
	assert.True(t, IsMetaTool(ToolDiscover))
	assert.True(t, IsMetaTool(ToolGetSchema))
	assert.True(t, IsMetaTool(ToolInvoke))
	assert.False(t, IsMetaTool("create_task"))
}

func TestTools(t *testing.T) {
	f := testFacade(t)
	tools := f.Tools()

	require.Len(t, tools, 3, "declared surface is constant")
	names := []string{tools[0].Name, tools[1].Name, tools[2].Name}
	assert.Equal(t, []string{ToolDiscover, ToolGetSchema, ToolInvoke}, names)
	for _, tool := range tools {
		assert.NotEmpty(t, tool.Description)
		assert.NotNil(t, tool.Parameters)
	}
}

func TestDispatchDiscover(t *testing.T) {
	f := testFacade(t)

	t.Run("unfiltered lists the full catalog", func(t *testing.T) {
		out := f.Dispatch(pal.ToolCall{ID: "c1", Name: ToolDiscover, Arguments: `{}`}, nil)

		require.NotNil(t, out.Result)
		assert.False(t, out.Result.IsError)
		assert.Nil(t, out.Invocation)
		assert.Contains(t, out.Result.Content, `"count":17`)
	})

	t.Run("category filter", func(t *testing.T) {
		out := f.Dispatch(pal.ToolCall{ID: "c2", Name: ToolDiscover, Arguments: `{"category":"mail"}`}, nil)

		require.NotNil(t, out.Result)
		assert.Contains(t, out.Result.Content, `"count":5`)
		assert.NotContains(t, out.Result.Content, "create_task")
	})

	t.Run("listing withholds schemas", func(t *testing.T) {
		out := f.Dispatch(pal.ToolCall{ID: "c3", Name: ToolDiscover, Arguments: `{"category":"tasks"}`}, nil)
		assert.NotContains(t, out.Result.Content, "properties")
	})

	t.Run("invalid category enum is an error result", func(t *testing.T) {
		out := f.Dispatch(pal.ToolCall{ID: "c4", Name: ToolDiscover, Arguments: `{"category":"weather"}`}, nil)

		require.NotNil(t, out.Result)
		assert.True(t, out.Result.IsError)
	})

	t.Run("no matches yields an empty list, not null", func(t *testing.T) {
		out := f.Dispatch(pal.ToolCall{ID: "c5", Name: ToolDiscover, Arguments: `{"query":"zzzz"}`}, nil)
		assert.Contains(t, out.Result.Content, `"tools":[]`)
	})
}

func TestDispatchGetSchema(t *testing.T) {
	f := testFacade(t)

	t.Run("returns the full definition", func(t *testing.T) {
		out := f.Dispatch(pal.ToolCall{ID: "s1", Name: ToolGetSchema, Arguments: `{"tool_name":"delete_task"}`}, nil)

		require.NotNil(t, out.Result)
		assert.False(t, out.Result.IsError)
		assert.Contains(t, out.Result.Content, `"destructive":true`)
		assert.Contains(t, out.Result.Content, `"parameters"`)
	})

	t.Run("unknown tool points back to discovery", func(t *testing.T) {
		out := f.Dispatch(pal.ToolCall{ID: "s2", Name: ToolGetSchema, Arguments: `{"tool_name":"nope"}`}, nil)

		assert.True(t, out.Result.IsError)
		assert.Contains(t, out.Result.Content, ToolDiscover)
	})

	t.Run("missing tool_name is an error result", func(t *testing.T) {
		out := f.Dispatch(pal.ToolCall{ID: "s3", Name: ToolGetSchema, Arguments: `{}`}, nil)
		assert.True(t, out.Result.IsError)
	})
}

func TestDispatchInvoke(t *testing.T) {
	t.Run("non-destructive returns an executable invocation", func(t *testing.T) {
		f := testFacade(t)
		gate := &recordingGate{}

		out := f.Dispatch(pal.ToolCall{
			ID:        "i1",
			Name:      ToolInvoke,
			Arguments: `{"tool_name":"create_task","parameters":{"title":"Buy milk"}}`,
		}, gate)

		require.NotNil(t, out.Invocation)
		assert.Nil(t, out.Result)
		assert.Nil(t, out.Proposed)
		assert.Equal(t, "create_task", out.Invocation.Tool)
		assert.Equal(t, "Buy milk", out.Invocation.Args["title"])
		assert.Empty(t, gate.proposed)
	})

	t.Run("destructive parks behind the gate with a pending notice", func(t *testing.T) {
		f := testFacade(t)
		gate := &recordingGate{}

		out := f.Dispatch(pal.ToolCall{
			ID:        "i2",
			Name:      ToolInvoke,
			Arguments: `{"tool_name":"delete_task","parameters":{"task_id":"task-1"}}`,
		}, gate)

		require.NotNil(t, out.Result)
		assert.False(t, out.Result.IsError)
		assert.Contains(t, out.Result.Content, "pending_confirmation")
		require.NotNil(t, out.Proposed)
		assert.Nil(t, out.Invocation)
		require.Len(t, gate.proposed, 1)
		assert.Equal(t, "delete_task", gate.proposed[0].Tool)
	})

	t.Run("gate conflict surfaces as an error result", func(t *testing.T) {
		f := testFacade(t)
		gate := &recordingGate{err: &pal.ConfirmationConflictError{ThreadID: "t1", Tool: "delete_task"}}

		out := f.Dispatch(pal.ToolCall{
			ID:        "i3",
			Name:      ToolInvoke,
			Arguments: `{"tool_name":"delete_task","parameters":{"task_id":"task-1"}}`,
		}, gate)

		require.NotNil(t, out.Result)
		assert.True(t, out.Result.IsError)
		assert.Nil(t, out.Proposed)
	})

	t.Run("argument validation failure is an error result", func(t *testing.T) {
		f := testFacade(t)

		out := f.Dispatch(pal.ToolCall{
			ID:        "i4",
			Name:      ToolInvoke,
			Arguments: `{"tool_name":"create_task","parameters":{"priority":"high"}}`,
		}, &recordingGate{})

		require.NotNil(t, out.Result)
		assert.True(t, out.Result.IsError)
	})

	t.Run("omitted parameters default to empty object", func(t *testing.T) {
		f := testFacade(t)

		out := f.Dispatch(pal.ToolCall{
			ID:        "i5",
			Name:      ToolInvoke,
			Arguments: `{"tool_name":"get_task_lists"}`,
		}, &recordingGate{})

		require.NotNil(t, out.Invocation)
	})

	t.Run("unknown tool name is an error result", func(t *testing.T) {
		f := testFacade(t)

		out := f.Dispatch(pal.ToolCall{
			ID:        "i6",
			Name:      ToolInvoke,
			Arguments: `{"tool_name":"teleport"}`,
		}, &recordingGate{})

		assert.True(t, out.Result.IsError)
	})
}

func TestDispatchUnknownOperation(t *testing.T) {
	f := testFacade(t)

	out := f.Dispatch(pal.ToolCall{ID: "u1", Name: "create_task", Arguments: `{}`}, nil)

	require.NotNil(t, out.Result)
	assert.True(t, out.Result.IsError)
	assert.Contains(t, out.Result.Content, ToolInvoke)
}
