package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pal "github.com/agenticpal/pal"
	"github.com/agenticpal/pal/schema"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	cat := MustNew(
		Definition{
			Name:     "create_task",
			Category: CategoryTasks,
			Actions:  []Action{ActionCreate},
			Summary:  "Create a task",
			Parameters: schema.Object().
				Field("title", schema.String().Required()).
				Field("due", schema.String()).
				MustBuild(),
		},
		Definition{
			Name:        "delete_task",
			Category:    CategoryTasks,
			Actions:     []Action{ActionDelete},
			Destructive: true,
			Summary:     "Delete a task",
			Parameters: schema.Object().
				Field("task_id", schema.String().Required()).
				MustBuild(),
		},
	)
	return NewRegistry(cat)
}

func TestBind(t *testing.T) {
	t.Run("binds a catalog tool", func(t *testing.T) {
		reg := testRegistry(t)
		err := reg.Bind("create_task", func(ctx context.Context, args map[string]any) (any, error) {
			return "ok", nil
		})
		assert.NoError(t, err)
	})

	t.Run("rejects unknown tool", func(t *testing.T) {
		reg := testRegistry(t)
		err := reg.Bind("nope", func(ctx context.Context, args map[string]any) (any, error) {
			return nil, nil
		})

		var notFound *ErrToolNotFound
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("rejects double bind", func(t *testing.T) {
		reg := testRegistry(t)
		h := func(ctx context.Context, args map[string]any) (any, error) { return nil, nil }
		require.NoError(t, reg.Bind("create_task", h))
		err := reg.Bind("create_task", h)

		var bound *ErrToolAlreadyBound
		assert.ErrorAs(t, err, &bound)
	})
}

func TestValidate(t *testing.T) {
	reg := testRegistry(t)
	reg.MustBind("create_task", func(ctx context.Context, args map[string]any) (any, error) {
		return nil, nil
	})

	t.Run("accepts valid arguments", func(t *testing.T) {
		args, err := reg.Validate("create_task", `{"title":"Buy milk"}`)
		require.NoError(t, err)
		assert.Equal(t, "Buy milk", args["title"])
	})

	t.Run("rejects missing required field", func(t *testing.T) {
		_, err := reg.Validate("create_task", `{"due":"2026-08-25"}`)
		assert.Error(t, err)
	})

	t.Run("rejects unknown field", func(t *testing.T) {
		_, err := reg.Validate("create_task", `{"title":"x","priority":"high"}`)
		assert.Error(t, err)
	})

	t.Run("rejects wrong type", func(t *testing.T) {
		_, err := reg.Validate("create_task", `{"title":42}`)
		assert.Error(t, err)
	})

	t.Run("unbound tool", func(t *testing.T) {
		_, err := reg.Validate("delete_task", `{"task_id":"t1"}`)

		var notBound *ErrToolNotBound
		assert.ErrorAs(t, err, &notBound)
	})
}

func TestResolve(t *testing.T) {
	reg := testRegistry(t)
	reg.MustBind("create_task", func(ctx context.Context, args map[string]any) (any, error) {
		return nil, nil
	})
	reg.MustBind("delete_task", func(ctx context.Context, args map[string]any) (any, error) {
		return nil, nil
	})

	t.Run("copies destructive flag from definition", func(t *testing.T) {
		inv, err := reg.Resolve(pal.ToolCall{ID: "call_1", Name: "delete_task", Arguments: `{"task_id":"t1"}`})
		require.NoError(t, err)

		assert.Equal(t, "call_1", inv.ID)
		assert.True(t, inv.Destructive)
		assert.Equal(t, pal.InvocationProposed, inv.Status)
		assert.Equal(t, "t1", inv.Args["task_id"])
	})

	t.Run("non-destructive tool", func(t *testing.T) {
		inv, err := reg.Resolve(pal.ToolCall{Name: "create_task", Arguments: `{"title":"x"}`})
		require.NoError(t, err)
		assert.False(t, inv.Destructive)
	})

	t.Run("generates invocation ID when call has none", func(t *testing.T) {
		inv, err := reg.Resolve(pal.ToolCall{Name: "create_task", Arguments: `{"title":"x"}`})
		require.NoError(t, err)
		assert.Contains(t, inv.ID, "inv-")
	})

	t.Run("invalid arguments fail before invocation", func(t *testing.T) {
		_, err := reg.Resolve(pal.ToolCall{Name: "create_task", Arguments: `{}`})
		assert.Error(t, err)
	})
}

func TestInvoke(t *testing.T) {
	t.Run("returns handler payload", func(t *testing.T) {
		reg := testRegistry(t)
		reg.MustBind("create_task", func(ctx context.Context, args map[string]any) (any, error) {
			return map[string]any{"id": "task-1", "title": args["title"]}, nil
		})

		inv, err := reg.Resolve(pal.ToolCall{ID: "call_9", Name: "create_task", Arguments: `{"title":"Buy milk"}`})
		require.NoError(t, err)

		res := reg.Invoke(context.Background(), inv)
		assert.Equal(t, "call_9", res.ToolCallID)
		assert.False(t, res.IsError)
		assert.Contains(t, res.Content, "task-1")
	})

	t.Run("handler errors become error results", func(t *testing.T) {
		reg := testRegistry(t)
		reg.MustBind("create_task", func(ctx context.Context, args map[string]any) (any, error) {
			return nil, errors.New("service unavailable")
		})

		res := reg.Invoke(context.Background(), pal.Invocation{ID: "call_2", Tool: "create_task"})
		assert.True(t, res.IsError)
		assert.Equal(t, "service unavailable", res.Content)
	})

	t.Run("unbound tool is an error result, not a panic", func(t *testing.T) {
		reg := testRegistry(t)

		res := reg.Invoke(context.Background(), pal.Invocation{ID: "call_3", Tool: "delete_task"})
		assert.True(t, res.IsError)
	})

	t.Run("string payloads pass through unquoted", func(t *testing.T) {
		reg := testRegistry(t)
		reg.MustBind("create_task", func(ctx context.Context, args map[string]any) (any, error) {
			return "plain text", nil
		})

		res := reg.Invoke(context.Background(), pal.Invocation{ID: "c", Tool: "create_task"})
		assert.Equal(t, "plain text", res.Content)
	})
}

func TestTools(t *testing.T) {
	reg := testRegistry(t)
	tools := reg.Tools()

	require.Len(t, tools, 2)
	assert.Equal(t, "create_task", tools[0].Name)
	assert.NotNil(t, tools[0].Parameters)
}
