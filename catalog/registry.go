package catalog

import (
	"context"
	"encoding/json"
	"sync"

	pal "github.com/agenticpal/pal"
	"github.com/agenticpal/pal/schema"
)

// Handler executes one tool against its external collaborator.
// It receives schema-validated arguments and returns an opaque payload,
// or an error describing the collaborator failure.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// binding pairs a handler with the schema compiled at bind time.
type binding struct {
	handler Handler
	schema  *schema.Schema
}

// Registry binds catalog definitions to handlers and dispatches calls.
// It is safe for concurrent use. The Registry performs no confirmation
// gating; callers routing destructive tools must clear the gate first.
type Registry struct {
	catalog  *Catalog
	mu       sync.RWMutex
	bindings map[string]binding
}

// NewRegistry creates a registry over the given catalog.
func NewRegistry(c *Catalog) *Registry {
	return &Registry{
		catalog:  c,
		bindings: make(map[string]binding),
	}
}

// Catalog returns the underlying catalog.
func (r *Registry) Catalog() *Catalog {
	return r.catalog
}

// Bind attaches a handler to a catalog tool. The parameter schema is
// compiled here so per-call validation is a map walk, not a parse.
func (r *Registry) Bind(name string, h Handler) error {
	def, ok := r.catalog.Lookup(name)
	if !ok {
		return &ErrToolNotFound{Name: name}
	}

	compiled, err := schema.Compile(def.Parameters)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.bindings[name]; exists {
		return &ErrToolAlreadyBound{Name: name}
	}
	r.bindings[name] = binding{handler: h, schema: compiled}
	return nil
}

// MustBind is like Bind but panics on error.
func (r *Registry) MustBind(name string, h Handler) {
	if err := r.Bind(name, h); err != nil {
		panic(err)
	}
}

// Lookup retrieves a definition by name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	return r.catalog.Lookup(name)
}

// Validate checks raw JSON arguments against the tool's schema and
// returns the normalized arguments. Unknown fields are an error.
func (r *Registry) Validate(name, rawArgs string) (map[string]any, error) {
	r.mu.RLock()
	b, ok := r.bindings[name]
	r.mu.RUnlock()

	if !ok {
		if _, inCatalog := r.catalog.Lookup(name); !inCatalog {
			return nil, &ErrToolNotFound{Name: name}
		}
		return nil, &ErrToolNotBound{Name: name}
	}
	return b.schema.ValidateJSON(rawArgs)
}

// Resolve validates a model tool call and produces an invocation with
// the destructiveness flag copied from the definition, so later catalog
// edits cannot change an already-proposed action.
func (r *Registry) Resolve(call pal.ToolCall) (pal.Invocation, error) {
	def, ok := r.catalog.Lookup(call.Name)
	if !ok {
		return pal.Invocation{}, &ErrToolNotFound{Name: call.Name}
	}

	args, err := r.Validate(call.Name, call.Arguments)
	if err != nil {
		return pal.Invocation{}, err
	}

	id := call.ID
	if id == "" {
		id = pal.GenerateInvocationID()
	}
	return pal.Invocation{
		ID:          id,
		Tool:        call.Name,
		Args:        args,
		Destructive: def.Destructive,
		Status:      pal.InvocationProposed,
	}, nil
}

// Invoke runs the bound handler for an already-validated invocation.
// Failures never escape: every outcome, including unbound tools and
// collaborator errors, surfaces as a ToolResult keyed by the
// invocation ID.
func (r *Registry) Invoke(ctx context.Context, inv pal.Invocation) pal.ToolResult {
	r.mu.RLock()
	b, ok := r.bindings[inv.Tool]
	r.mu.RUnlock()

	if !ok {
		return pal.ToolResult{
			ToolCallID: inv.ID,
			Content:    (&ErrToolNotBound{Name: inv.Tool}).Error(),
			IsError:    true,
		}
	}

	payload, err := b.handler(ctx, inv.Args)
	if err != nil {
		return pal.ToolResult{
			ToolCallID: inv.ID,
			Content:    err.Error(),
			IsError:    true,
		}
	}

	return pal.ToolResult{
		ToolCallID: inv.ID,
		Content:    payloadToString(payload),
	}
}

// Tools returns the model-facing tool shapes for every definition.
func (r *Registry) Tools() []pal.Tool {
	defs := r.catalog.Definitions()
	tools := make([]pal.Tool, len(defs))
	for i, d := range defs {
		tools[i] = d.Tool()
	}
	return tools
}

func payloadToString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
