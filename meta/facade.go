// Package meta exposes the tool catalog to the model through three
// fixed operations: discover_tools, get_tool_schema, and invoke_tool.
// The model's declared tool surface stays constant no matter how many
// tools the catalog holds; schemas are paid for per call, on demand.
package meta

import (
	"encoding/json"
	"fmt"

	pal "github.com/agenticpal/pal"
	"github.com/agenticpal/pal/catalog"
	"github.com/agenticpal/pal/schema"
)

// Names of the three façade operations.
const (
	ToolDiscover  = "discover_tools"
	ToolGetSchema = "get_tool_schema"
	ToolInvoke    = "invoke_tool"
)

// IsMetaTool reports whether name is one of the façade operations.
func IsMetaTool(name string) bool {
	switch name {
	case ToolDiscover, ToolGetSchema, ToolInvoke:
		return true
	}
	return false
}

// Gate parks a destructive invocation pending explicit confirmation.
// Propose returns an error when a confirmation is already outstanding.
type Gate interface {
	Propose(inv pal.Invocation) error
}

// Outcome is the result of dispatching one façade call. Exactly one of
// the three fields is set:
//
//   - Result: the call was answered directly (discovery listing, schema
//     document, validation failure, or the pending-confirmation notice).
//   - Invocation: a validated non-destructive invocation ready to
//     execute now.
//   - Proposed: a validated destructive invocation parked behind the
//     gate; Result carries the notice returned to the model.
type Outcome struct {
	Result     *pal.ToolResult
	Invocation *pal.Invocation
	Proposed   *pal.Invocation
}

// Facade dispatches the three meta operations over a catalog and its
// registry. Safe for concurrent use; all state is immutable after
// construction.
type Facade struct {
	cat *catalog.Catalog
	reg *catalog.Registry

	discoverSchema *schema.Schema
	getSchema      *schema.Schema
	invokeSchema   *schema.Schema
}

// NewFacade builds the façade for a catalog/registry pair.
func NewFacade(cat *catalog.Catalog, reg *catalog.Registry) *Facade {
	return &Facade{
		cat:            cat,
		reg:            reg,
		discoverSchema: schema.MustCompile(discoverParams()),
		getSchema:      schema.MustCompile(getSchemaParams()),
		invokeSchema:   schema.MustCompile(invokeParams()),
	}
}

func discoverParams() json.RawMessage {
	return schema.Object().
		Field("category", schema.String().
			Desc("Filter by tool category").
			Enum(string(catalog.CategoryCalendar), string(catalog.CategoryMail), string(catalog.CategoryTasks))).
		Field("action", schema.String().
			Desc("Filter by action tag (create, read, update, delete, list, search)").
			Enum(string(catalog.ActionCreate), string(catalog.ActionRead), string(catalog.ActionUpdate),
				string(catalog.ActionDelete), string(catalog.ActionList), string(catalog.ActionSearch))).
		Field("query", schema.String().
			Desc("Free-text filter matched against tool names and summaries")).
		MustBuild()
}

func getSchemaParams() json.RawMessage {
	return schema.Object().
		Field("tool_name", schema.String().Desc("Name of the tool to fetch the schema for").Required()).
		MustBuild()
}

func invokeParams() json.RawMessage {
	return schema.Object().
		Field("tool_name", schema.String().Desc("Name of the tool to invoke").Required()).
		Field("parameters", schema.Any().Desc("Arguments for the tool, matching its schema")).
		MustBuild()
}

// Tools returns the three operation declarations the model sees. This
// is the entire declared surface, independent of catalog size.
func (f *Facade) Tools() []pal.Tool {
	return []pal.Tool{
		{
			Name: ToolDiscover,
			Description: "List available tools as name+summary pairs. Optionally filter by " +
				"category, action, or free text. Call this first to find the right tool.",
			Parameters: discoverParams(),
		},
		{
			Name: ToolGetSchema,
			Description: "Get the full description and parameter schema for one tool. " +
				"Call this before invoke_tool to learn the exact arguments.",
			Parameters: getSchemaParams(),
		},
		{
			Name: ToolInvoke,
			Description: "Invoke a tool by name with its arguments. Destructive tools are " +
				"held for user confirmation instead of executing immediately.",
			Parameters: invokeParams(),
		},
	}
}

// Dispatch routes one façade call. Argument or lookup failures never
// escape as errors; they come back as error tool results so the model
// can correct itself on the next step.
func (f *Facade) Dispatch(call pal.ToolCall, gate Gate) Outcome {
	switch call.Name {
	case ToolDiscover:
		return f.discover(call)
	case ToolGetSchema:
		return f.schemaFor(call)
	case ToolInvoke:
		return f.invoke(call, gate)
	default:
		return errorResult(call.ID, fmt.Sprintf("unknown tool %q; available: %s, %s, %s",
			call.Name, ToolDiscover, ToolGetSchema, ToolInvoke))
	}
}

func (f *Facade) discover(call pal.ToolCall) Outcome {
	args, err := f.discoverSchema.ValidateJSON(call.Arguments)
	if err != nil {
		return errorResult(call.ID, err.Error())
	}

	var filter catalog.Filter
	if v, ok := args["category"].(string); ok {
		filter.Categories = []catalog.Category{catalog.Category(v)}
	}
	if v, ok := args["action"].(string); ok {
		filter.Actions = []catalog.Action{catalog.Action(v)}
	}
	if v, ok := args["query"].(string); ok {
		filter.Query = v
	}

	entries := f.cat.Discover(filter)
	if entries == nil {
		entries = []catalog.Entry{}
	}
	return jsonResult(call.ID, map[string]any{
		"tools": entries,
		"count": len(entries),
	})
}

func (f *Facade) schemaFor(call pal.ToolCall) Outcome {
	args, err := f.getSchema.ValidateJSON(call.Arguments)
	if err != nil {
		return errorResult(call.ID, err.Error())
	}

	name := args["tool_name"].(string)
	def, ok := f.cat.Lookup(name)
	if !ok {
		return errorResult(call.ID, fmt.Sprintf("tool %q not found; use %s to list available tools", name, ToolDiscover))
	}

	return jsonResult(call.ID, map[string]any{
		"name":        def.Name,
		"category":    def.Category,
		"destructive": def.Destructive,
		"description": def.Description,
		"parameters":  def.Parameters,
	})
}

func (f *Facade) invoke(call pal.ToolCall, gate Gate) Outcome {
	args, err := f.invokeSchema.ValidateJSON(call.Arguments)
	if err != nil {
		return errorResult(call.ID, err.Error())
	}

	name := args["tool_name"].(string)
	params, _ := json.Marshal(args["parameters"])
	if args["parameters"] == nil {
		params = []byte("{}")
	}

	inv, err := f.reg.Resolve(pal.ToolCall{
		ID:        call.ID,
		Name:      name,
		Arguments: string(params),
	})
	if err != nil {
		return errorResult(call.ID, err.Error())
	}

	if !inv.Destructive {
		return Outcome{Invocation: &inv}
	}

	if err := gate.Propose(inv); err != nil {
		return errorResult(call.ID, err.Error())
	}
	out := jsonResult(call.ID, map[string]any{
		"status":        "pending_confirmation",
		"invocation_id": inv.ID,
		"tool":          inv.Tool,
		"message": "This action modifies or deletes data and is held for user " +
			"confirmation. Tell the user what will happen and ask them to confirm.",
	})
	out.Proposed = &inv
	return out
}

func jsonResult(callID string, payload any) Outcome {
	data, err := json.Marshal(payload)
	if err != nil {
		return errorResult(callID, fmt.Sprintf("encoding result: %v", err))
	}
	return Outcome{Result: &pal.ToolResult{ToolCallID: callID, Content: string(data)}}
}

func errorResult(callID, msg string) Outcome {
	return Outcome{Result: &pal.ToolResult{ToolCallID: callID, Content: msg, IsError: true}}
}
