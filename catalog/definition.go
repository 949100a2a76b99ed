package catalog

import (
	"encoding/json"

	pal "github.com/agenticpal/pal"
)

// Category groups tools by the productivity service they touch.
type Category string

const (
	CategoryCalendar Category = "calendar"
	CategoryMail     Category = "mail"
	CategoryTasks    Category = "tasks"
)

// Action is a semantic tag describing what a tool does to its service.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"
	ActionSearch Action = "search"
)

// writeActions are the actions that mutate service state. Two calls
// that share a category and include a write action target overlapping
// resources and must not run concurrently.
var writeActions = map[Action]bool{
	ActionCreate: true,
	ActionUpdate: true,
	ActionDelete: true,
}

// Definition is the immutable description of one callable capability.
type Definition struct {
	// Name is the unique catalog key.
	Name string
	// Category identifies the backing service.
	Category Category
	// Actions are the semantic tags for this tool.
	Actions []Action
	// Destructive marks tools whose effects are not trivially
	// reversible. Destructive tools only execute after explicit
	// confirmation.
	Destructive bool
	// Summary is the one-line text served by the discovery index.
	Summary string
	// Description is the full text served with the schema.
	Description string
	// Parameters is the JSON Schema for the tool's arguments.
	Parameters json.RawMessage
}

// Writes reports whether any of the tool's actions mutate service state.
func (d Definition) Writes() bool {
	for _, a := range d.Actions {
		if writeActions[a] {
			return true
		}
	}
	return false
}

// HasAction reports whether the definition carries the given tag.
func (d Definition) HasAction(a Action) bool {
	for _, tag := range d.Actions {
		if tag == a {
			return true
		}
	}
	return false
}

// Tool converts the definition to the model-facing tool shape.
func (d Definition) Tool() pal.Tool {
	return pal.Tool{
		Name:        d.Name,
		Description: d.Description,
		Parameters:  d.Parameters,
	}
}

// Entry is the discovery projection of a definition: name and summary
// only, so the model pays for a schema only when it intends to call.
type Entry struct {
	Name    string `json:"name"`
	Summary string `json:"summary"`
}
