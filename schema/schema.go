package schema

import (
	"errors"
	"fmt"
)

// node is the internal representation of a JSON Schema fragment.
type node struct {
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Enum        []any  `json:"enum,omitempty"`
	Default     any    `json:"default,omitempty"`

	// Array constraints
	Items *node `json:"items,omitempty"`

	// Object constraints
	Properties           map[string]*node `json:"properties,omitempty"`
	Required             []string         `json:"required,omitempty"`
	AdditionalProperties *bool            `json:"additionalProperties,omitempty"`
}

// Sentinel errors for schema construction.
var (
	// ErrNilItems is returned when an array has no items schema.
	ErrNilItems = errors.New("schema: array requires items schema")

	// ErrNotObject is returned when Compile is given a non-object root.
	ErrNotObject = errors.New("schema: root must be an object")
)

// ValidationError represents a schema or argument validation failure.
type ValidationError struct {
	Field   string // the field name, empty for schema-level failures
	Message string // human-readable error message
	Err     error  // underlying error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("schema: field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("schema: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// check verifies the node for internal consistency.
func (n *node) check() error {
	switch n.Type {
	case "array":
		if n.Items == nil {
			return &ValidationError{Message: "array requires items schema", Err: ErrNilItems}
		}
		if err := n.Items.check(); err != nil {
			return &ValidationError{Message: fmt.Sprintf("invalid items schema: %v", err), Err: err}
		}
	case "object":
		for name, prop := range n.Properties {
			if err := prop.check(); err != nil {
				return &ValidationError{Field: name, Message: err.Error(), Err: err}
			}
		}
	}
	return nil
}

// ptr returns a pointer to the value.
func ptr[T any](v T) *T {
	return &v
}
