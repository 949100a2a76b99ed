package catalog

import "fmt"

// ErrToolNotFound is returned when a name does not exist in the catalog.
type ErrToolNotFound struct {
	Name string
}

// Error returns a formatted error message including the tool name.
func (e *ErrToolNotFound) Error() string {
	return fmt.Sprintf("catalog: tool not found: %s", e.Name)
}

// ErrDuplicateTool is returned when the registration table repeats a name.
type ErrDuplicateTool struct {
	Name string
}

// Error returns a formatted error message including the duplicate name.
func (e *ErrDuplicateTool) Error() string {
	return fmt.Sprintf("catalog: duplicate tool: %s", e.Name)
}

// ErrInvalidDefinition is returned for a malformed registration entry.
type ErrInvalidDefinition struct {
	Reason string
}

func (e *ErrInvalidDefinition) Error() string {
	return fmt.Sprintf("catalog: invalid definition: %s", e.Reason)
}

// ErrToolAlreadyBound is returned when binding a handler twice.
type ErrToolAlreadyBound struct {
	Name string
}

// Error returns a formatted error message including the tool name.
func (e *ErrToolAlreadyBound) Error() string {
	return fmt.Sprintf("catalog: tool already bound: %s", e.Name)
}

// ErrToolNotBound is returned when invoking a tool that has no connector.
type ErrToolNotBound struct {
	Name string
}

// Error returns a formatted error message including the tool name.
func (e *ErrToolNotBound) Error() string {
	return fmt.Sprintf("catalog: tool not bound: %s", e.Name)
}
