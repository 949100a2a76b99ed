package schema

import (
	"encoding/json"
	"fmt"
	"math"
)

// Schema is a compiled parameter schema ready for argument validation.
// Compile once at registration time; Validate per call.
type Schema struct {
	root *node
}

// Compile parses a JSON Schema document into an imperative checker.
// The root must be an object schema.
func Compile(raw json.RawMessage) (*Schema, error) {
	if len(raw) == 0 {
		return &Schema{root: &node{Type: "object"}}, nil
	}
	var n node
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("invalid schema document: %v", err), Err: err}
	}
	if n.Type != "object" {
		return nil, &ValidationError{Message: "root must be an object", Err: ErrNotObject}
	}
	if err := n.check(); err != nil {
		return nil, err
	}
	return &Schema{root: &n}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(raw json.RawMessage) *Schema {
	s, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return s
}

// ValidateJSON unmarshals a raw argument string and validates it.
// An empty string is treated as an empty argument object.
func (s *Schema) ValidateJSON(raw string) (map[string]any, error) {
	args := map[string]any{}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return nil, &ValidationError{Message: fmt.Sprintf("arguments are not a JSON object: %v", err), Err: err}
		}
	}
	return s.Validate(args)
}

// Validate checks arguments against the schema and returns a normalized
// copy. Required fields must be present, values must be coercible to
// the declared types, enum values must match, and unknown fields are
// rejected.
func (s *Schema) Validate(args map[string]any) (map[string]any, error) {
	return validateObject(s.root, args)
}

func validateObject(n *node, args map[string]any) (map[string]any, error) {
	for _, req := range n.Required {
		if _, ok := args[req]; !ok {
			return nil, &ValidationError{Field: req, Message: "required field missing"}
		}
	}

	out := make(map[string]any, len(args))
	for name, value := range args {
		prop, ok := n.Properties[name]
		if !ok {
			return nil, &ValidationError{Field: name, Message: "unknown field"}
		}
		normalized, err := validateValue(name, prop, value)
		if err != nil {
			return nil, err
		}
		out[name] = normalized
	}
	return out, nil
}

func validateValue(field string, n *node, value any) (any, error) {
	if value == nil {
		return nil, &ValidationError{Field: field, Message: "null is not allowed"}
	}

	switch n.Type {
	case "string":
		s, ok := value.(string)
		if !ok {
			return nil, typeError(field, "string", value)
		}
		if len(n.Enum) > 0 && !enumContains(n.Enum, s) {
			return nil, &ValidationError{Field: field, Message: fmt.Sprintf("value %q is not one of the allowed options", s)}
		}
		return s, nil

	case "integer":
		switch v := value.(type) {
		case float64:
			// JSON numbers decode as float64; accept integral values only.
			if v != math.Trunc(v) {
				return nil, typeError(field, "integer", value)
			}
			return int(v), nil
		case int:
			return v, nil
		default:
			return nil, typeError(field, "integer", value)
		}

	case "number":
		switch v := value.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		default:
			return nil, typeError(field, "number", value)
		}

	case "boolean":
		b, ok := value.(bool)
		if !ok {
			return nil, typeError(field, "boolean", value)
		}
		return b, nil

	case "array":
		items, ok := value.([]any)
		if !ok {
			return nil, typeError(field, "array", value)
		}
		out := make([]any, len(items))
		for i, item := range items {
			normalized, err := validateValue(fmt.Sprintf("%s[%d]", field, i), n.Items, item)
			if err != nil {
				return nil, err
			}
			out[i] = normalized
		}
		return out, nil

	case "object":
		obj, ok := value.(map[string]any)
		if !ok {
			return nil, typeError(field, "object", value)
		}
		out, err := validateObject(n, obj)
		if err != nil {
			return nil, err
		}
		return out, nil

	default:
		// No type declared: pass through as-is.
		return value, nil
	}
}

func typeError(field, want string, got any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf("expected %s, got %T", want, got)}
}

func enumContains(enum []any, s string) bool {
	for _, e := range enum {
		if v, ok := e.(string); ok && v == s {
			return true
		}
	}
	return false
}
