package schema

import (
	"encoding/json"
	"fmt"
)

// Builder is the interface implemented by all schema builders.
type Builder interface {
	// Build serializes the schema to json.RawMessage.
	// Returns an error if the schema is invalid.
	Build() (json.RawMessage, error)

	// MustBuild is like Build but panics on error.
	MustBuild() json.RawMessage

	// schema returns the internal representation for composition.
	schema() *node
}

// RequiredField wraps a Builder to mark it as required in an object.
type RequiredField struct {
	builder Builder
}

// base provides the shared builder plumbing.
type base struct {
	node *node
}

func (b *base) schema() *node { return b.node }

func (b *base) Build() (json.RawMessage, error) {
	if err := b.node.check(); err != nil {
		return nil, err
	}
	return json.Marshal(b.node)
}

func (b *base) MustBuild() json.RawMessage {
	data, err := b.Build()
	if err != nil {
		panic(err)
	}
	return data
}

// Required marks this field as required when used in an object.
func (b *base) Required() *RequiredField {
	return &RequiredField{builder: b}
}

// String creates a new string schema builder.
func String() *StringBuilder {
	return &StringBuilder{base{node: &node{Type: "string"}}}
}

// StringBuilder constructs string type schemas.
type StringBuilder struct{ base }

// Desc sets the description for this field.
func (b *StringBuilder) Desc(description string) *StringBuilder {
	b.node.Description = description
	return b
}

// Enum restricts the value to one of the provided options.
func (b *StringBuilder) Enum(values ...string) *StringBuilder {
	b.node.Enum = make([]any, len(values))
	for i, v := range values {
		b.node.Enum[i] = v
	}
	return b
}

// Default sets the default value.
func (b *StringBuilder) Default(value string) *StringBuilder {
	b.node.Default = value
	return b
}

// Integer creates a new integer schema builder.
func Integer() *IntegerBuilder {
	return &IntegerBuilder{base{node: &node{Type: "integer"}}}
}

// IntegerBuilder constructs integer type schemas.
type IntegerBuilder struct{ base }

// Desc sets the description for this field.
func (b *IntegerBuilder) Desc(description string) *IntegerBuilder {
	b.node.Description = description
	return b
}

// Default sets the default value.
func (b *IntegerBuilder) Default(value int) *IntegerBuilder {
	b.node.Default = value
	return b
}

// Bool creates a new boolean schema builder.
func Bool() *BoolBuilder {
	return &BoolBuilder{base{node: &node{Type: "boolean"}}}
}

// BoolBuilder constructs boolean type schemas.
type BoolBuilder struct{ base }

// Desc sets the description for this field.
func (b *BoolBuilder) Desc(description string) *BoolBuilder {
	b.node.Description = description
	return b
}

// Any creates a schema builder with no type constraint. Values validate
// as-is; useful for free-form payload fields.
func Any() *AnyBuilder {
	return &AnyBuilder{base{node: &node{}}}
}

// AnyBuilder constructs type-less schemas.
type AnyBuilder struct{ base }

// Desc sets the description for this field.
func (b *AnyBuilder) Desc(description string) *AnyBuilder {
	b.node.Description = description
	return b
}

// Array creates a new array schema builder with the given items schema.
func Array(items Builder) *ArrayBuilder {
	return &ArrayBuilder{base{node: &node{Type: "array", Items: items.schema()}}}
}

// ArrayBuilder constructs array type schemas.
type ArrayBuilder struct{ base }

// Desc sets the description for this field.
func (b *ArrayBuilder) Desc(description string) *ArrayBuilder {
	b.node.Description = description
	return b
}

// Object creates a new object schema builder. Additional properties are
// rejected, matching the dispatcher's unknown-field rule.
func Object() *ObjectBuilder {
	return &ObjectBuilder{base{node: &node{
		Type:                 "object",
		Properties:           make(map[string]*node),
		AdditionalProperties: ptr(false),
	}}}
}

// ObjectBuilder constructs object type schemas.
type ObjectBuilder struct{ base }

// Desc sets the description for the object itself.
func (b *ObjectBuilder) Desc(description string) *ObjectBuilder {
	b.node.Description = description
	return b
}

// Field adds a field with its schema.
// The field argument can be a Builder or a *RequiredField.
func (b *ObjectBuilder) Field(name string, field any) *ObjectBuilder {
	switch f := field.(type) {
	case *RequiredField:
		b.node.Properties[name] = f.builder.schema()
		b.addRequired(name)
	case Builder:
		b.node.Properties[name] = f.schema()
	default:
		panic(fmt.Sprintf("schema: Field %q requires a Builder or *RequiredField, got %T", name, field))
	}
	return b
}

// addRequired adds a field to the required list without duplicates.
func (b *ObjectBuilder) addRequired(name string) {
	for _, r := range b.node.Required {
		if r == name {
			return
		}
	}
	b.node.Required = append(b.node.Required, name)
}
