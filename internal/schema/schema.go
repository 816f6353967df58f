// Package schema builds and checks the typed field schemas attached to fabricated tools.
package schema

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// FreeTextField is the single field carried by a free-text schema.
const FreeTextField = "input"

// Schema is an ordered, immutable set of fields.
type Schema struct {
	fields   []Field
	index    map[string]int
	freeText bool
}

// New builds a schema from fields. A later field with the same name replaces
// the earlier one in its original position.
func New(fields ...Field) *Schema {
	s := &Schema{index: make(map[string]int, len(fields))}
	for _, f := range fields {
		if i, ok := s.index[f.Name]; ok {
			s.fields[i] = f
			continue
		}
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	return s
}

// FreeText returns the fallback schema: one required string field named
// "input", described by hint.
func FreeText(hint string) *Schema {
	s := New(Field{Name: FreeTextField, Type: String, Description: hint})
	s.freeText = true
	return s
}

// IsFreeText reports whether the schema is the free-text fallback.
func (s *Schema) IsFreeText() bool {
	return s.freeText
}

// Len returns the number of fields.
func (s *Schema) Len() int {
	return len(s.fields)
}

// Fields returns a copy of the fields in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field looks up a field by name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Required returns the names of required fields in declaration order.
func (s *Schema) Required() []string {
	names := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		if f.Required() {
			names = append(names, f.Name)
		}
	}
	return names
}

// FieldDescriptor is the literal form of one field, as accepted by Infer.
type FieldDescriptor struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Optional    bool   `json:"optional,omitempty"`
}

// Describe re-describes the schema as a field-descriptor literal. Feeding the
// result back to Infer reproduces the same types and requiredness.
func (s *Schema) Describe() string {
	om := orderedmap.New[string, FieldDescriptor]()
	for _, f := range s.fields {
		om.Set(f.Name, FieldDescriptor{
			Type:        f.Type.Tag(),
			Description: f.Description,
			Optional:    f.Optional,
		})
	}
	data, err := json.Marshal(om)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// JSONSchema renders the schema as a JSON Schema object.
func (s *Schema) JSONSchema() *jsonschema.Schema {
	js := &jsonschema.Schema{
		Type:       "object",
		Properties: make(map[string]*jsonschema.Schema, len(s.fields)),
		Required:   s.Required(),
	}
	for _, f := range s.fields {
		prop := &jsonschema.Schema{Description: f.Description}
		switch f.Type {
		case Number:
			prop.Type = "number"
		case Boolean:
			prop.Type = "boolean"
		case StringArray:
			prop.Type = "array"
			prop.Items = &jsonschema.Schema{Type: "string"}
		default:
			prop.Type = "string"
		}
		js.Properties[f.Name] = prop
	}
	return js
}
