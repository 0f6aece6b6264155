// Package blueprint defines the field schemas that shape an extraction. A
// blueprint names the attributes to pull out of a document; it is rendered
// to a JSON Schema that gets embedded in the model prompt and states the
// required output shape.
package blueprint

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Field types accepted in blueprint definitions.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeArray   = "array"
)

// Field is one attribute to extract.
type Field struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
	Required    bool   `json:"required" yaml:"required"`
	// Items is the element type for array fields. Defaults to string.
	Items string `json:"items,omitempty" yaml:"items,omitempty"`
}

// Blueprint names a set of fields to extract from one document class.
type Blueprint struct {
	ID          string  `json:"id" yaml:"id"`
	Description string  `json:"description" yaml:"description"`
	Fields      []Field `json:"fields" yaml:"fields"`
	// Builtin marks blueprints compiled into the binary.
	Builtin bool `json:"-" yaml:"-"`
}

// Validate checks field names and types. Returns the offending field name in
// the error so bad YAML is easy to fix.
func (b Blueprint) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("blueprint is missing an id")
	}
	if len(b.Fields) == 0 {
		return fmt.Errorf("blueprint %s has no fields", b.ID)
	}
	seen := map[string]bool{}
	for _, f := range b.Fields {
		if f.Name == "" {
			return fmt.Errorf("blueprint %s: field with empty name", b.ID)
		}
		if seen[f.Name] {
			return fmt.Errorf("blueprint %s: duplicate field %q", b.ID, f.Name)
		}
		seen[f.Name] = true
		switch f.Type {
		case TypeString, TypeNumber, TypeBoolean, TypeArray:
		default:
			return fmt.Errorf("blueprint %s: field %q has unknown type %q", b.ID, f.Name, f.Type)
		}
		if f.Items != "" && f.Type != TypeArray {
			return fmt.Errorf("blueprint %s: field %q sets items but is not an array", b.ID, f.Name)
		}
	}
	return nil
}

// Schema renders the blueprint to a JSON Schema object.
func (b Blueprint) Schema() *jsonschema.Schema {
	props := jsonschema.NewProperties()
	var required []string
	for _, f := range b.Fields {
		fs := &jsonschema.Schema{
			Type:        f.Type,
			Description: f.Description,
		}
		if f.Type == TypeArray {
			items := f.Items
			if items == "" {
				items = TypeString
			}
			fs.Items = &jsonschema.Schema{Type: items}
		}
		props.Set(f.Name, fs)
		if f.Required {
			required = append(required, f.Name)
		}
	}
	return &jsonschema.Schema{
		Type:                 "object",
		Description:          b.Description,
		Properties:           props,
		Required:             required,
		AdditionalProperties: jsonschema.FalseSchema,
	}
}

// SchemaJSON renders the schema as indented JSON for prompt embedding.
func (b Blueprint) SchemaJSON() (string, error) {
	out, err := json.MarshalIndent(b.Schema(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal schema for %s: %w", b.ID, err)
	}
	return string(out), nil
}

// FieldNames lists field names in declaration order.
func (b Blueprint) FieldNames() []string {
	names := make([]string, 0, len(b.Fields))
	for _, f := range b.Fields {
		names = append(names, f.Name)
	}
	return names
}
