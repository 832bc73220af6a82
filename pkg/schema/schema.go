// Package schema models the field catalog a form controller renders from:
// named fields with types, defaults, and visibility rules, optionally grouped
// into nested objects. The core engine never sees a Schema; it is consumed by
// the controller and the persistence boundary.
package schema

import (
	"errors"
	"fmt"
	"strings"

	formstate "github.com/goliatone/go-formstate"
)

// ErrInvalid reports a schema document that fails validation.
var ErrInvalid = errors.New("schema: invalid")

// FieldType enumerates the value types a schema field can declare.
type FieldType string

const (
	TypeString   FieldType = "string"
	TypeNumber   FieldType = "number"
	TypeBool     FieldType = "bool"
	TypeDate     FieldType = "date"
	TypeTime     FieldType = "time"
	TypeDateTime FieldType = "datetime"
	TypeObject   FieldType = "object"
	TypeArray    FieldType = "array"
)

var knownTypes = map[FieldType]struct{}{
	TypeString:   {},
	TypeNumber:   {},
	TypeBool:     {},
	TypeDate:     {},
	TypeTime:     {},
	TypeDateTime: {},
	TypeObject:   {},
	TypeArray:    {},
}

// Field describes one form field. Object fields carry nested Fields and act
// as groups; every other type is a leaf.
type Field struct {
	Name        string    `json:"name" yaml:"name"`
	Label       string    `json:"label,omitempty" yaml:"label,omitempty"`
	Type        FieldType `json:"type" yaml:"type"`
	Required    bool      `json:"required,omitempty" yaml:"required,omitempty"`
	VisibleWhen string    `json:"visible_when,omitempty" yaml:"visible_when,omitempty"`
	Default     any       `json:"default,omitempty" yaml:"default,omitempty"`
	Fields      []Field   `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// IsLeaf reports whether the field holds a value directly rather than
// grouping nested fields.
func (f Field) IsLeaf() bool {
	return f.Type != TypeObject
}

// Schema is a versioned collection of fields for one form.
type Schema struct {
	Name    string  `json:"name" yaml:"name"`
	Version string  `json:"version,omitempty" yaml:"version,omitempty"`
	Fields  []Field `json:"fields" yaml:"fields"`
}

// Validate checks structural rules: non-empty names without separator
// characters, unique sibling names, known types, nested fields only under
// object groups, and visibility rules only on leaves.
func (s Schema) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: schema name is required", ErrInvalid)
	}
	if len(s.Fields) == 0 {
		return fmt.Errorf("%w: schema %q declares no fields", ErrInvalid, s.Name)
	}
	return validateFields(s.Fields, "")
}

func validateFields(fields []Field, prefix string) error {
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		path := joinPath(prefix, field.Name)
		if field.Name == "" {
			return fmt.Errorf("%w: field under %q has no name", ErrInvalid, prefix)
		}
		if strings.Contains(field.Name, formstate.DefaultSeparator) {
			return fmt.Errorf("%w: field name %q must not contain %q", ErrInvalid, field.Name, formstate.DefaultSeparator)
		}
		if _, dup := seen[field.Name]; dup {
			return fmt.Errorf("%w: duplicate field %q", ErrInvalid, path)
		}
		seen[field.Name] = struct{}{}
		if _, ok := knownTypes[field.Type]; !ok {
			return fmt.Errorf("%w: field %q has unknown type %q", ErrInvalid, path, field.Type)
		}
		if field.Type == TypeObject {
			if field.VisibleWhen != "" {
				return fmt.Errorf("%w: group %q must not declare a visibility rule", ErrInvalid, path)
			}
			if len(field.Fields) == 0 {
				return fmt.Errorf("%w: group %q declares no fields", ErrInvalid, path)
			}
			if err := validateFields(field.Fields, path); err != nil {
				return err
			}
			continue
		}
		if len(field.Fields) > 0 {
			return fmt.Errorf("%w: field %q of type %q must not nest fields", ErrInvalid, path, field.Type)
		}
	}
	return nil
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + formstate.DefaultSeparator + name
}
