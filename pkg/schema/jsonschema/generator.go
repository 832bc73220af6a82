// Package jsonschema renders a form schema as a JSON Schema document so
// hosts can validate submissions with off-the-shelf tooling.
package jsonschema

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-formstate/pkg/schema"
)

const defaultDialect = "https://json-schema.org/draft/2020-12/schema"

type generatorConfig struct {
	dialect string
	id      string
}

// Option configures document generation.
type Option func(*generatorConfig)

// WithDialect overrides the $schema dialect URI.
func WithDialect(dialect string) Option {
	return func(cfg *generatorConfig) {
		if dialect != "" {
			cfg.dialect = dialect
		}
	}
}

// WithID sets the document's $id.
func WithID(id string) Option {
	return func(cfg *generatorConfig) {
		cfg.id = id
	}
}

// Generate builds a JSON Schema document for one form schema. Temporal field
// types map to string schemas with the matching format annotation.
func Generate(s schema.Schema, opts ...Option) (map[string]any, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	cfg := generatorConfig{dialect: defaultDialect}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	document := map[string]any{
		"$schema": cfg.dialect,
		"title":   s.Name,
	}
	if cfg.id != "" {
		document["$id"] = cfg.id
	}
	if s.Version != "" {
		document["x-form-version"] = s.Version
	}

	body, err := objectSchema(s.Fields)
	if err != nil {
		return nil, err
	}
	for key, value := range body {
		document[key] = value
	}
	return document, nil
}

func objectSchema(fields []schema.Field) (map[string]any, error) {
	properties := make(map[string]any, len(fields))
	var required []string
	for _, field := range fields {
		node, err := fieldSchema(field)
		if err != nil {
			return nil, err
		}
		properties[field.Name] = node
		if field.Required {
			required = append(required, field.Name)
		}
	}
	out := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		sort.Strings(required)
		out["required"] = required
	}
	return out, nil
}

func fieldSchema(field schema.Field) (map[string]any, error) {
	var node map[string]any
	switch field.Type {
	case schema.TypeString:
		node = map[string]any{"type": "string"}
	case schema.TypeNumber:
		node = map[string]any{"type": "number"}
	case schema.TypeBool:
		node = map[string]any{"type": "boolean"}
	case schema.TypeDate:
		node = map[string]any{"type": "string", "format": "date"}
	case schema.TypeTime:
		node = map[string]any{"type": "string", "format": "time"}
	case schema.TypeDateTime:
		node = map[string]any{"type": "string", "format": "date-time"}
	case schema.TypeArray:
		node = map[string]any{"type": "array", "items": map[string]any{}}
	case schema.TypeObject:
		var err error
		node, err = objectSchema(field.Fields)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("jsonschema: field %q has unsupported type %q", field.Name, field.Type)
	}
	if field.Label != "" {
		node["title"] = field.Label
	}
	if field.Default != nil {
		node["default"] = field.Default
	}
	if field.VisibleWhen != "" {
		node["x-visible-when"] = field.VisibleWhen
	}
	return node, nil
}
