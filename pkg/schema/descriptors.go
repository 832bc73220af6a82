package schema

import (
	formstate "github.com/goliatone/go-formstate"
)

// FieldDescriptor pairs a dotted field path with its declared type.
type FieldDescriptor struct {
	Path string
	Type FieldType
}

// Descriptors flattens the schema into dotted-path descriptors, leaves only,
// in declaration order.
func (s Schema) Descriptors() []FieldDescriptor {
	var out []FieldDescriptor
	collectDescriptors(s.Fields, "", &out)
	return out
}

func collectDescriptors(fields []Field, prefix string, out *[]FieldDescriptor) {
	for _, field := range fields {
		path := joinPath(prefix, field.Name)
		if field.Type == TypeObject {
			collectDescriptors(field.Fields, path, out)
			continue
		}
		*out = append(*out, FieldDescriptor{Path: path, Type: field.Type})
	}
}

// TemporalKinds indexes the schema's date, time, and datetime leaves by
// dotted path. The persistence boundary uses it to pick serialization per
// field.
func (s Schema) TemporalKinds() map[string]formstate.TemporalKind {
	kinds := map[string]formstate.TemporalKind{}
	for _, descriptor := range s.Descriptors() {
		switch descriptor.Type {
		case TypeDate:
			kinds[descriptor.Path] = formstate.TemporalDate
		case TypeTime:
			kinds[descriptor.Path] = formstate.TemporalTime
		case TypeDateTime:
			kinds[descriptor.Path] = formstate.TemporalDateTime
		}
	}
	return kinds
}

// Find returns the field at the dotted path, descending through groups.
func (s Schema) Find(path string) (Field, bool) {
	segments := splitPath(path)
	fields := s.Fields
	for i, segment := range segments {
		found := false
		for _, field := range fields {
			if field.Name != segment {
				continue
			}
			if i == len(segments)-1 {
				return field, true
			}
			fields = field.Fields
			found = true
			break
		}
		if !found {
			return Field{}, false
		}
	}
	return Field{}, false
}

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	var segments []string
	start := 0
	for i := 0; i < len(path); i++ {
		if string(path[i]) == formstate.DefaultSeparator {
			segments = append(segments, path[start:i])
			start = i + 1
		}
	}
	return append(segments, path[start:])
}
