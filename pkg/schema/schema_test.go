package schema

import (
	"errors"
	"testing"

	formstate "github.com/goliatone/go-formstate"
)

func validSchema() Schema {
	return Schema{
		Name:    "survey",
		Version: "1",
		Fields: []Field{
			{Name: "crop", Type: TypeString, Required: true},
			{Name: "irrigated", Type: TypeBool, Default: false},
			{Name: "water_source", Type: TypeString, VisibleWhen: "irrigated == true"},
			{Name: "visit_date", Type: TypeDate},
			{Name: "soil", Type: TypeObject, Fields: []Field{
				{Name: "ph", Type: TypeNumber},
				{Name: "sampled_at", Type: TypeDateTime},
			}},
		},
	}
}

func TestSchemaValidate(t *testing.T) {
	if err := validSchema().Validate(); err != nil {
		t.Fatalf("valid schema rejected: %v", err)
	}
}

func TestSchemaValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Schema)
	}{
		{"missing name", func(s *Schema) { s.Name = "" }},
		{"no fields", func(s *Schema) { s.Fields = nil }},
		{"unnamed field", func(s *Schema) { s.Fields[0].Name = "" }},
		{"separator in name", func(s *Schema) { s.Fields[0].Name = "a.b" }},
		{"duplicate sibling", func(s *Schema) { s.Fields[1].Name = "crop" }},
		{"unknown type", func(s *Schema) { s.Fields[0].Type = "uuid" }},
		{"rule on group", func(s *Schema) { s.Fields[4].VisibleWhen = "true" }},
		{"empty group", func(s *Schema) { s.Fields[4].Fields = nil }},
		{"nested under leaf", func(s *Schema) {
			s.Fields[0].Fields = []Field{{Name: "x", Type: TypeString}}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := validSchema()
			tc.mutate(&s)
			if err := s.Validate(); !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestSchemaDescriptors(t *testing.T) {
	descriptors := validSchema().Descriptors()

	paths := make([]string, len(descriptors))
	for i, d := range descriptors {
		paths[i] = d.Path
	}
	want := []string{"crop", "irrigated", "water_source", "visit_date", "soil.ph", "soil.sampled_at"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v", paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("descriptor %d = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestSchemaTemporalKinds(t *testing.T) {
	kinds := validSchema().TemporalKinds()

	if kinds["visit_date"] != formstate.TemporalDate {
		t.Fatalf("visit_date kind = %v", kinds["visit_date"])
	}
	if kinds["soil.sampled_at"] != formstate.TemporalDateTime {
		t.Fatalf("soil.sampled_at kind = %v", kinds["soil.sampled_at"])
	}
	if _, ok := kinds["crop"]; ok {
		t.Fatalf("non-temporal field indexed")
	}
}

func TestSchemaFind(t *testing.T) {
	s := validSchema()

	field, ok := s.Find("soil.ph")
	if !ok || field.Type != TypeNumber {
		t.Fatalf("find soil.ph = %v %v", field, ok)
	}
	if _, ok := s.Find("soil.missing"); ok {
		t.Fatalf("found nonexistent path")
	}
	if _, ok := s.Find(""); ok {
		t.Fatalf("found empty path")
	}
}

func TestParseYAML(t *testing.T) {
	doc := []byte(`
name: survey
fields:
  - name: crop
    type: string
    required: true
  - name: soil
    type: object
    fields:
      - name: ph
        type: number
`)
	s, err := ParseYAML(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s.Name != "survey" || len(s.Fields) != 2 {
		t.Fatalf("unexpected schema: %+v", s)
	}
	if !s.Fields[0].Required {
		t.Fatalf("required flag lost")
	}
}

func TestParseYAMLRejectsUnknownKeys(t *testing.T) {
	doc := []byte(`
name: survey
bogus: true
fields:
  - name: crop
    type: string
`)
	if _, err := ParseYAML(doc); err == nil {
		t.Fatalf("expected unknown-key rejection")
	}
}

func TestParseJSON(t *testing.T) {
	doc := []byte(`{"name":"survey","fields":[{"name":"crop","type":"string"}]}`)
	s, err := ParseJSON(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s.Fields[0].Name != "crop" {
		t.Fatalf("unexpected schema: %+v", s)
	}
}

func TestReadUnsupportedFormat(t *testing.T) {
	if _, err := ParseJSON([]byte(`{`)); err == nil {
		t.Fatalf("expected decode error")
	}
}
