package jsonschema

import (
	"testing"

	"github.com/goliatone/go-formstate/pkg/schema"
)

func testSchema() schema.Schema {
	return schema.Schema{
		Name:    "survey",
		Version: "2",
		Fields: []schema.Field{
			{Name: "crop", Label: "Crop", Type: schema.TypeString, Required: true},
			{Name: "irrigated", Type: schema.TypeBool, Default: false},
			{Name: "water_source", Type: schema.TypeString, VisibleWhen: "irrigated == true"},
			{Name: "visit_date", Type: schema.TypeDate},
			{Name: "soil", Type: schema.TypeObject, Fields: []schema.Field{
				{Name: "ph", Type: schema.TypeNumber, Required: true},
			}},
		},
	}
}

func TestGenerateDocumentShape(t *testing.T) {
	doc, err := Generate(testSchema(), WithID("https://example.com/survey.json"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if doc["$schema"] != defaultDialect {
		t.Fatalf("$schema = %v", doc["$schema"])
	}
	if doc["$id"] != "https://example.com/survey.json" {
		t.Fatalf("$id = %v", doc["$id"])
	}
	if doc["title"] != "survey" || doc["x-form-version"] != "2" {
		t.Fatalf("title/version: %v %v", doc["title"], doc["x-form-version"])
	}
	if doc["type"] != "object" {
		t.Fatalf("type = %v", doc["type"])
	}

	required, _ := doc["required"].([]string)
	if len(required) != 1 || required[0] != "crop" {
		t.Fatalf("required = %v", doc["required"])
	}
}

func TestGenerateFieldMappings(t *testing.T) {
	doc, err := Generate(testSchema())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	properties := doc["properties"].(map[string]any)

	crop := properties["crop"].(map[string]any)
	if crop["type"] != "string" || crop["title"] != "Crop" {
		t.Fatalf("crop = %v", crop)
	}

	irrigated := properties["irrigated"].(map[string]any)
	if irrigated["default"] != false {
		t.Fatalf("irrigated default = %v", irrigated["default"])
	}

	water := properties["water_source"].(map[string]any)
	if water["x-visible-when"] != "irrigated == true" {
		t.Fatalf("visibility annotation lost: %v", water)
	}

	visit := properties["visit_date"].(map[string]any)
	if visit["type"] != "string" || visit["format"] != "date" {
		t.Fatalf("visit_date = %v", visit)
	}

	soil := properties["soil"].(map[string]any)
	if soil["type"] != "object" {
		t.Fatalf("soil = %v", soil)
	}
	soilProps := soil["properties"].(map[string]any)
	ph := soilProps["ph"].(map[string]any)
	if ph["type"] != "number" {
		t.Fatalf("ph = %v", ph)
	}
	soilRequired, _ := soil["required"].([]string)
	if len(soilRequired) != 1 || soilRequired[0] != "ph" {
		t.Fatalf("soil required = %v", soil["required"])
	}
}

func TestGenerateRejectsInvalidSchema(t *testing.T) {
	if _, err := Generate(schema.Schema{}); err == nil {
		t.Fatalf("expected validation error")
	}
}
