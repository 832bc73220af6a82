package formstate

import (
	"errors"
	"testing"
)

func TestFlattenNestedObjects(t *testing.T) {
	nested := map[string]Value{
		"applicant": Object(map[string]Value{
			"name": String("Ada"),
			"address": Object(map[string]Value{
				"city": String("Turin"),
			}),
		}),
		"active": Bool(true),
	}

	flat := Flatten(nested)

	if len(flat) != 3 {
		t.Fatalf("expected 3 flat keys, got %d: %v", len(flat), flat)
	}
	if got, _ := flat["applicant.name"].StringValue(); got != "Ada" {
		t.Fatalf("applicant.name = %q", got)
	}
	if got, _ := flat["applicant.address.city"].StringValue(); got != "Turin" {
		t.Fatalf("applicant.address.city = %q", got)
	}
	if got, _ := flat["active"].BoolValue(); !got {
		t.Fatalf("active should be true")
	}
}

func TestFlattenTreatsArraysAndEmptyObjectsAsLeaves(t *testing.T) {
	nested := map[string]Value{
		"tags":  Array(String("a"), String("b")),
		"empty": Object(map[string]Value{}),
	}

	flat := Flatten(nested)

	if len(flat) != 2 {
		t.Fatalf("expected 2 flat keys, got %v", flat)
	}
	if flat["tags"].Kind() != KindArray {
		t.Fatalf("tags should stay an array leaf, got %s", flat["tags"].Kind())
	}
	if flat["empty"].Kind() != KindObject || flat["empty"].Len() != 0 {
		t.Fatalf("empty should stay an empty object leaf")
	}
}

func TestUnflattenRoundTrip(t *testing.T) {
	nested := map[string]Value{
		"crop": String("wheat"),
		"soil": Object(map[string]Value{
			"ph":      Number(6.4),
			"organic": Bool(false),
		}),
		"samples": Array(Number(1), Number(2)),
	}

	back, err := Unflatten(Flatten(nested))
	if err != nil {
		t.Fatalf("unflatten: %v", err)
	}
	if !Object(back).Equal(Object(nested)) {
		t.Fatalf("round trip mismatch:\nwant %v\ngot  %v", nested, back)
	}
}

func TestUnflattenStructuralConflict(t *testing.T) {
	flat := FlatMap{
		"a":   String("leaf"),
		"a.b": String("child"),
	}

	_, err := Unflatten(flat)
	if !errors.Is(err, ErrStructuralConflict) {
		t.Fatalf("expected ErrStructuralConflict, got %v", err)
	}
}

func TestFlattenCustomSeparator(t *testing.T) {
	nested := map[string]Value{
		"a": Object(map[string]Value{"b": Int(1)}),
	}

	flat := Flatten(nested, WithSeparator("/"))
	if _, ok := flat["a/b"]; !ok {
		t.Fatalf("expected key a/b, got %v", flat)
	}

	back, err := Unflatten(flat, WithSeparator("/"))
	if err != nil {
		t.Fatalf("unflatten: %v", err)
	}
	if !Object(back).Equal(Object(nested)) {
		t.Fatalf("round trip mismatch with custom separator")
	}
}

func TestFlattenCopiesLeafValues(t *testing.T) {
	members := map[string]Value{"name": String("Ada")}
	nested := map[string]Value{"applicant": Object(members)}

	flat := Flatten(nested)
	members["name"] = String("changed")

	if got, _ := flat["applicant.name"].StringValue(); got != "Ada" {
		t.Fatalf("flat map should hold independent copies, got %q", got)
	}
}
