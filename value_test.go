package formstate

import (
	"encoding/json"
	"testing"
	"time"
)

func TestValueConstructorsAndAccessors(t *testing.T) {
	if !Null().IsNull() {
		t.Fatalf("null")
	}
	if s, ok := String("x").StringValue(); !ok || s != "x" {
		t.Fatalf("string")
	}
	if n, ok := Number(1.5).NumberValue(); !ok || n != 1.5 {
		t.Fatalf("number")
	}
	if n, ok := Int(7).IntValue(); !ok || n != 7 {
		t.Fatalf("int")
	}
	if b, ok := Bool(true).BoolValue(); !ok || !b {
		t.Fatalf("bool")
	}
	if !Date(2026, time.May, 1).IsTemporal() {
		t.Fatalf("date should be temporal")
	}
	if Int(7).IsTemporal() {
		t.Fatalf("int is not temporal")
	}
}

func TestValueObjectCopiesOnBothEnds(t *testing.T) {
	members := map[string]Value{"a": Int(1)}
	v := Object(members)

	members["a"] = Int(99)
	got, _ := v.Member("a")
	if n, _ := got.IntValue(); n != 1 {
		t.Fatalf("constructor must copy, got %d", n)
	}

	out, _ := v.ObjectValue()
	out["a"] = Int(50)
	got, _ = v.Member("a")
	if n, _ := got.IntValue(); n != 1 {
		t.Fatalf("accessor must copy, got %d", n)
	}
}

func TestValueCloneIsDeep(t *testing.T) {
	v := Object(map[string]Value{
		"inner": Object(map[string]Value{"n": Int(1)}),
		"list":  Array(Int(1), Int(2)),
	})
	clone := v.Clone()

	if !clone.Equal(v) {
		t.Fatalf("clone should compare equal")
	}
}

func TestValueEqual(t *testing.T) {
	cases := []struct {
		name string
		a, b Value
		want bool
	}{
		{"equal strings", String("x"), String("x"), true},
		{"different strings", String("x"), String("y"), false},
		{"kind mismatch", String("1"), Int(1), false},
		{"equal objects", Object(map[string]Value{"a": Int(1)}), Object(map[string]Value{"a": Int(1)}), true},
		{"equal arrays", Array(Int(1)), Array(Int(1)), true},
		{"array length", Array(Int(1)), Array(Int(1), Int(2)), false},
		{"equal dates", Date(2026, 1, 2), Date(2026, 1, 2), true},
		{"different dates", Date(2026, 1, 2), Date(2026, 1, 3), false},
		{"nulls", Null(), Null(), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Equal(tc.b); got != tc.want {
				t.Fatalf("Equal = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFromInterfaceCoversPlainGo(t *testing.T) {
	input := map[string]any{
		"name":   "Ada",
		"age":    36,
		"score":  7.5,
		"active": true,
		"tags":   []any{"a", "b"},
		"nested": map[string]any{"n": int64(2)},
		"blank":  nil,
		"big":    json.Number("9007199254740993"),
	}

	v, err := FromInterface(input)
	if err != nil {
		t.Fatalf("from interface: %v", err)
	}
	name, _ := v.Member("name")
	if s, _ := name.StringValue(); s != "Ada" {
		t.Fatalf("name = %q", s)
	}
	age, _ := v.Member("age")
	if n, _ := age.IntValue(); n != 36 {
		t.Fatalf("age = %d", n)
	}
	tags, _ := v.Member("tags")
	if tags.Len() != 2 {
		t.Fatalf("tags len = %d", tags.Len())
	}
	blank, _ := v.Member("blank")
	if !blank.IsNull() {
		t.Fatalf("nil should map to null")
	}
}

func TestFromInterfaceRejectsUnsupportedTypes(t *testing.T) {
	if _, err := FromInterface(struct{ X int }{1}); err == nil {
		t.Fatalf("expected error for struct input")
	}
	if _, err := FromInterface(make(chan int)); err == nil {
		t.Fatalf("expected error for channel input")
	}
}

func TestValueInterfaceRoundTrip(t *testing.T) {
	v := Object(map[string]Value{
		"name": String("Ada"),
		"list": Array(Int(1), Bool(false)),
	})

	back, err := FromInterface(v.Interface())
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if !back.Equal(v) {
		t.Fatalf("round trip mismatch: %v vs %v", v, back)
	}
}

func TestValueJSONMarshalTemporals(t *testing.T) {
	v := Object(map[string]Value{
		"visit": Date(2026, time.August, 27),
		"at":    TimeOfDay(9, 5, 0),
	})

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]string
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["visit"] != "2026-08-27" || decoded["at"] != "09:05:00" {
		t.Fatalf("unexpected canonical forms: %v", decoded)
	}
}

func TestValueJSONUnmarshalPreservesIntegers(t *testing.T) {
	var v Value
	if err := json.Unmarshal([]byte(`{"n": 9007199254740993}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	n, _ := v.Member("n")
	if n.Kind() != KindNumber {
		t.Fatalf("n kind = %s", n.Kind())
	}
}
