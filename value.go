package formstate

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind identifies which member of the Value union is populated.
type Kind uint8

const (
	// KindNull is the zero Value.
	KindNull Kind = iota
	// KindString holds a string scalar.
	KindString
	// KindNumber holds a float64 scalar.
	KindNumber
	// KindBool holds a boolean scalar.
	KindBool
	// KindObject holds a string-keyed mapping of Values.
	KindObject
	// KindArray holds an ordered sequence of Values.
	KindArray
	// KindDate holds a calendar date without a time component.
	KindDate
	// KindTime holds a wall-clock time without a date component.
	KindTime
	// KindDateTime holds a combined date and time.
	KindDateTime
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindDate:
		return "date"
	case KindTime:
		return "time"
	case KindDateTime:
		return "datetime"
	default:
		return "unknown"
	}
}

// Value is a tagged union over every shape a form field can hold: JSON-style
// scalars, objects, arrays, and the three temporal kinds. The zero Value is
// null. Constructors copy container inputs and accessors return copies, so a
// Value never shares mutable state with its callers.
type Value struct {
	kind Kind
	str  string
	num  float64
	flag bool
	obj  map[string]Value
	arr  []Value
	when time.Time
}

// Null returns the null Value.
func Null() Value {
	return Value{}
}

// String wraps a string scalar.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number wraps a numeric scalar.
func Number(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

// Int wraps an integer scalar as a Number.
func Int(n int) Value {
	return Value{kind: KindNumber, num: float64(n)}
}

// Bool wraps a boolean scalar.
func Bool(b bool) Value {
	return Value{kind: KindBool, flag: b}
}

// Object wraps a mapping. The members map is copied so later mutation of the
// argument does not leak into the Value. A nil map yields an empty object.
func Object(members map[string]Value) Value {
	out := make(map[string]Value, len(members))
	for name, member := range members {
		out[name] = member.Clone()
	}
	return Value{kind: KindObject, obj: out}
}

// Array wraps an ordered sequence. Items are copied.
func Array(items ...Value) Value {
	out := make([]Value, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return Value{kind: KindArray, arr: out}
}

// Date builds a calendar-date Value. Only the year, month, and day are kept.
func Date(year int, month time.Month, day int) Value {
	return Value{kind: KindDate, when: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its wall-clock date.
func DateOf(t time.Time) Value {
	return Date(t.Year(), t.Month(), t.Day())
}

// TimeOfDay builds a wall-clock time Value with second precision.
func TimeOfDay(hour, minute, second int) Value {
	return Value{kind: KindTime, when: time.Date(0, time.January, 1, hour, minute, second, 0, time.UTC)}
}

// DateTime builds a combined date-and-time Value from the wall-clock fields
// of t, truncated to second precision. The location is discarded: temporal
// values are zone-agnostic, matching their canonical string forms.
func DateTime(t time.Time) Value {
	return Value{
		kind: KindDateTime,
		when: time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC),
	}
}

// Kind reports which union member is populated.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether v is the null Value.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// IsTemporal reports whether v holds one of the three temporal kinds.
func (v Value) IsTemporal() bool {
	return v.kind == KindDate || v.kind == KindTime || v.kind == KindDateTime
}

// StringValue returns the string member when populated.
func (v Value) StringValue() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// NumberValue returns the numeric member when populated.
func (v Value) NumberValue() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// IntValue returns the numeric member as an int when it is a whole number.
func (v Value) IntValue() (int, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	n := int(v.num)
	if float64(n) != v.num {
		return 0, false
	}
	return n, true
}

// BoolValue returns the boolean member when populated.
func (v Value) BoolValue() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.flag, true
}

// ObjectValue returns a deep copy of the object members when populated.
func (v Value) ObjectValue() (map[string]Value, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	out := make(map[string]Value, len(v.obj))
	for name, member := range v.obj {
		out[name] = member.Clone()
	}
	return out, true
}

// Member returns the named object member without copying the whole object.
func (v Value) Member(name string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	member, ok := v.obj[name]
	if !ok {
		return Value{}, false
	}
	return member.Clone(), true
}

// ArrayValue returns a deep copy of the array items when populated.
func (v Value) ArrayValue() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	out := make([]Value, len(v.arr))
	for i, item := range v.arr {
		out[i] = item.Clone()
	}
	return out, true
}

// Item returns the array element at index i.
func (v Value) Item(i int) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.arr) {
		return Value{}, false
	}
	return v.arr[i].Clone(), true
}

// Len reports the member count for objects and arrays, zero otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindObject:
		return len(v.obj)
	case KindArray:
		return len(v.arr)
	default:
		return 0
	}
}

// TimeValue returns the temporal member when populated.
func (v Value) TimeValue() (time.Time, bool) {
	if !v.IsTemporal() {
		return time.Time{}, false
	}
	return v.when, true
}

// Clone returns a deep copy with no shared mutable state.
func (v Value) Clone() Value {
	switch v.kind {
	case KindObject:
		obj := make(map[string]Value, len(v.obj))
		for name, member := range v.obj {
			obj[name] = member.Clone()
		}
		return Value{kind: KindObject, obj: obj}
	case KindArray:
		arr := make([]Value, len(v.arr))
		for i, item := range v.arr {
			arr[i] = item.Clone()
		}
		return Value{kind: KindArray, arr: arr}
	default:
		return v
	}
}

// Equal reports structural equality between v and other.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == other.str
	case KindNumber:
		return v.num == other.num
	case KindBool:
		return v.flag == other.flag
	case KindObject:
		if len(v.obj) != len(other.obj) {
			return false
		}
		for name, member := range v.obj {
			peer, ok := other.obj[name]
			if !ok || !member.Equal(peer) {
				return false
			}
		}
		return true
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i, item := range v.arr {
			if !item.Equal(other.arr[i]) {
				return false
			}
		}
		return true
	default:
		return v.when.Equal(other.when)
	}
}

// Interface converts v into plain Go values: nil, string, float64, bool,
// map[string]any, []any, or time.Time for the temporal kinds.
func (v Value) Interface() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.flag
	case KindObject:
		out := make(map[string]any, len(v.obj))
		for name, member := range v.obj {
			out[name] = member.Interface()
		}
		return out
	case KindArray:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.Interface()
		}
		return out
	default:
		return v.when
	}
}

// FromInterface converts plain Go data into a Value. Maps and slices are
// converted recursively; time.Time becomes a datetime Value. Unsupported
// types are rejected rather than coerced.
func FromInterface(input any) (Value, error) {
	switch typed := input.(type) {
	case nil:
		return Null(), nil
	case Value:
		return typed.Clone(), nil
	case string:
		return String(typed), nil
	case bool:
		return Bool(typed), nil
	case float64:
		return Number(typed), nil
	case float32:
		return Number(float64(typed)), nil
	case int:
		return Number(float64(typed)), nil
	case int8:
		return Number(float64(typed)), nil
	case int16:
		return Number(float64(typed)), nil
	case int32:
		return Number(float64(typed)), nil
	case int64:
		return Number(float64(typed)), nil
	case uint:
		return Number(float64(typed)), nil
	case uint8:
		return Number(float64(typed)), nil
	case uint16:
		return Number(float64(typed)), nil
	case uint32:
		return Number(float64(typed)), nil
	case uint64:
		return Number(float64(typed)), nil
	case json.Number:
		parsed, err := typed.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("formstate: invalid number %q: %w", typed.String(), err)
		}
		return Number(parsed), nil
	case time.Time:
		return DateTime(typed), nil
	case map[string]Value:
		return Object(typed), nil
	case map[string]any:
		members := make(map[string]Value, len(typed))
		for name, raw := range typed {
			member, err := FromInterface(raw)
			if err != nil {
				return Value{}, err
			}
			members[name] = member
		}
		return Value{kind: KindObject, obj: members}, nil
	case []Value:
		return Array(typed...), nil
	case []any:
		items := make([]Value, len(typed))
		for i, raw := range typed {
			item, err := FromInterface(raw)
			if err != nil {
				return Value{}, err
			}
			items[i] = item
		}
		return Value{kind: KindArray, arr: items}, nil
	default:
		return Value{}, fmt.Errorf("formstate: unsupported value type %T", input)
	}
}
