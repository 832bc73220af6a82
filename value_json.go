package formstate

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes the Value as plain JSON. Temporal kinds marshal to
// their canonical strings, so the wire form carries no type tag; callers that
// persist Values are expected to re-type temporals on load via
// DeserializeTemporal, per the persistence contract.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.flag)
	case KindObject:
		return json.Marshal(v.obj)
	case KindArray:
		return json.Marshal(v.arr)
	default:
		text, ok := formatTemporal(v)
		if !ok {
			return nil, fmt.Errorf("formstate: cannot marshal value of kind %s", v.kind)
		}
		return json.Marshal(text)
	}
}

// UnmarshalJSON decodes plain JSON into the Value. Numbers are decoded via
// json.Number so integral values survive the round trip without float
// mangling. Strings stay strings; temporal re-typing is a separate, explicit
// step.
func (v *Value) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var raw any
	if err := decoder.Decode(&raw); err != nil {
		return fmt.Errorf("formstate: decode value: %w", err)
	}
	decoded, err := FromInterface(raw)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}
