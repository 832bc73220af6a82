package formstate

import (
	"fmt"
	"time"
)

// TemporalKind names one of the three temporal value kinds a schema can
// declare for a field.
type TemporalKind uint8

const (
	// TemporalUnknown guards against missing declarations.
	TemporalUnknown TemporalKind = iota
	// TemporalDate is a calendar date, canonical form YYYY-MM-DD.
	TemporalDate
	// TemporalTime is a wall-clock time, canonical form HH:MM:SS.
	TemporalTime
	// TemporalDateTime is a combined date and time, canonical form
	// YYYY-MM-DDTHH:MM:SS.
	TemporalDateTime
)

func (k TemporalKind) String() string {
	switch k {
	case TemporalDate:
		return "date"
	case TemporalTime:
		return "time"
	case TemporalDateTime:
		return "datetime"
	default:
		return "unknown"
	}
}

// ParseTemporalKind converts a string representation into the corresponding
// TemporalKind. Returns TemporalUnknown for unrecognised values.
func ParseTemporalKind(value string) TemporalKind {
	switch value {
	case "date", "DATE":
		return TemporalDate
	case "time", "TIME":
		return TemporalTime
	case "datetime", "DATETIME", "date-time":
		return TemporalDateTime
	default:
		return TemporalUnknown
	}
}

const (
	layoutDate      = "2006-01-02"
	layoutTime      = "15:04:05"
	layoutTimeShort = "15:04"
	layoutDateTime  = "2006-01-02T15:04:05"
)

// SerializeTemporal converts a temporal Value into its canonical string form
// at the storage boundary. Null and non-temporal values pass through
// unchanged.
func SerializeTemporal(v Value) Value {
	if text, ok := formatTemporal(v); ok {
		return String(text)
	}
	return v
}

func formatTemporal(v Value) (string, bool) {
	switch v.kind {
	case KindDate:
		return v.when.Format(layoutDate), true
	case KindTime:
		return v.when.Format(layoutTime), true
	case KindDateTime:
		return v.when.Format(layoutDateTime), true
	default:
		return "", false
	}
}

// DeserializeTemporal is the exact inverse of SerializeTemporal for the
// declared kind. Time values additionally accept HH:MM with seconds
// defaulting to zero. Null passes through, as does a temporal Value already
// of the declared kind. Anything else that does not parse fails with
// ErrMalformedTemporal; values are never coerced or truncated.
func DeserializeTemporal(v Value, kind TemporalKind) (Value, error) {
	if v.IsNull() {
		return v, nil
	}
	if v.IsTemporal() {
		if temporalKindOf(v) == kind {
			return v, nil
		}
		return Value{}, fmt.Errorf("%w: have %s, want %s", ErrMalformedTemporal, v.kind, kind)
	}
	text, ok := v.StringValue()
	if !ok {
		return Value{}, fmt.Errorf("%w: %s value cannot hold a %s", ErrMalformedTemporal, v.kind, kind)
	}

	switch kind {
	case TemporalDate:
		parsed, err := time.Parse(layoutDate, text)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q is not a valid date", ErrMalformedTemporal, text)
		}
		return Date(parsed.Year(), parsed.Month(), parsed.Day()), nil
	case TemporalTime:
		parsed, err := time.Parse(layoutTime, text)
		if err != nil {
			parsed, err = time.Parse(layoutTimeShort, text)
		}
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q is not a valid time", ErrMalformedTemporal, text)
		}
		return TimeOfDay(parsed.Hour(), parsed.Minute(), parsed.Second()), nil
	case TemporalDateTime:
		parsed, err := time.Parse(layoutDateTime, text)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q is not a valid datetime", ErrMalformedTemporal, text)
		}
		return DateTime(parsed), nil
	default:
		return Value{}, fmt.Errorf("%w: unknown temporal kind", ErrMalformedTemporal)
	}
}

func temporalKindOf(v Value) TemporalKind {
	switch v.kind {
	case KindDate:
		return TemporalDate
	case KindTime:
		return TemporalTime
	case KindDateTime:
		return TemporalDateTime
	default:
		return TemporalUnknown
	}
}

// SerializeTemporals returns a copy of flat with every temporal value
// replaced by its canonical string form.
func SerializeTemporals(flat FlatMap) FlatMap {
	out := make(FlatMap, len(flat))
	for key, value := range flat {
		out[key] = SerializeTemporal(value)
	}
	return out
}

// DeserializeTemporals returns a copy of flat with the keys named in kinds
// re-typed to their declared temporal kinds. Keys absent from flat are
// skipped; absence is not an error.
func DeserializeTemporals(flat FlatMap, kinds map[string]TemporalKind) (FlatMap, error) {
	out := flat.Clone()
	for key, kind := range kinds {
		value, ok := out[key]
		if !ok {
			continue
		}
		typed, err := DeserializeTemporal(value, kind)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		out[key] = typed
	}
	return out, nil
}
