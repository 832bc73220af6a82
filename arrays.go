package formstate

import (
	"fmt"
	"strconv"
)

// ReconstructArrays detects digit segments in flat keys and rebuilds dense
// ordered arrays from them. Keys sharing a prefix up to and including a digit
// segment collapse into a single key holding an array sized 0..max; indices
// absent from the input become empty objects unless strict mode is enabled.
// Reconstruction recurses for arrays-of-arrays, passes keys without digit
// segments through unchanged, and is idempotent: once the digit segments are
// consumed a second run has nothing left to group.
func ReconstructArrays(flat FlatMap, opts ...CodecOption) (FlatMap, error) {
	return reconstructWith(flat, applyCodecOptions(opts))
}

func reconstructWith(flat FlatMap, cfg codecConfig) (FlatMap, error) {
	nested, err := unflattenWith(flat, cfg)
	if err != nil {
		return nil, err
	}
	converted := make(map[string]Value, len(nested))
	for name, member := range nested {
		rebuilt, err := rebuildArrays(member, cfg)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", name, err)
		}
		converted[name] = rebuilt
	}
	out := make(FlatMap, len(converted))
	flattenInto(out, "", converted, cfg.separator)
	return out, nil
}

// rebuildArrays converts objects whose member names are all digit strings
// into dense arrays, depth first. Objects with any non-digit member name stay
// objects: a group is only an array when every sibling agrees.
func rebuildArrays(v Value, cfg codecConfig) (Value, error) {
	switch v.kind {
	case KindObject:
		if len(v.obj) > 0 && allDigitKeys(v.obj) {
			return digitMembersToArray(v.obj, cfg)
		}
		members := make(map[string]Value, len(v.obj))
		for name, member := range v.obj {
			rebuilt, err := rebuildArrays(member, cfg)
			if err != nil {
				return Value{}, err
			}
			members[name] = rebuilt
		}
		return Value{kind: KindObject, obj: members}, nil
	case KindArray:
		items := make([]Value, len(v.arr))
		for i, item := range v.arr {
			rebuilt, err := rebuildArrays(item, cfg)
			if err != nil {
				return Value{}, err
			}
			items[i] = rebuilt
		}
		return Value{kind: KindArray, arr: items}, nil
	default:
		return v, nil
	}
}

func digitMembersToArray(members map[string]Value, cfg codecConfig) (Value, error) {
	byIndex := make(map[int]Value, len(members))
	max := -1
	for name, member := range members {
		idx, err := strconv.Atoi(name)
		if err != nil {
			return Value{}, fmt.Errorf("%w: index segment %q out of range", ErrStructuralConflict, name)
		}
		if _, dup := byIndex[idx]; dup {
			return Value{}, fmt.Errorf("%w: index %d addressed twice", ErrStructuralConflict, idx)
		}
		rebuilt, err := rebuildArrays(member, cfg)
		if err != nil {
			return Value{}, err
		}
		byIndex[idx] = rebuilt
		if idx > max {
			max = idx
		}
	}
	if cfg.strict && len(byIndex) != max+1 {
		return Value{}, fmt.Errorf("%w: sparse array indices (%d of %d present)", ErrStructuralConflict, len(byIndex), max+1)
	}
	items := make([]Value, max+1)
	for i := range items {
		items[i] = emptyObject()
	}
	for idx, item := range byIndex {
		items[idx] = item
	}
	return Value{kind: KindArray, arr: items}, nil
}

func allDigitKeys(members map[string]Value) bool {
	for name := range members {
		if !isDigits(name) {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func emptyObject() Value {
	return Value{kind: KindObject, obj: map[string]Value{}}
}
