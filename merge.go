package formstate

// MergeValues composes strong over weak, returning a new Value that keeps
// explicit entries from strong while filling missing object members from
// weak. Arrays are taken wholesale from the stronger side: element-wise
// merging of form data would invent rows the user never entered. The typical
// use is laying schema defaults beneath lot state before rendering.
func MergeValues(strong, weak Value) Value {
	if strong.IsNull() {
		return weak.Clone()
	}
	if strong.kind == KindObject && weak.kind == KindObject {
		members := make(map[string]Value, len(strong.obj)+len(weak.obj))
		for name, member := range weak.obj {
			members[name] = member.Clone()
		}
		for name, member := range strong.obj {
			if existing, ok := members[name]; ok {
				members[name] = MergeValues(member, existing)
				continue
			}
			members[name] = member.Clone()
		}
		return Value{kind: KindObject, obj: members}
	}
	return strong.Clone()
}

// MergeLayers composes values ordered from strongest to weakest.
func MergeLayers(layers ...Value) Value {
	if len(layers) == 0 {
		return Null()
	}
	merged := layers[len(layers)-1].Clone()
	for i := len(layers) - 2; i >= 0; i-- {
		merged = MergeValues(layers[i], merged)
	}
	return merged
}

// MergeObjects is MergeValues over plain member maps, convenient at the lot
// boundary where lot data is handled as map[string]Value.
func MergeObjects(strong, weak map[string]Value) map[string]Value {
	merged := MergeValues(
		Value{kind: KindObject, obj: strong},
		Value{kind: KindObject, obj: weak},
	)
	return merged.obj
}
