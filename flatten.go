package formstate

import (
	"fmt"
	"sort"
	"strings"
)

// FlatMap is a flat key-value view of nested form data: each key is a
// separator-joined segment path and each value is a leaf.
type FlatMap map[string]Value

// Clone returns a deep copy of the flat map.
func (f FlatMap) Clone() FlatMap {
	out := make(FlatMap, len(f))
	for key, value := range f {
		out[key] = value.Clone()
	}
	return out
}

// Equal reports whether f and other hold the same keys and equal values.
func (f FlatMap) Equal(other FlatMap) bool {
	if len(f) != len(other) {
		return false
	}
	for key, value := range f {
		peer, ok := other[key]
		if !ok || !value.Equal(peer) {
			return false
		}
	}
	return true
}

// Flatten converts nested form data into a FlatMap. Non-empty objects are
// walked recursively with their member names accumulated into dotted paths;
// scalars, arrays, temporals, and empty objects are stored as-is at their
// accumulated path. Arrays are leaves here: digit segments in flat keys only
// ever originate from externally flattened key sets, and ReconstructArrays is
// the single place that folds them back.
func Flatten(nested map[string]Value, opts ...CodecOption) FlatMap {
	cfg := applyCodecOptions(opts)
	out := make(FlatMap, len(nested))
	flattenInto(out, "", nested, cfg.separator)
	return out
}

func flattenInto(out FlatMap, prefix string, members map[string]Value, sep string) {
	for name, member := range members {
		path := name
		if prefix != "" {
			path = prefix + sep + name
		}
		if member.Kind() == KindObject && member.Len() > 0 {
			flattenInto(out, path, member.obj, sep)
			continue
		}
		out[path] = member.Clone()
	}
}

// Unflatten rebuilds nested form data from a FlatMap, creating intermediate
// objects as needed. It fails with ErrStructuralConflict when one key is both
// assigned a value and is a strict prefix of another key; the ambiguity is
// surfaced, never resolved by overwriting.
func Unflatten(flat FlatMap, opts ...CodecOption) (map[string]Value, error) {
	return unflattenWith(flat, applyCodecOptions(opts))
}

func unflattenWith(flat FlatMap, cfg codecConfig) (map[string]Value, error) {
	root := newPathNode()

	keys := make([]string, 0, len(flat))
	for key := range flat {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := root.insert(key, strings.Split(key, cfg.separator), flat[key], cfg.separator); err != nil {
			return nil, err
		}
	}

	out := make(map[string]Value, len(root.children))
	for name, child := range root.children {
		out[name] = child.value()
	}
	return out, nil
}

// pathNode is the mutable tree used while unflattening; Value itself is
// immutable so insertion works on nodes and materialises at the end.
type pathNode struct {
	leaf     *Value
	children map[string]*pathNode
}

func newPathNode() *pathNode {
	return &pathNode{children: map[string]*pathNode{}}
}

func (n *pathNode) insert(key string, segments []string, value Value, sep string) error {
	current := n
	for depth, segment := range segments {
		if current.leaf != nil {
			prefix := strings.Join(segments[:depth], sep)
			return fmt.Errorf("%w: key %q is assigned a value and is a prefix of %q", ErrStructuralConflict, prefix, key)
		}
		last := depth == len(segments)-1
		child, ok := current.children[segment]
		if !ok {
			child = newPathNode()
			current.children[segment] = child
		}
		if last {
			if len(child.children) > 0 {
				return fmt.Errorf("%w: key %q is assigned a value and is a prefix of another key", ErrStructuralConflict, key)
			}
			if child.leaf != nil {
				return fmt.Errorf("%w: key %q assigned twice", ErrStructuralConflict, key)
			}
			leaf := value.Clone()
			child.leaf = &leaf
			return nil
		}
		current = child
	}
	return nil
}

func (n *pathNode) value() Value {
	if n.leaf != nil {
		return *n.leaf
	}
	members := make(map[string]Value, len(n.children))
	for name, child := range n.children {
		members[name] = child.value()
	}
	return Value{kind: KindObject, obj: members}
}
