package formstate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Lot names one partition of form data. Lots form an ordered sequence and
// Index always equals the positional offset: no gaps, no duplicates.
type Lot struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
}

// LotsToFields flattens each lot object and rewrites its keys to the lot
// boundary form {prefix}_{i}.{key}. An empty lot emits the bare {prefix}_{i}
// key so that empty lots survive the round trip through FieldsToLots.
func LotsToFields(lots []map[string]Value, opts ...CodecOption) FlatMap {
	cfg := applyCodecOptions(opts)
	out := FlatMap{}
	for i, lot := range lots {
		flat := Flatten(lot, opts...)
		if len(flat) == 0 {
			out[lotFieldKey(cfg, i)] = emptyObject()
			continue
		}
		for key, value := range flat {
			out[lotFieldKey(cfg, i)+cfg.separator+key] = value
		}
	}
	return out
}

// FieldsToLots scans state for keys matching {prefix}_{digits}, groups them
// by the numeric lot id, reconstructs any arrays, and unflattens each group
// into a lot object. The result is dense: it is sized max observed index + 1
// and missing indices become empty objects, matching the array policy.
// Strict mode rejects the gaps instead. Keys that do not carry the lot
// boundary prefix are ignored.
func FieldsToLots(state FlatMap, opts ...CodecOption) ([]map[string]Value, error) {
	cfg := applyCodecOptions(opts)
	groups := map[int]FlatMap{}
	max := -1

	for key, value := range state {
		idx, rest, ok := splitLotKey(cfg, key)
		if !ok {
			continue
		}
		group, exists := groups[idx]
		if !exists {
			group = FlatMap{}
			groups[idx] = group
		}
		group[rest] = value
		if idx > max {
			max = idx
		}
	}

	if cfg.strict && len(groups) != max+1 {
		return nil, fmt.Errorf("%w: sparse lot indices (%d of %d present)", ErrStructuralConflict, len(groups), max+1)
	}

	lots := make([]map[string]Value, max+1)
	for i := range lots {
		lots[i] = map[string]Value{}
	}

	indices := make([]int, 0, len(groups))
	for idx := range groups {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	for _, idx := range indices {
		lot, err := lotFromGroup(groups[idx], cfg)
		if err != nil {
			return nil, fmt.Errorf("lot %d: %w", idx, err)
		}
		lots[idx] = lot
	}
	return lots, nil
}

// lotFromGroup turns one lot's rest-keyed entries into a lot object. The
// empty rest key addresses the lot as a whole and must be its only entry.
func lotFromGroup(group FlatMap, cfg codecConfig) (map[string]Value, error) {
	if whole, ok := group[""]; ok {
		if len(group) > 1 {
			return nil, fmt.Errorf("%w: lot addressed both as a value and as a container", ErrStructuralConflict)
		}
		members, isObject := whole.ObjectValue()
		if !isObject {
			return nil, fmt.Errorf("%w: lot value must be an object, have %s", ErrStructuralConflict, whole.Kind())
		}
		return members, nil
	}
	rebuilt, err := reconstructWith(group, cfg)
	if err != nil {
		return nil, err
	}
	return unflattenWith(rebuilt, cfg)
}

func lotFieldKey(cfg codecConfig, index int) string {
	return cfg.lotPrefix + "_" + strconv.Itoa(index)
}

// splitLotKey matches {prefix}_{digits} or {prefix}_{digits}{sep}{rest},
// returning the lot index and the remainder of the key.
func splitLotKey(cfg codecConfig, key string) (int, string, bool) {
	head := key
	rest := ""
	if cut := strings.Index(key, cfg.separator); cut >= 0 {
		head = key[:cut]
		rest = key[cut+len(cfg.separator):]
	}
	marker := cfg.lotPrefix + "_"
	if !strings.HasPrefix(head, marker) {
		return 0, "", false
	}
	digits := head[len(marker):]
	if !isDigits(digits) {
		return 0, "", false
	}
	idx, err := strconv.Atoi(digits)
	if err != nil {
		return 0, "", false
	}
	return idx, rest, true
}
