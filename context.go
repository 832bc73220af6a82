package formstate

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// Reserved session entries. Everything else in the store is a lot-scoped
	// field key.
	lotsEntryKey       = "lots"
	currentLotEntryKey = "current_lot_index"

	// lotScopeToken prefixes every lot-scoped field key: lots.{i}.{name}.
	lotScopeToken = "lots"
)

// Context is the stateful façade over a session store. It guarantees that at
// least one lot always exists, computes lot-scoped keys, and exposes lot CRUD
// operations. All effects are confined to the injected Store; no operation
// performs I/O or triggers rendering. The Context is not safe for concurrent
// use: hosts serving multiple requests per session must serialize mutations
// externally.
type Context struct {
	store Store
	cfg   contextConfig
}

// NewContext builds a Form Context over store. The store may already hold
// session state from a previous Context; reserved entries are picked up as
// found and created lazily otherwise.
func NewContext(store Store, opts ...ContextOption) *Context {
	return &Context{
		store: store,
		cfg:   applyContextOptions(opts),
	}
}

// Store returns the injected session store, for hosts that snapshot or
// restore session state around the Context.
func (c *Context) Store() Store {
	return c.store
}

// init loads the reserved entries, creating the default single-lot state on
// first use: one lot named after the configured default, current index 0.
func (c *Context) init() ([]Lot, int, error) {
	raw, ok := c.store.Get(lotsEntryKey)
	if !ok {
		lots := []Lot{{Name: c.cfg.defaultLotName, Index: 0}}
		c.writeLots(lots)
		c.writeCurrent(0)
		return lots, 0, nil
	}
	lots, err := decodeLots(raw)
	if err != nil {
		return nil, 0, err
	}
	current, err := c.readCurrent(len(lots))
	if err != nil {
		return nil, 0, err
	}
	return lots, current, nil
}

// Lots returns the ordered lot sequence, creating the default lot on first
// use.
func (c *Context) Lots() ([]Lot, error) {
	lots, _, err := c.init()
	return lots, err
}

// LotCount returns the number of lots.
func (c *Context) LotCount() (int, error) {
	lots, _, err := c.init()
	return len(lots), err
}

// CurrentLotIndex returns the index of the lot field operations address.
func (c *Context) CurrentLotIndex() (int, error) {
	_, current, err := c.init()
	return current, err
}

// CurrentLot returns the lot field operations address.
func (c *Context) CurrentLot() (Lot, error) {
	lots, current, err := c.init()
	if err != nil {
		return Lot{}, err
	}
	return lots[current], nil
}

// FieldKey returns the scoped flat key for a logical field name:
// lots.{current}.{name}. It has no side effects beyond first-use
// initialisation.
func (c *Context) FieldKey(name string) (string, error) {
	_, current, err := c.init()
	if err != nil {
		return "", err
	}
	return c.scopePrefix(current) + name, nil
}

// Field reads the scoped field value. Absence is not an error: it is
// reported through the boolean.
func (c *Context) Field(name string) (Value, bool, error) {
	key, err := c.FieldKey(name)
	if err != nil {
		return Value{}, false, err
	}
	value, ok := c.store.Get(key)
	if !ok {
		return Value{}, false, nil
	}
	return value.Clone(), true, nil
}

// FieldOr reads the scoped field value, returning fallback when absent.
func (c *Context) FieldOr(name string, fallback Value) (Value, error) {
	value, ok, err := c.Field(name)
	if err != nil {
		return Value{}, err
	}
	if !ok {
		return fallback, nil
	}
	return value, nil
}

// SetField writes the scoped field value. It performs no validation and
// triggers no rendering; those belong to the caller.
func (c *Context) SetField(name string, value Value) error {
	lots, current, err := c.init()
	if err != nil {
		return err
	}
	key := c.scopePrefix(current) + name
	previous, _ := c.store.Get(key)
	c.store.Set(key, value.Clone())
	c.cfg.logger.LogChange(ChangeEvent{
		Op:       "field.set",
		Key:      key,
		Lot:      lots[current],
		Previous: previous,
		Current:  value.Clone(),
	})
	return nil
}

// AddLot appends a new, empty lot and returns its index. Existing lots and
// their data are never touched.
func (c *Context) AddLot(name string) (int, error) {
	lots, _, err := c.init()
	if err != nil {
		return 0, err
	}
	added := Lot{Name: name, Index: len(lots)}
	lots = append(lots, added)
	c.writeLots(lots)
	c.cfg.logger.LogChange(ChangeEvent{Op: "lot.added", Lot: added})
	return added.Index, nil
}

// SwitchToLot makes index the current lot. Out-of-range indices are rejected
// with ErrInvariantViolation and leave the state unchanged.
func (c *Context) SwitchToLot(index int) error {
	lots, _, err := c.init()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(lots) {
		return fmt.Errorf("%w: lot index %d out of range [0,%d)", ErrInvariantViolation, index, len(lots))
	}
	c.writeCurrent(index)
	c.cfg.logger.LogChange(ChangeEvent{Op: "lot.switched", Lot: lots[index]})
	return nil
}

// RemoveLot deletes the lot at index together with every key scoped to it,
// renumbers every later lot down by one (rewriting its keys to the new
// prefix), and clamps the current index when it pointed at or beyond the
// removed position. Removing the last remaining lot is rejected with
// ErrInvariantViolation.
func (c *Context) RemoveLot(index int) error {
	lots, current, err := c.init()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(lots) {
		return fmt.Errorf("%w: lot index %d out of range [0,%d)", ErrInvariantViolation, index, len(lots))
	}
	if len(lots) == 1 {
		return fmt.Errorf("%w: cannot remove the last remaining lot", ErrInvariantViolation)
	}

	removed := lots[index]
	keys := c.store.Keys()

	removedPrefix := c.scopePrefix(index)
	for _, key := range keys {
		if strings.HasPrefix(key, removedPrefix) {
			c.store.Delete(key)
		}
	}

	// Later lots shift down one position; ascending order means each target
	// slot was vacated by the previous step.
	for j := index + 1; j < len(lots); j++ {
		oldPrefix := c.scopePrefix(j)
		newPrefix := c.scopePrefix(j - 1)
		for _, key := range keys {
			if !strings.HasPrefix(key, oldPrefix) {
				continue
			}
			value, ok := c.store.Get(key)
			if !ok {
				continue
			}
			c.store.Delete(key)
			c.store.Set(newPrefix+key[len(oldPrefix):], value)
		}
	}

	remaining := make([]Lot, 0, len(lots)-1)
	for _, lot := range lots {
		if lot.Index == index {
			continue
		}
		next := lot
		if next.Index > index {
			next.Index--
		}
		remaining = append(remaining, next)
	}
	c.writeLots(remaining)

	switch {
	case current > index:
		current--
	case current == index:
		if current >= len(remaining) {
			current = len(remaining) - 1
		}
	}
	c.writeCurrent(current)

	c.cfg.logger.LogChange(ChangeEvent{Op: "lot.removed", Lot: removed})
	return nil
}

// CopyLotData deep-copies every field value of lot src into the
// corresponding key of lot dst, overwriting existing dst values. The copies
// are independent: mutating one lot afterwards never shows through on the
// other.
func (c *Context) CopyLotData(src, dst int) error {
	lots, _, err := c.init()
	if err != nil {
		return err
	}
	if src < 0 || src >= len(lots) {
		return fmt.Errorf("%w: lot index %d out of range [0,%d)", ErrInvariantViolation, src, len(lots))
	}
	if dst < 0 || dst >= len(lots) {
		return fmt.Errorf("%w: lot index %d out of range [0,%d)", ErrInvariantViolation, dst, len(lots))
	}
	if src == dst {
		return nil
	}

	srcPrefix := c.scopePrefix(src)
	dstPrefix := c.scopePrefix(dst)
	for _, key := range c.store.Keys() {
		if !strings.HasPrefix(key, srcPrefix) {
			continue
		}
		value, ok := c.store.Get(key)
		if !ok {
			continue
		}
		c.store.Set(dstPrefix+key[len(srcPrefix):], value.Clone())
	}
	c.cfg.logger.LogChange(ChangeEvent{Op: "lot.copied", Lot: lots[dst]})
	return nil
}

// LotData assembles the nested form data of one lot from its scoped keys,
// reconstructing arrays along the way.
func (c *Context) LotData(index int) (map[string]Value, error) {
	lots, _, err := c.init()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(lots) {
		return nil, fmt.Errorf("%w: lot index %d out of range [0,%d)", ErrInvariantViolation, index, len(lots))
	}

	prefix := c.scopePrefix(index)
	flat := FlatMap{}
	for _, key := range c.store.Keys() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if value, ok := c.store.Get(key); ok {
			flat[key[len(prefix):]] = value
		}
	}
	rebuilt, err := reconstructWith(flat, c.cfg.codec)
	if err != nil {
		return nil, err
	}
	return unflattenWith(rebuilt, c.cfg.codec)
}

// CurrentLotData assembles the nested form data of the current lot.
func (c *Context) CurrentLotData() (map[string]Value, error) {
	_, current, err := c.init()
	if err != nil {
		return nil, err
	}
	return c.LotData(current)
}

// Reset discards all session state, including the reserved entries. The next
// operation re-creates the default single-lot state.
func (c *Context) Reset() error {
	for _, key := range c.store.Keys() {
		c.store.Delete(key)
	}
	c.cfg.logger.LogChange(ChangeEvent{Op: "session.reset"})
	return nil
}

func (c *Context) scopePrefix(index int) string {
	sep := c.cfg.codec.separator
	return lotScopeToken + sep + strconv.Itoa(index) + sep
}

func (c *Context) writeLots(lots []Lot) {
	items := make([]Value, len(lots))
	for i, lot := range lots {
		items[i] = Value{kind: KindObject, obj: map[string]Value{
			"name":  String(lot.Name),
			"index": Int(lot.Index),
		}}
	}
	c.store.Set(lotsEntryKey, Value{kind: KindArray, arr: items})
}

func (c *Context) writeCurrent(index int) {
	c.store.Set(currentLotEntryKey, Int(index))
}

func (c *Context) readCurrent(lotCount int) (int, error) {
	raw, ok := c.store.Get(currentLotEntryKey)
	if !ok {
		c.writeCurrent(0)
		return 0, nil
	}
	current, ok := raw.IntValue()
	if !ok || current < 0 || current >= lotCount {
		return 0, fmt.Errorf("%w: reserved entry %q holds %s outside [0,%d)", ErrInvariantViolation, currentLotEntryKey, raw.Kind(), lotCount)
	}
	return current, nil
}

func decodeLots(raw Value) ([]Lot, error) {
	items, ok := raw.ArrayValue()
	if !ok || len(items) == 0 {
		return nil, fmt.Errorf("%w: reserved entry %q must be a non-empty array", ErrInvariantViolation, lotsEntryKey)
	}
	lots := make([]Lot, len(items))
	for i, item := range items {
		nameValue, _ := item.Member("name")
		name, ok := nameValue.StringValue()
		if !ok {
			return nil, fmt.Errorf("%w: lot %d is missing a name", ErrInvariantViolation, i)
		}
		indexValue, _ := item.Member("index")
		index, ok := indexValue.IntValue()
		if !ok || index != i {
			return nil, fmt.Errorf("%w: lot %d carries index %v, indices must equal positions", ErrInvariantViolation, i, indexValue.Interface())
		}
		lots[i] = Lot{Name: name, Index: index}
	}
	return lots, nil
}
