package persist

import (
	"context"
	"fmt"
	"strings"

	formstate "github.com/goliatone/go-formstate"
)

// Boundary wraps a Store with the temporal normalizer and optimistic
// concurrency. Snapshots handed to the Store carry temporal values as
// canonical strings; snapshots returned to callers carry them as temporal
// values again, using the kinds declared by the form schema.
type Boundary struct {
	store Store
	kinds map[string]formstate.TemporalKind
}

// NewBoundary constructs a Boundary. kinds maps unscoped field paths to the
// temporal kind persisted at that path; it may be nil when the form declares
// no temporal fields.
func NewBoundary(store Store, kinds map[string]formstate.TemporalKind) (*Boundary, error) {
	if store == nil {
		return nil, fmt.Errorf("persist: store is required")
	}
	return &Boundary{store: store, kinds: kinds}, nil
}

// Load fetches the session snapshot and deserializes stored temporal
// strings. Malformed stored values surface formstate.ErrMalformedTemporal.
func (b *Boundary) Load(ctx context.Context, ref Ref) (formstate.FlatMap, Meta, bool, error) {
	snapshot, meta, ok, err := b.store.Load(ctx, ref)
	if err != nil {
		return nil, Meta{}, false, fmt.Errorf("persist: load session %q: %w", ref.SessionID, err)
	}
	if !ok {
		return nil, Meta{}, false, nil
	}
	restored, err := b.deserialize(snapshot)
	if err != nil {
		return nil, meta, false, err
	}
	return restored, meta, true, nil
}

// Save serializes temporal values and writes the snapshot. When both the
// caller and the store carry an ETag and they disagree, Save fails with
// ErrETagMismatch and writes nothing.
func (b *Boundary) Save(ctx context.Context, ref Ref, snapshot formstate.FlatMap, meta Meta) (Meta, error) {
	_, storedMeta, ok, err := b.store.Load(ctx, ref)
	if err != nil {
		return Meta{}, fmt.Errorf("persist: load session %q: %w", ref.SessionID, err)
	}
	if ok && meta.ETag != "" && storedMeta.ETag != "" && meta.ETag != storedMeta.ETag {
		return storedMeta, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, meta.ETag, storedMeta.ETag)
	}

	saveMeta := mergeMeta(storedMeta, meta)
	savedMeta, err := b.store.Save(ctx, ref, formstate.SerializeTemporals(snapshot), saveMeta)
	if err != nil {
		return Meta{}, fmt.Errorf("persist: save session %q: %w", ref.SessionID, err)
	}
	return savedMeta, nil
}

// Mutate loads the session into a fresh form context, applies fn, then saves
// the resulting snapshot. Absent sessions start from an empty context.
func (b *Boundary) Mutate(ctx context.Context, ref Ref, meta Meta, fn func(*formstate.Context) error, opts ...formstate.ContextOption) (formstate.FlatMap, Meta, error) {
	if fn == nil {
		return nil, Meta{}, fmt.Errorf("persist: mutator is required")
	}

	snapshot, _, ok, err := b.Load(ctx, ref)
	if err != nil {
		return nil, Meta{}, err
	}

	store := formstate.NewMemoryStore()
	if ok {
		formstate.RestoreStore(store, snapshot)
	}
	form := formstate.NewContext(store, opts...)
	if err := fn(form); err != nil {
		return nil, Meta{}, err
	}

	result := formstate.SnapshotStore(store)
	savedMeta, err := b.Save(ctx, ref, result, meta)
	if err != nil {
		return nil, Meta{}, err
	}
	return result, savedMeta, nil
}

func (b *Boundary) deserialize(snapshot formstate.FlatMap) (formstate.FlatMap, error) {
	if len(b.kinds) == 0 {
		return snapshot.Clone(), nil
	}
	scoped := make(map[string]formstate.TemporalKind, len(snapshot))
	for key := range snapshot {
		path, ok := fieldPath(key)
		if !ok {
			continue
		}
		if kind, declared := b.kinds[path]; declared {
			scoped[key] = kind
		}
	}
	restored, err := formstate.DeserializeTemporals(snapshot, scoped)
	if err != nil {
		return nil, err
	}
	return restored, nil
}

// fieldPath strips the lot scope prefix from a store key. Reserved entries
// and malformed keys report false.
func fieldPath(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, "lots"+formstate.DefaultSeparator)
	if !ok {
		return "", false
	}
	index, rest, ok := strings.Cut(rest, formstate.DefaultSeparator)
	if !ok || index == "" || rest == "" {
		return "", false
	}
	for _, r := range index {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return rest, true
}
