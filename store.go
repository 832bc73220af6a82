package formstate

import (
	"sort"
	"sync"
)

// Store abstracts the host's shared mutable session store so the Form
// Context can run against an in-memory map in tests and against a
// host-provided store in production. Implementations own their concurrency
// guarantees; the core itself is single-threaded.
type Store interface {
	Get(key string) (Value, bool)
	Set(key string, value Value)
	Keys() []string
	Delete(key string)
}

// MemoryStore is a minimal in-memory Store guarded by an RWMutex, intended
// for tests and single-process hosts.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Value
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]Value{}}
}

// Get returns a copy of the value stored under key.
func (s *MemoryStore) Get(key string) (Value, bool) {
	s.mu.RLock()
	value, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return Value{}, false
	}
	return value.Clone(), true
}

// Set stores a copy of value under key.
func (s *MemoryStore) Set(key string, value Value) {
	s.mu.Lock()
	s.entries[key] = value.Clone()
	s.mu.Unlock()
}

// Keys returns all stored keys sorted alphabetically.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	s.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Delete removes the entry stored under key, if any.
func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// SnapshotStore copies every entry of store into a FlatMap.
func SnapshotStore(store Store) FlatMap {
	keys := store.Keys()
	out := make(FlatMap, len(keys))
	for _, key := range keys {
		if value, ok := store.Get(key); ok {
			out[key] = value
		}
	}
	return out
}

// RestoreStore clears store and fills it with the entries of flat.
func RestoreStore(store Store, flat FlatMap) {
	for _, key := range store.Keys() {
		store.Delete(key)
	}
	for key, value := range flat {
		store.Set(key, value)
	}
}
