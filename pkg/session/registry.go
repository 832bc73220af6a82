// Package session hands out form sessions with stable ids and serializes
// access to each one. The core engine is single-threaded; hosts that handle
// concurrent requests for the same session route every mutation through
// Session.With.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	formstate "github.com/goliatone/go-formstate"
)

// ErrNotFound reports a lookup for a session id the registry never issued.
var ErrNotFound = errors.New("session: not found")

// Session owns one form context and the mutex that serializes access to it.
type Session struct {
	id   string
	mu   sync.Mutex
	form *formstate.Context
}

// ID returns the session's identifier.
func (s *Session) ID() string {
	return s.id
}

// With runs fn while holding the session's lock. All reads and mutations of
// the form context must go through here.
func (s *Session) With(fn func(*formstate.Context) error) error {
	if fn == nil {
		return fmt.Errorf("session: fn is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.form)
}

// Registry issues and tracks sessions.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opts     []formstate.ContextOption
}

// NewRegistry constructs a Registry. opts apply to every form context the
// registry creates.
func NewRegistry(opts ...formstate.ContextOption) *Registry {
	return &Registry{
		sessions: map[string]*Session{},
		opts:     opts,
	}
}

// Create opens a new session with a fresh in-memory store and returns it.
func (r *Registry) Create() *Session {
	return r.CreateFrom(formstate.NewMemoryStore())
}

// CreateFrom opens a new session backed by the given store, letting hosts
// resume persisted state.
func (r *Registry) CreateFrom(store formstate.Store) *Session {
	session := &Session{
		id:   uuid.NewString(),
		form: formstate.NewContext(store, r.opts...),
	}
	r.mu.Lock()
	r.sessions[session.id] = session
	r.mu.Unlock()
	return session
}

// Get returns the session for id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	session, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return session, nil
}

// Close drops the session for id. Closing an unknown id is a no-op.
func (r *Registry) Close(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len reports how many sessions are open.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
