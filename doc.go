// Package formstate implements the state engine behind multi-lot form
// sessions: a flat key/value store addressed through dotted keys, lot-scoped
// field access, and the codecs that move data between the flat
// representation and nested form payloads.
//
// The core is deliberately small and host-agnostic. A Context wraps an
// injected Store and guarantees the session invariants (at least one lot,
// dense lot indices, a valid current lot); Flatten, Unflatten,
// ReconstructArrays, and the lot codec translate between representations;
// the temporal helpers normalize date, time, and datetime values at the
// persistence boundary. Nothing in this package performs I/O, renders
// widgets, or spawns goroutines.
//
// Conditional field visibility is expressed as expressions evaluated by a
// pluggable Evaluator; expr-lang, CEL, and JavaScript engines ship with the
// package. Orchestration lives in pkg/controller, persistence contracts in
// pkg/persist, schema documents in pkg/schema, and concurrent host access
// in pkg/session.
package formstate
