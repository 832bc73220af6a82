// Package persist defines the persistence-facing contracts for loading and
// saving form session snapshots. Store implementations only move one flat
// snapshot per session reference; the Boundary layers temporal serialization
// and optimistic concurrency on top, keeping the core engine free of I/O.
//
// Data flow:
//
//	formstate.SnapshotStore -> Boundary.Save -> Store
//	Store -> Boundary.Load -> formstate.RestoreStore
//
// Temporal values cross the boundary as canonical strings; the Boundary
// converts them using the temporal kinds declared by the form schema.
package persist
