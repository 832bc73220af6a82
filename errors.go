package formstate

import "errors"

var (
	// ErrStructuralConflict indicates an ambiguous flat-key set: a key is both
	// assigned a value and is a strict prefix of another key, or (in strict
	// array mode) an index set has gaps. Conflicts are detected, never papered
	// over by overwriting.
	ErrStructuralConflict = errors.New("formstate: structural conflict")

	// ErrInvariantViolation indicates a rejected lot operation: addressing an
	// index outside [0, len(lots)) or removing the last remaining lot. The
	// session state is left unchanged.
	ErrInvariantViolation = errors.New("formstate: invariant violation")

	// ErrMalformedTemporal indicates a temporal string that does not match its
	// declared kind's canonical form.
	ErrMalformedTemporal = errors.New("formstate: malformed temporal value")
)
