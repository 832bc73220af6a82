package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	formstate "github.com/goliatone/go-formstate"
)

// ErrETagMismatch reports a concurrent modification detected on save.
var ErrETagMismatch = errors.New("persist: etag mismatch")

// Ref identifies one persisted snapshot for one form session.
type Ref struct {
	SessionID string
}

// Identifier returns the canonical storage key for the reference.
func (r Ref) Identifier() (string, error) {
	if r.SessionID == "" {
		return "", fmt.Errorf("persist: session id is required")
	}
	return fmt.Sprintf("session/%s", r.SessionID), nil
}

// Meta is storage-owned metadata used for audit and concurrency control.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Store loads/saves one flat snapshot for a single session reference.
type Store interface {
	Load(ctx context.Context, ref Ref) (snapshot formstate.FlatMap, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, snapshot formstate.FlatMap, meta Meta) (Meta, error)
}

func mergeMeta(base, override Meta) Meta {
	out := base
	if override.SnapshotID != "" {
		out.SnapshotID = override.SnapshotID
	}
	if override.ETag != "" {
		out.ETag = override.ETag
	}
	if !override.UpdatedAt.IsZero() {
		out.UpdatedAt = override.UpdatedAt
	}
	if override.Extra != nil {
		out.Extra = override.Extra
	}
	return out
}

func cloneMeta(meta Meta) Meta {
	out := meta
	if meta.Extra == nil {
		return out
	}
	out.Extra = make(map[string]string, len(meta.Extra))
	for k, v := range meta.Extra {
		out.Extra[k] = v
	}
	return out
}
