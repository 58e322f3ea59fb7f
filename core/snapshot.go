package core

import (
	"context"

	"github.com/pkg/errors"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotStore persists whole store states as named blobs.
type SnapshotStore interface {
	// Load decodes the named snapshot into v. It returns ErrSnapshotNotFound if nothing was saved yet.
	Load(ctx context.Context, name string, v interface{}) error
	// Save replaces the named snapshot with v.
	Save(ctx context.Context, name string, v interface{}) error
	Close() error
}
