package boltkv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darasa/core"
)

type blob struct {
	Names []string        `json:"names"`
	Flags map[string]bool `json:"flags"`
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "darasa.db")

	s, err := Open(path)
	require.NoError(t, err)

	var got blob
	assert.ErrorIs(t, s.Load(ctx, "auth-storage", &got), core.ErrSnapshotNotFound)

	want := blob{Names: []string{"jane", "john"}, Flags: map[string]bool{"a": true}}
	require.NoError(t, s.Save(ctx, "auth-storage", want))
	require.NoError(t, s.Load(ctx, "auth-storage", &got))
	assert.Equal(t, want, got)
	require.NoError(t, s.Close())

	// snapshots survive reopening the file
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	got = blob{}
	require.NoError(t, s.Load(ctx, "auth-storage", &got))
	assert.Equal(t, want, got)
	assert.ErrorIs(t, s.Load(ctx, "dashboard-storage", &got), core.ErrSnapshotNotFound)
}

func TestStore_LoadCorrupted(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "darasa.db"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save(ctx, "auth-storage", "not an object"))
	var got blob
	err = s.Load(ctx, "auth-storage", &got)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrSnapshotNotFound)
}
