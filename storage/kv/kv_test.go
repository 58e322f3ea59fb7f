package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/storage/kv/boltkv"
	"github.com/trezcool/darasa/storage/kv/memkv"
	"github.com/trezcool/darasa/storage/kv/rediskv"
)

func TestOpen(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name    string
		storage core.StorageConfig
		want    interface{}
		wantErr bool
	}{
		{name: "bolt", storage: core.StorageConfig{Engine: "bolt", Path: filepath.Join(t.TempDir(), "d.db")}, want: &boltkv.Store{}},
		{name: "default", storage: core.StorageConfig{Path: filepath.Join(t.TempDir(), "d.db")}, want: &boltkv.Store{}},
		{name: "redis", storage: core.StorageConfig{Engine: "REDIS", RedisAddr: mr.Addr()}, want: &rediskv.Store{}},
		{name: "memory", storage: core.StorageConfig{Engine: "memory"}, want: &memkv.Store{}},
		{name: "unknown", storage: core.StorageConfig{Engine: "postgres"}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Open(context.Background(), &core.Config{Storage: tc.storage})
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer s.Close()
			assert.IsType(t, tc.want, s)
		})
	}
}
