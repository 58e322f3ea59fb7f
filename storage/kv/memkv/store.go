package memkv

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

// Store keeps snapshots in process memory, encoded the way the persistent engines encode them.
type Store struct {
	sync.RWMutex
	table map[string][]byte

	// FailSaves makes every Save fail, to simulate a broken storage.
	FailSaves bool
}

var _ core.SnapshotStore = (*Store)(nil) // interface compliance check

func Open() *Store {
	return &Store{table: make(map[string][]byte)}
}

func (s *Store) Load(_ context.Context, name string, v interface{}) error {
	s.RLock()
	data, ok := s.table[name]
	s.RUnlock()
	if !ok {
		return core.ErrSnapshotNotFound
	}
	return errors.Wrap(json.Unmarshal(data, v), "decoding snapshot")
}

func (s *Store) Save(_ context.Context, name string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "encoding snapshot")
	}

	s.Lock()
	defer s.Unlock()
	if s.FailSaves {
		return errors.New("memory store: saves disabled")
	}
	s.table[name] = data
	return nil
}

// Raw returns the encoded snapshot, if any.
func (s *Store) Raw(name string) ([]byte, bool) {
	s.RLock()
	defer s.RUnlock()
	data, ok := s.table[name]
	return data, ok
}

func (s *Store) Close() error { return nil }
