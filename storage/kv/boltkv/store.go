package boltkv

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"github.com/trezcool/darasa/core"
)

var bucket = []byte("Snapshots")

// Store keeps snapshots as JSON values of a single bbolt bucket, keyed by snapshot name.
type Store struct {
	db *bbolt.DB
}

var _ core.SnapshotStore = (*Store)(nil) // interface compliance check

// Open opens (or creates) the bbolt file at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, "creating storage directory")
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "opening bolt file")
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating snapshots bucket")
	}
	return &Store{db: db}, nil
}

func (s *Store) Load(_ context.Context, name string, v interface{}) error {
	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		if raw := tx.Bucket(bucket).Get([]byte(name)); raw != nil {
			// raw is only valid during the transaction
			data = append([]byte(nil), raw...)
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "reading snapshot")
	}
	if data == nil {
		return core.ErrSnapshotNotFound
	}
	return errors.Wrap(json.Unmarshal(data, v), "decoding snapshot")
}

func (s *Store) Save(_ context.Context, name string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "encoding snapshot")
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(name), data)
	})
	return errors.Wrap(err, "writing snapshot")
}

func (s *Store) Close() error {
	return s.db.Close()
}
