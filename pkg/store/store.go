// Package store persists rendered heatmap rasters in a badger database so
// repeated renders of the same dataset period are served from disk instead
// of re-running the pipeline.
package store

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

type RasterStore struct {
	db *badger.DB
}

func Open(path string) (*RasterStore, error) {
	opts := badger.DefaultOptions(path)
	// Decrease logging verbosity
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &RasterStore{db: db}, nil
}

func (s *RasterStore) Close() error {
	return s.db.Close()
}

// Key identifies one rendered raster: the dataset file, the series inside
// it, and the raster width the pipeline ran at.
func Key(dataset, series string, width int) []byte {
	return []byte(fmt.Sprintf("%s|%s|%d", dataset, series, width))
}

// Put stores an encoded raster under the key.
func (s *RasterStore) Put(key, encoded []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, encoded)
	})
}

// BatchPut stores several rasters in one write batch, used when a whole
// season sweep is rendered ahead of time.
func (s *RasterStore) BatchPut(entries map[string][]byte) error {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for k, v := range entries {
		if err := wb.Set([]byte(k), v); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// Get returns the encoded raster for the key, or nil when it has not been
// rendered yet.
func (s *RasterStore) Get(key []byte) ([]byte, error) {
	var val []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	return val, err
}

// ForEach visits every stored raster, for cache inspection tooling.
func (s *RasterStore) ForEach(fn func(k []byte, v []byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			k := item.Key()
			err := item.Value(func(v []byte) error {
				return fn(k, v)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}
