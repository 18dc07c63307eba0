// Package store provides a crash-safe, persistent mapping from a 128-bit
// URL fingerprint to (url, completed), used to rebuild the frontier's
// dedup state across restarts.
package store

import (
	"time"

	"go.etcd.io/bbolt"
)

var urlBucket = []byte("urls")

// Record is the value half of the fingerprint -> (url, completed) mapping.
type Record struct {
	URL       string
	Completed bool
}

// Store is a crash-safe key-value mapping from a 128-bit URL fingerprint to
// Record, backed by a single bbolt file. Put commits durably (fsync)
// before returning: a crash between Put and its acknowledgment may persist
// the write or may not, but never loses a write that was acknowledged.
type Store struct {
	db *bbolt.DB
}

// Open creates or opens the bbolt database at path, creating the url
// bucket if absent.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0644, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, &StoreError{Message: err.Error(), Cause: ErrCauseOpenFailure}
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(urlBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, &StoreError{Message: err.Error(), Cause: ErrCauseOpenFailure}
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Contains reports whether fp has a record, without reading its value.
func (s *Store) Contains(fp [16]byte) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(urlBucket).Get(fp[:])
		found = v != nil
		return nil
	})
	if err != nil {
		return false, &StoreError{Message: err.Error(), Cause: ErrCauseReadFailure}
	}
	return found, nil
}

// Get returns the record for fp, if any.
func (s *Store) Get(fp [16]byte) (Record, bool, error) {
	var rec Record
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(urlBucket).Get(fp[:])
		if v == nil {
			return nil
		}
		found = true
		return decodeRecord(v, &rec)
	})
	if err != nil {
		return Record{}, false, &StoreError{Message: err.Error(), Cause: ErrCauseReadFailure}
	}
	return rec, found, nil
}

// Put durably stores (url, completed) under fp. bbolt's Update commits its
// transaction with an fsync before returning, satisfying the "durable
// after return" requirement without extra bookkeeping.
func (s *Store) Put(fp [16]byte, url string, completed bool) error {
	rec := Record{URL: url, Completed: completed}
	encoded := encodeRecord(rec)

	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(urlBucket).Put(fp[:], encoded)
	})
	if err != nil {
		return &StoreError{Message: err.Error(), Cause: ErrCauseWriteFailure}
	}
	return nil
}

// Iterate calls fn once per stored record, in key order. It is intended for
// startup replay into in-memory frontier state. Iteration stops and
// returns fn's error if fn returns non-nil.
func (s *Store) Iterate(fn func(fp [16]byte, rec Record) error) error {
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(urlBucket).ForEach(func(k, v []byte) error {
			var fp [16]byte
			copy(fp[:], k)
			var rec Record
			if err := decodeRecord(v, &rec); err != nil {
				return err
			}
			return fn(fp, rec)
		})
	})
	if err != nil {
		return &StoreError{Message: err.Error(), Cause: ErrCauseReadFailure}
	}
	return nil
}
