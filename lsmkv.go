// Package lsmkv is an embedded, ordered key-value store built as a
// Log-Structured Merge tree: point writes and deletes land in an
// in-memory memtable, Sync rotates a full memtable into an immutable
// on-disk SSTable, and Get/Scan read a logically merged view across the
// active memtable, any pending immutables, and every L0 SSTable.
package lsmkv

import (
	"lsmkv/internal/memtable"
	"lsmkv/internal/storage"
)

// BoundKind distinguishes the three ways a scan bound can be expressed.
type BoundKind = memtable.BoundKind

const (
	Unbounded = memtable.Unbounded
	Included  = memtable.Included
	Excluded  = memtable.Excluded
)

// Bound is one side of a range scan.
type Bound = memtable.Bound

// Option customizes Open; see the storage package for the available
// options (WithLogger, WithStore, WithMetrics).
type Option = storage.Option

var (
	// WithLogger overrides the default production zap logger.
	WithLogger = storage.WithLogger
	// WithStore overrides the default local-filesystem object store.
	WithStore = storage.WithStore
	// WithMetrics overrides the default Prometheus metrics bundle.
	WithMetrics = storage.WithMetrics
)

// DB is an opened LSM key-value store rooted at one directory.
type DB struct {
	inner *storage.LsmStorage
}

// Open loads (or initializes) a store rooted at dir.
func Open(dir string, opts ...Option) (*DB, error) {
	inner, err := storage.Open(dir, opts...)
	if err != nil {
		return nil, err
	}
	return &DB{inner: inner}, nil
}

// Put writes key->value, latest-write-wins. Empty keys and empty values
// are rejected.
func (db *DB) Put(key, value []byte) error {
	return db.inner.Put(key, value)
}

// Delete inserts a tombstone for key. Empty keys are rejected.
func (db *DB) Delete(key []byte) error {
	return db.inner.Delete(key)
}

// Get returns the live value for key and whether it is present. A key
// whose latest write was a Delete reports ok == false.
func (db *DB) Get(key []byte) (value []byte, ok bool, err error) {
	return db.inner.Get(key)
}

// Sync flushes the active memtable into a new L0 SSTable. It is safe to
// call concurrently with Put/Delete/Get/Scan; concurrent Syncs serialize
// against each other.
func (db *DB) Sync() error {
	return db.inner.Sync()
}

// Cursor is an ordered, bounded scan result. It never panics after
// reaching the end: Next is a no-op once IsValid is false.
type Cursor interface {
	IsValid() bool
	Key() []byte
	Value() []byte
	Next() error
}

// Scan returns an ordered cursor over every live entry with key in
// [lower, upper], per each bound's Included/Excluded/Unbounded semantics.
func (db *DB) Scan(lower, upper Bound) (Cursor, error) {
	return db.inner.Scan(lower, upper)
}
