// Package rustcask is the public entry point for embedding a Bitcask-style
// key/value store in a Go process. It combines an in-memory keydir with an
// append-only log on disk: every write is a sequential append, every read
// is one keydir lookup plus one positioned file read, and Merge reclaims
// the space held by overwritten and deleted keys.
//
// A DB is safe for concurrent use. Clone returns an independent handle
// over the same underlying data for callers that want their own read
// position without opening the directory a second time.
package rustcask

import (
	"github.com/rustcask/rustcask/internal/engine"
	"github.com/rustcask/rustcask/pkg/options"
)

// Option configures a DB at Open time.
type Option = options.OptionFunc

var (
	// WithMaxDataFileSize sets the active-file rotation threshold, in bytes.
	WithMaxDataFileSize = options.WithMaxDataFileSize

	// WithSyncMode enables or disables fsync-after-every-mutation durability.
	WithSyncMode = options.WithSyncMode

	// WithCompactInterval sets how often the background scheduler compacts
	// the store. Leave unset (or pass 0) to compact only on explicit Merge
	// calls.
	WithCompactInterval = options.WithCompactInterval

	// WithLogger injects a structured logger in place of the default one.
	WithLogger = options.WithLogger
)

var (
	// ErrKeyNotFound is returned by Get when the key has no live entry,
	// whether because it was never set or already deleted. Remove treats
	// a missing key as a normal outcome instead, returning (nil, nil).
	ErrKeyNotFound = engine.ErrKeyNotFound

	// ErrClosed is returned by every operation on a DB once Close has
	// been called on it.
	ErrClosed = engine.ErrEngineClosed
)

// DB is one open handle onto a rustcask directory.
type DB struct {
	engine *engine.Engine
}

// Open opens an existing rustcask directory, recovering its keydir from
// the data files already present, and returns a ready-to-use DB. A missing
// dir, or a path that is not a directory, is a BadDirectory error. Only one process may hold dir open at a time; a second Open on the
// same directory fails.
func Open(dir string, opts ...Option) (*DB, error) {
	eng, err := engine.Open(dir, opts...)
	if err != nil {
		return nil, err
	}
	return &DB{engine: eng}, nil
}

// Get returns key's current value.
func (db *DB) Get(key string) ([]byte, error) {
	return db.engine.Get([]byte(key))
}

// Set stores value under key, replacing any existing value.
func (db *DB) Set(key string, value []byte) error {
	return db.engine.Set([]byte(key), value)
}

// Remove deletes key and returns the value it held. Removing a key with no
// live value is not an error -- it returns (nil, nil).
func (db *DB) Remove(key string) ([]byte, error) {
	return db.engine.Remove([]byte(key))
}

// Merge compacts every non-active generation, reclaiming the space held
// by overwritten and deleted keys.
func (db *DB) Merge() error {
	return db.engine.Merge()
}

// Clone returns a new handle over the same underlying store, with its own
// independent read position. Closing a clone never closes the store
// itself; only closing the handle Open returned does that.
func (db *DB) Clone() *DB {
	return &DB{engine: db.engine.Clone()}
}

// Close releases db's resources. Calling Close on the handle Open
// returned also flushes and closes the store's writer and releases the
// directory lock.
func (db *DB) Close() error {
	return db.engine.Close()
}
