// Package engine wires together the writer, the keydir, and a per-handle
// reader pool into rustcask's single-process storage engine: the
// component that owns an engine directory end to end, from acquiring its
// advisory lock at Open through recovering the keydir, serving Get/Set/
// Remove/Merge, and releasing everything at Close.
package engine

import (
	"bytes"
	stdErrors "errors"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"github.com/rustcask/rustcask/internal/compaction"
	"github.com/rustcask/rustcask/internal/datadir"
	"github.com/rustcask/rustcask/internal/keydir"
	"github.com/rustcask/rustcask/internal/readerpool"
	"github.com/rustcask/rustcask/internal/record"
	"github.com/rustcask/rustcask/internal/storage"
	"github.com/rustcask/rustcask/pkg/errors"
	"github.com/rustcask/rustcask/pkg/filesys"
	"github.com/rustcask/rustcask/pkg/logger"
	"github.com/rustcask/rustcask/pkg/options"
	"go.uber.org/zap"
)

var (
	// ErrKeyNotFound is returned by Get when the key has no live entry in
	// the keydir, whether because it was never set or because it was
	// already deleted. Remove treats a missing key as a normal outcome
	// instead, returning (nil, nil).
	ErrKeyNotFound = stdErrors.New("rustcask: key not found")

	// ErrEngineClosed is returned by every operation on an engine handle
	// once Close has been called on it.
	ErrEngineClosed = stdErrors.New("rustcask: engine is closed")
)

// Engine is one open handle onto a rustcask directory. The handle
// returned by Open owns the advisory directory lock, the writer, the
// keydir, and the background compaction scheduler; a handle returned by
// Clone shares all of those with its parent but keeps its own reader pool
// so that concurrent reads on different handles never contend over a
// single file position.
type Engine struct {
	dir string
	log *zap.SugaredLogger

	lock      *flock.Flock
	writer    *storage.Writer
	keydir    *keydir.Keydir
	readers   *readerpool.Pool
	scheduler *compaction.Scheduler

	isClone bool
	closed  atomic.Bool
}

// Open acquires dir's advisory lock, recovers the keydir by replaying
// every generation's data file, and returns a ready-to-use Engine. If dir
// does not exist, is not a directory, or is already locked by another open
// handle (in this process or another), Open returns a BadDirectory domain
// error.
func Open(dir string, optFuncs ...options.OptionFunc) (*Engine, error) {
	opts := options.NewDefaultOptions()
	for _, fn := range optFuncs {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logger.New("rustcask")
	}
	log := opts.Logger

	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.NewBadDirectoryError(dir, err)
	}
	if !info.IsDir() {
		return nil, errors.NewBadDirectoryError(dir, filesys.ErrIsNotDir)
	}

	lock := flock.New(filepath.Join(dir, datadir.LockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, errors.NewBadDirectoryError(dir, err)
	}
	if !locked {
		return nil, errors.NewBadDirectoryError(dir, stdErrors.New("directory is already open by another engine handle"))
	}

	generations, err := datadir.ListGenerations(dir)
	if err != nil {
		lock.Unlock()
		return nil, errors.NewIoError(err).WithPath(dir)
	}

	recovered, err := keydir.BuildFrom(dir, generations)
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	kd := keydir.New(log)
	kd.Snapshot(recovered)
	log.Infow("keydir recovered", "dir", dir, "generations", len(generations), "liveKeys", kd.Len())

	w, err := storage.Open(dir, &opts, log)
	if err != nil {
		lock.Unlock()
		return nil, err
	}

	e := &Engine{
		dir:     dir,
		log:     log,
		lock:    lock,
		writer:  w,
		keydir:  kd,
		readers: readerpool.New(dir),
	}

	e.scheduler = compaction.New(opts.CompactInterval, e.Merge, log)
	e.scheduler.Start()

	return e, nil
}

// Get returns key's current value, or ErrKeyNotFound if it has no live
// entry.
func (e *Engine) Get(key []byte) ([]byte, error) {
	if e.closed.Load() {
		return nil, ErrEngineClosed
	}

	entry, ok := e.keydir.Get(string(key))
	if !ok {
		return nil, ErrKeyNotFound
	}
	return e.readLiveEntry(string(key), entry)
}

// readLiveEntry resolves a keydir entry to the value of the record it
// describes, enforcing the invariants that tie a keydir entry to its
// record: the generation must exist, the decoded key must match, and the
// record must be present, not a tombstone. Any of these failing means the
// keydir and the data files have diverged -- a programming bug, not an
// operational failure -- so readLiveEntry panics rather than returning an
// ordinary error, per the engine's invariant policy.
func (e *Engine) readLiveEntry(key string, entry keydir.Entry) ([]byte, error) {
	raw, err := e.readers.ReadAt(entry.Generation, entry.Offset, entry.Length)
	if err != nil {
		if os.IsNotExist(err) {
			panic(errors.NewMissingGenerationError(key, entry.Generation))
		}
		return nil, errors.NewIoError(err).WithGeneration(entry.Generation).WithOffset(entry.Offset)
	}

	rec, err := record.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	if string(rec.Key) != key {
		panic(errors.NewKeyMismatchError(key, string(rec.Key), entry.Generation))
	}
	if rec.IsTombstone() {
		panic(errors.NewTombstoneInvariantError(key, entry.Generation))
	}
	return rec.Value, nil
}

// Set writes key's new value and publishes it to the keydir once the
// write has landed on disk.
func (e *Engine) Set(key, value []byte) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	entry, err := e.writer.Append(record.Record{Key: key, Value: value})
	if err != nil {
		return err
	}
	e.keydir.Set(string(key), entry)
	return nil
}

// Remove appends a tombstone for key and erases it from the keydir,
// returning the value that was just removed. Removing a key with no live
// entry is not an error -- it returns (nil, nil).
func (e *Engine) Remove(key []byte) ([]byte, error) {
	if e.closed.Load() {
		return nil, ErrEngineClosed
	}

	entry, ok := e.keydir.Get(string(key))
	if !ok {
		return nil, nil
	}
	value, err := e.readLiveEntry(string(key), entry)
	if err != nil {
		return nil, err
	}

	if _, err := e.writer.Append(record.NewTombstone(key)); err != nil {
		return nil, err
	}
	e.keydir.Remove(string(key))
	return value, nil
}

// Merge compacts every non-active generation, reclaiming the space held
// by overwritten and deleted keys. It is safe to call concurrently with
// Get/Set/Remove and is what the background compaction scheduler invokes
// on Options.CompactInterval.
func (e *Engine) Merge() error {
	if e.closed.Load() {
		return ErrEngineClosed
	}
	return e.writer.Merge(e.keydir)
}

// Clone returns a new handle sharing this Engine's writer, keydir, lock,
// and compaction scheduler, but with its own reader pool. Clones are
// cheap and intended for concurrent callers that each want an independent
// read position; closing a clone never releases the directory lock or
// stops the scheduler -- only closing the original handle from Open does.
func (e *Engine) Clone() *Engine {
	return &Engine{
		dir:       e.dir,
		log:       e.log,
		lock:      e.lock,
		writer:    e.writer,
		keydir:    e.keydir,
		readers:   e.readers.Clone(),
		scheduler: e.scheduler,
		isClone:   true,
	}
}

// Close releases this handle's reader pool. For the original handle
// returned by Open, it also stops the background compaction scheduler,
// flushes and closes the writer, and releases the directory lock.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrEngineClosed
	}

	if err := e.readers.Close(); err != nil {
		e.log.Warnw("failed to close reader pool", "error", err)
	}

	if e.isClone {
		return nil
	}

	e.scheduler.Stop()

	if err := e.writer.Close(); err != nil {
		return err
	}
	return e.lock.Unlock()
}
