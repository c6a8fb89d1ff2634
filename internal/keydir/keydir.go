// Package keydir provides the in-memory hash table mapping every live key
// to the location of its most recent value on disk: which generation's
// data file holds it, and at what offset and length. It is the structure
// that makes a read O(1) -- a lookup plus one positioned file read -- no
// matter how much data has accumulated across generations.
//
// The keydir holds exactly the metadata needed to find a value, never the
// value itself: values live only in the data files. A key's entry is
// replaced wholesale on every write and erased outright on delete; there
// is no history and no versioning here, that is the data files' job.
package keydir

import (
	"io"

	"github.com/rustcask/rustcask/internal/datadir"
	"github.com/rustcask/rustcask/internal/logfile"
	"github.com/rustcask/rustcask/pkg/errors"
	"github.com/rustcask/rustcask/pkg/poison"
	"go.uber.org/zap"
)

// Entry locates a single key's value on disk.
type Entry struct {
	Generation uint64
	Offset     int64
	Length     int64
}

// Keydir is the concurrency-safe key -> Entry map. A panic while the lock
// is held poisons it: every subsequent operation panics with the original
// cause rather than risk operating against a map left in an unknown state.
type Keydir struct {
	log     *zap.SugaredLogger
	mu      poison.RWMutex
	entries map[string]Entry
}

// New returns an empty keydir.
func New(log *zap.SugaredLogger) *Keydir {
	return &Keydir{log: log, entries: make(map[string]Entry, 2048)}
}

// Get returns key's entry and whether it is present.
func (k *Keydir) Get(key string) (entry Entry, ok bool) {
	_ = k.mu.RGuard(func() error {
		entry, ok = k.entries[key]
		return nil
	})
	return entry, ok
}

// Set records or replaces key's entry.
func (k *Keydir) Set(key string, entry Entry) {
	_ = k.mu.Guard(func() error {
		k.entries[key] = entry
		return nil
	})
}

// Remove erases key's entry, reporting whether it was present.
func (k *Keydir) Remove(key string) (existed bool) {
	_ = k.mu.Guard(func() error {
		_, existed = k.entries[key]
		delete(k.entries, key)
		return nil
	})
	return existed
}

// Len returns the number of live keys.
func (k *Keydir) Len() int {
	var n int
	_ = k.mu.RGuard(func() error {
		n = len(k.entries)
		return nil
	})
	return n
}

// Iterate calls fn once per live key, in unspecified order, stopping early
// if fn returns false. fn must not call back into the keydir: it runs
// under the read lock.
func (k *Keydir) Iterate(fn func(key string, entry Entry) bool) {
	_ = k.mu.RGuard(func() error {
		for key, entry := range k.entries {
			if !fn(key, entry) {
				break
			}
		}
		return nil
	})
}

// Snapshot replaces the keydir's entire contents atomically. The merge
// path builds a fresh map describing post-compaction locations and
// publishes it here in one step, so no reader ever observes a mix of
// pre- and post-merge locations.
func (k *Keydir) Snapshot(entries map[string]Entry) {
	_ = k.mu.Guard(func() error {
		k.entries = entries
		return nil
	})
}

// BuildFrom replays every generation's data file, in ascending generation
// order, to reconstruct the keydir after a restart. A later generation's
// record for a key always supersedes an earlier one; a tombstone removes
// the key from the rebuilt map even if an earlier generation set it.
//
// A mid-record decode failure in any generation's file, the last (active)
// one included, aborts the build and is returned as a Deserialize error;
// no partially built map is ever returned.
func BuildFrom(dir string, generations []uint64) (map[string]Entry, error) {
	entries := make(map[string]Entry, 2048)

	for _, gen := range generations {
		if err := replayGeneration(dir, gen, entries); err != nil {
			return nil, err
		}
	}

	return entries, nil
}

func replayGeneration(dir string, gen uint64, entries map[string]Entry) error {
	it, err := logfile.Open(datadir.DataFilePath(dir, gen))
	if err != nil {
		return errors.NewIoError(err).WithGeneration(gen)
	}
	defer it.Close()

	for {
		rec, extent, err := it.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		key := string(rec.Key)
		if rec.IsTombstone() {
			delete(entries, key)
			continue
		}
		entries[key] = Entry{
			Generation: gen,
			Offset:     extent.Offset,
			Length:     extent.Length,
		}
	}
}
