// Package storage implements rustcask's append-only data file writer: the
// single component that ever appends a record to a generation's data
// file, decides when to rotate to a new generation, and rewrites live
// records into fresh generations during a merge.
//
// Exactly one Writer exists per open engine directory, guarded by its own
// poison-aware mutex -- two Set calls, or a Set racing a Merge, always
// serialize through it. Reads never go through the Writer: once a record's
// extent is known from the keydir, a reader pool services the read
// directly.
package storage

import (
	"os"

	"github.com/rustcask/rustcask/internal/datadir"
	"github.com/rustcask/rustcask/internal/keydir"
	"github.com/rustcask/rustcask/internal/readerpool"
	"github.com/rustcask/rustcask/internal/record"
	rcerrors "github.com/rustcask/rustcask/pkg/errors"
	"github.com/rustcask/rustcask/pkg/options"
	"github.com/rustcask/rustcask/pkg/poison"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Writer owns the active data file and every generation-rotation and
// merge decision.
type Writer struct {
	mu  poison.Mutex
	dir string
	log *zap.SugaredLogger

	maxFileSize uint64
	syncMode    bool

	active           *os.File
	activeGeneration uint64
	activeSize       int64
	nextGeneration   uint64

	readers *readerpool.Pool
}

// Open bootstraps a Writer over dir: it resumes the highest-numbered
// existing generation as the active file (recovering its size from the
// file itself, not assuming 0), or starts a fresh generation 0 if dir has
// none yet.
func Open(dir string, opts *options.Options, log *zap.SugaredLogger) (*Writer, error) {
	generations, err := datadir.ListGenerations(dir)
	if err != nil {
		return nil, rcerrors.NewIoError(err).WithPath(dir)
	}

	w := &Writer{
		dir:         dir,
		log:         log,
		maxFileSize: opts.MaxDataFileSize,
		syncMode:    opts.SyncMode,
		readers:     readerpool.New(dir),
	}

	var activeGen uint64
	if len(generations) > 0 {
		activeGen = generations[len(generations)-1]
	}
	w.nextGeneration = activeGen + 1

	f, err := w.openForAppend(activeGen)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, rcerrors.NewIoError(err).WithGeneration(activeGen)
	}

	w.active = f
	w.activeGeneration = activeGen
	w.activeSize = info.Size()

	log.Infow("writer opened", "dir", dir, "activeGeneration", activeGen, "activeSize", w.activeSize)
	return w, nil
}

func (w *Writer) openForAppend(gen uint64) (*os.File, error) {
	path := datadir.DataFilePath(w.dir, gen)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		classified := rcerrors.ClassifyFileOpenError(err, path, datadir.DataFileName(gen))
		if se, ok := classified.(*rcerrors.StorageError); ok {
			se.WithGeneration(gen)
		}
		return nil, classified
	}
	return f, nil
}

// Append encodes and writes rec to the active data file, then rotates to a
// fresh generation if the write just carried the active file's size to or
// past the rotation threshold. Rotation happens after the write and the
// keydir entry are computed, not before -- a record always lands in the
// generation that was active when Append was called, and a single write
// against an empty file with a 1-byte threshold leaves both the
// just-written generation and a fresh, empty one on disk. It returns the
// keydir entry describing where the record landed.
func (w *Writer) Append(rec record.Record) (keydir.Entry, error) {
	var entry keydir.Entry
	err := w.mu.Guard(func() error {
		offset := w.activeSize
		n, err := record.Encode(w.active, rec)
		if err != nil {
			return err
		}
		if w.syncMode {
			if err := w.active.Sync(); err != nil {
				classified := rcerrors.ClassifySyncError(err, datadir.DataFileName(w.activeGeneration), datadir.DataFilePath(w.dir, w.activeGeneration), w.activeSize)
				if se, ok := classified.(*rcerrors.StorageError); ok {
					se.WithGeneration(w.activeGeneration)
				}
				return classified
			}
		}

		w.activeSize += int64(n)
		entry = keydir.Entry{Generation: w.activeGeneration, Offset: offset, Length: int64(n)}

		if w.activeSize >= int64(w.maxFileSize) {
			if err := w.rotate(); err != nil {
				return err
			}
		}
		return nil
	})
	return entry, err
}

// rotate closes the active file and opens the next generation, assumed
// called with mu held.
func (w *Writer) rotate() error {
	if err := w.active.Sync(); err != nil {
		classified := rcerrors.ClassifySyncError(err, datadir.DataFileName(w.activeGeneration), datadir.DataFilePath(w.dir, w.activeGeneration), w.activeSize)
		if se, ok := classified.(*rcerrors.StorageError); ok {
			se.WithGeneration(w.activeGeneration)
		}
		return classified
	}
	if err := w.active.Close(); err != nil {
		return rcerrors.NewIoError(err).WithGeneration(w.activeGeneration)
	}

	newGen := w.nextGeneration
	f, err := w.openForAppend(newGen)
	if err != nil {
		return err
	}

	w.log.Infow("rotated active generation", "from", w.activeGeneration, "to", newGen)

	w.active = f
	w.activeGeneration = newGen
	w.activeSize = 0
	w.nextGeneration++
	return nil
}

// ActiveGeneration returns the generation currently being appended to.
func (w *Writer) ActiveGeneration() uint64 {
	var gen uint64
	_ = w.mu.Guard(func() error {
		gen = w.activeGeneration
		return nil
	})
	return gen
}

// Reader exposes the writer's reader pool for resolving keydir entries
// into value bytes.
func (w *Writer) Reader() *readerpool.Pool {
	return w.readers
}

// Close flushes and closes the active file and every pooled reader.
func (w *Writer) Close() error {
	return w.mu.Guard(func() error {
		if err := w.active.Sync(); err != nil {
			classified := rcerrors.ClassifySyncError(err, datadir.DataFileName(w.activeGeneration), datadir.DataFilePath(w.dir, w.activeGeneration), w.activeSize)
			if se, ok := classified.(*rcerrors.StorageError); ok {
				se.WithGeneration(w.activeGeneration)
			}
			return classified
		}
		if err := w.active.Close(); err != nil {
			return rcerrors.NewIoError(err).WithGeneration(w.activeGeneration)
		}
		return w.readers.Close()
	})
}

// Merge rewrites every live record held in a non-active generation into
// fresh generations starting at the writer's current nextGeneration (in
// the common case, activeGeneration+1), then atomically publishes the
// updated locations to kd and deletes the now-empty pre-merge generation
// files. The active generation is left untouched: it is still being
// appended to by ordinary writes, concurrent with this merge, since both
// share the writer's lock and never actually run at the same instant, but
// the active file's own records never need rewriting -- they are already
// in the newest generation.
//
// Merge's own internal rotation, splitting the merge output across
// multiple generations if it would otherwise exceed the rotation
// threshold, uses a strict greater-than comparison rather than Append's
// greater-or-equal: a merge output file that lands exactly on the
// threshold is allowed to stay whole, since unlike a live write there is
// no subsequent append to make room for.
func (w *Writer) Merge(kd *keydir.Keydir) error {
	return w.mu.Guard(func() error {
		generations, err := datadir.ListGenerations(w.dir)
		if err != nil {
			return rcerrors.NewIoError(err).WithPath(w.dir)
		}

		preMergeSet := make(map[uint64]bool)
		for _, gen := range generations {
			if gen != w.activeGeneration {
				preMergeSet[gen] = true
			}
		}
		if len(preMergeSet) == 0 {
			return nil
		}

		initialMergeGen := w.nextGeneration
		mergeGen := initialMergeGen
		mergeFile, err := w.openForAppend(mergeGen)
		if err != nil {
			return rcerrors.NewMergeIOError(err, initialMergeGen)
		}
		var mergeSize int64

		newEntries := make(map[string]keydir.Entry)
		var mergeErr error

		kd.Iterate(func(key string, entry keydir.Entry) bool {
			if !preMergeSet[entry.Generation] {
				return true
			}

			rec, derr := w.readers.DecodeAt(entry.Generation, entry.Offset)
			if derr != nil {
				mergeErr = rcerrors.NewMergeIOError(derr, initialMergeGen)
				return false
			}

			if mergeSize > int64(w.maxFileSize) {
				if serr := mergeFile.Sync(); serr != nil {
					mergeErr = rcerrors.NewMergeIOError(serr, initialMergeGen)
					return false
				}
				if cerr := mergeFile.Close(); cerr != nil {
					mergeErr = rcerrors.NewMergeIOError(cerr, initialMergeGen)
					return false
				}
				mergeGen++
				f, oerr := w.openForAppend(mergeGen)
				if oerr != nil {
					mergeErr = rcerrors.NewMergeIOError(oerr, initialMergeGen)
					return false
				}
				mergeFile = f
				mergeSize = 0
			}

			offset := mergeSize
			n, eerr := record.Encode(mergeFile, rec)
			if eerr != nil {
				mergeErr = rcerrors.NewMergeIOError(eerr, initialMergeGen)
				return false
			}
			mergeSize += int64(n)

			newEntries[key] = keydir.Entry{Generation: mergeGen, Offset: offset, Length: int64(n)}
			return true
		})

		if mergeErr != nil {
			mergeFile.Close()
			return mergeErr
		}

		if err := mergeFile.Sync(); err != nil {
			mergeFile.Close()
			return rcerrors.NewMergeIOError(err, initialMergeGen)
		}
		if err := mergeFile.Close(); err != nil {
			return rcerrors.NewMergeIOError(err, initialMergeGen)
		}

		kd.Iterate(func(key string, entry keydir.Entry) bool {
			if entry.Generation == w.activeGeneration {
				newEntries[key] = entry
			}
			return true
		})

		kd.Snapshot(newEntries)
		w.nextGeneration = mergeGen + 1

		var cleanupErr error
		for gen := range preMergeSet {
			if err := w.readers.Invalidate(gen); err != nil {
				cleanupErr = multierr.Append(cleanupErr, err)
			}
			if err := os.Remove(datadir.DataFilePath(w.dir, gen)); err != nil {
				cleanupErr = multierr.Append(cleanupErr, err)
			}
		}
		if cleanupErr != nil {
			w.log.Warnw("merge cleanup failed to remove one or more pre-merge generations",
				"error", cleanupErr, "initialMergeGen", initialMergeGen)
		}

		w.log.Infow("merge completed", "initialMergeGen", initialMergeGen, "finalMergeGen", mergeGen,
			"preMergeGenerations", len(preMergeSet), "liveKeys", len(newEntries))
		return nil
	})
}
