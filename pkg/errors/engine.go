package errors

import stdErrors "errors"

// EngineErrorKind identifies which of the engine's top-level domain error
// kinds a given EngineError represents.
type EngineErrorKind string

const (
	KindBadDirectory       EngineErrorKind = "BAD_DIRECTORY"
	KindOutsideMergeWindow EngineErrorKind = "OUTSIDE_MERGE_WINDOW"
	KindMergeIO            EngineErrorKind = "MERGE_IO"
)

// EngineError covers the engine façade's own domain errors: a bad open
// target, a merge that was refused by the (currently always-open) merge
// window, and I/O failures during merge that must report which
// generations are safe.
type EngineError struct {
	*baseError
	kind            EngineErrorKind
	directory       string
	initialMergeGen uint64
	hasMergeGen     bool
}

// NewBadDirectoryError reports that dir is missing, not a directory, or is
// already locked by another open engine handle.
func NewBadDirectoryError(dir string, cause error) *EngineError {
	return &EngineError{
		baseError: NewBaseError(cause, ErrorCodeBadDirectory, "open target is not a usable rustcask directory"),
		kind:      KindBadDirectory,
		directory: dir,
	}
}

// NewOutsideMergeWindowError reports that merge was attempted while the
// merge window predicate forbade it.
func NewOutsideMergeWindowError() *EngineError {
	return &EngineError{
		baseError: NewBaseError(nil, ErrorCodeOutsideMergeWindow, "merge attempted outside the merge window"),
		kind:      KindOutsideMergeWindow,
	}
}

// NewMergeIOError reports an I/O failure during merge. initialMergeGen is
// the lowest generation number created by the failed merge attempt:
// generations below it are still consistent with the pre-merge state,
// generations at or above it may be partial and should be discarded on
// the next open.
func NewMergeIOError(cause error, initialMergeGen uint64) *EngineError {
	return &EngineError{
		baseError:       NewBaseError(cause, ErrorCodeMergeIO, "I/O error during merge"),
		kind:            KindMergeIO,
		initialMergeGen: initialMergeGen,
		hasMergeGen:     true,
	}
}

// Kind returns which domain error kind this EngineError represents.
func (ee *EngineError) Kind() EngineErrorKind {
	return ee.kind
}

// Directory returns the directory path involved in a BadDirectory error.
func (ee *EngineError) Directory() string {
	return ee.directory
}

// InitialMergeGen returns the lowest generation created by a failed
// merge, and whether this error carries one at all (only MergeIO errors
// do).
func (ee *EngineError) InitialMergeGen() (uint64, bool) {
	return ee.initialMergeGen, ee.hasMergeGen
}

// IsEngineError checks if the given error is an EngineError or contains
// one in its error chain.
func IsEngineError(err error) bool {
	var ee *EngineError
	return stdErrors.As(err, &ee)
}

// AsEngineError extracts an EngineError from an error chain.
func AsEngineError(err error) (*EngineError, bool) {
	var ee *EngineError
	if stdErrors.As(err, &ee) {
		return ee, true
	}
	return nil, false
}
