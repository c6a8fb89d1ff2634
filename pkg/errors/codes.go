package errors

// ErrorCode represents a standardized way to categorize different types of errors.
type ErrorCode string

// Base error codes represent the fundamental categories of failures that can
// occur across any software system. These codes provide the foundation layer
// of error classification.
const (
	// ErrorCodeIO represents failures in input/output operations: opening,
	// reading, writing, seeking, flushing, or fsync-ing a data file.
	ErrorCodeIO ErrorCode = "IO_ERROR"

	// ErrorCodeInvalidInput represents caller errors where the provided
	// data or configuration doesn't meet the engine's requirements.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrorCodeInternal represents unexpected failures that don't fit into
	// other categories: bugs, invariant violations, or assertion failures
	// that shouldn't occur during normal operation.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Storage-specific error codes cover the failure modes of the append-only
// data file layer.
const (
	// ErrorCodeDataFileCorrupted indicates a data file's contents could not
	// be decoded as a valid sequence of records.
	ErrorCodeDataFileCorrupted ErrorCode = "DATA_FILE_CORRUPTED"

	// ErrorCodeRecordReadFailure indicates a read at a known keydir extent
	// failed or produced fewer bytes than the extent promised.
	ErrorCodeRecordReadFailure ErrorCode = "RECORD_READ_FAILURE"

	// ErrorCodeRecoveryFailed indicates that rebuilding the keydir from the
	// data files on open did not complete successfully.
	ErrorCodeRecoveryFailed ErrorCode = "RECOVERY_FAILED"

	// ErrorCodePermissionDenied indicates insufficient permissions to
	// access the engine directory or one of its data files.
	ErrorCodePermissionDenied ErrorCode = "PERMISSION_DENIED"

	// ErrorCodeDiskFull indicates the storage device has run out of space.
	ErrorCodeDiskFull ErrorCode = "DISK_FULL"

	// ErrorCodeFilesystemReadonly indicates the filesystem is mounted read-only.
	ErrorCodeFilesystemReadonly ErrorCode = "FILESYSTEM_READONLY"

	// ErrorCodeSerialize indicates a record could not be encoded.
	ErrorCodeSerialize ErrorCode = "SERIALIZE_ERROR"

	// ErrorCodeDeserialize indicates a record could not be decoded; this
	// typically means the data file is corrupt.
	ErrorCodeDeserialize ErrorCode = "DESERIALIZE_ERROR"
)

// Keydir-specific error codes address failures of the in-memory index.
const (
	// ErrorCodeKeydirKeyNotFound indicates a lookup for an absent key.
	// Callers use the keydir's ordinary (entry, bool) return instead of
	// this code in normal operation; it exists for internal diagnostics.
	ErrorCodeKeydirKeyNotFound ErrorCode = "KEYDIR_KEY_NOT_FOUND"

	// ErrorCodeKeydirMissingGeneration indicates a keydir entry references
	// a generation that has no corresponding readable data file. This is a
	// programming invariant violation (spec invariant 4), not a recoverable
	// error.
	ErrorCodeKeydirMissingGeneration ErrorCode = "KEYDIR_MISSING_GENERATION"

	// ErrorCodeKeydirCorrupted indicates the keydir build-from-disk process
	// found a data file it could not fully replay.
	ErrorCodeKeydirCorrupted ErrorCode = "KEYDIR_CORRUPTED"

	// ErrorCodeKeydirKeyMismatch indicates the record decoded at a keydir
	// entry's extent has a different key than the one that led there. This
	// is a programming invariant violation (spec invariant 1), not a
	// recoverable error.
	ErrorCodeKeydirKeyMismatch ErrorCode = "KEYDIR_KEY_MISMATCH"

	// ErrorCodeKeydirTombstone indicates a keydir entry pointed at a
	// tombstone record. Invariant 2 guarantees every live keydir entry
	// points at a present value, so this is a programming invariant
	// violation, not a recoverable error.
	ErrorCodeKeydirTombstone ErrorCode = "KEYDIR_TOMBSTONE"
)

// Engine-level error codes correspond directly to the domain error kinds
// the public API surfaces.
const (
	ErrorCodeBadDirectory       ErrorCode = "BAD_DIRECTORY"
	ErrorCodeOutsideMergeWindow ErrorCode = "OUTSIDE_MERGE_WINDOW"
	ErrorCodeMergeIO            ErrorCode = "MERGE_IO"
)
