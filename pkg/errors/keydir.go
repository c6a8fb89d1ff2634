package errors

// KeydirError provides specialized error handling for keydir operations:
// building the index from disk, or discovering it is in a state that
// violates the engine's invariants.
type KeydirError struct {
	*baseError

	// key identifies which key was being processed when the error
	// occurred, if applicable.
	key string

	// generation identifies which data file generation the keydir entry
	// pointed at when the error occurred.
	generation uint64

	// operation describes what was being performed (e.g. "BuildFrom",
	// "Get") when the error occurred.
	operation string

	// keyCount captures how many keys were in the keydir at the time of
	// the error, useful context for corruption and recovery diagnostics.
	keyCount int
}

// NewKeydirError creates a new keydir-specific error with the provided context.
func NewKeydirError(err error, code ErrorCode, msg string) *KeydirError {
	return &KeydirError{baseError: NewBaseError(err, code, msg)}
}

// WithMessage updates the error message while maintaining the KeydirError type.
func (ke *KeydirError) WithMessage(msg string) *KeydirError {
	ke.baseError.WithMessage(msg)
	return ke
}

// WithDetail adds contextual information while maintaining the KeydirError type.
func (ke *KeydirError) WithDetail(key string, value any) *KeydirError {
	ke.baseError.WithDetail(key, value)
	return ke
}

// WithKey records which key was being processed when the error occurred.
func (ke *KeydirError) WithKey(key string) *KeydirError {
	ke.key = key
	return ke
}

// WithGeneration captures which data file generation was involved.
func (ke *KeydirError) WithGeneration(generation uint64) *KeydirError {
	ke.generation = generation
	return ke
}

// WithOperation records what keydir operation was being performed.
func (ke *KeydirError) WithOperation(operation string) *KeydirError {
	ke.operation = operation
	return ke
}

// WithKeyCount captures the size of the keydir when the error occurred.
func (ke *KeydirError) WithKeyCount(count int) *KeydirError {
	ke.keyCount = count
	return ke
}

// Key returns the key that was being processed when the error occurred.
func (ke *KeydirError) Key() string {
	return ke.key
}

// Generation returns the data file generation associated with the error.
func (ke *KeydirError) Generation() uint64 {
	return ke.generation
}

// Operation returns the name of the operation that was being performed.
func (ke *KeydirError) Operation() string {
	return ke.operation
}

// KeyCount returns the size of the keydir when the error occurred.
func (ke *KeydirError) KeyCount() int {
	return ke.keyCount
}

// NewMissingGenerationError reports a keydir entry referencing a
// generation with no corresponding readable data file. This is a
// programming bug, not an operational failure, and callers must treat it
// as such.
func NewMissingGenerationError(key string, generation uint64) *KeydirError {
	return NewKeydirError(nil, ErrorCodeKeydirMissingGeneration, "keydir entry references a missing generation").
		WithKey(key).
		WithGeneration(generation).
		WithOperation("Get")
}

// NewKeydirCorruptionError reports that replaying the data files to build
// the keydir failed partway through.
func NewKeydirCorruptionError(operation string, keyCount int, cause error) *KeydirError {
	return NewKeydirError(cause, ErrorCodeKeydirCorrupted, "keydir build aborted: data file could not be replayed").
		WithOperation(operation).
		WithKeyCount(keyCount)
}

// NewKeyMismatchError reports that the record decoded at a keydir entry's
// extent carries a different key than the one that led there -- invariant
// 1 is broken, meaning the data file and the keydir have diverged.
func NewKeyMismatchError(wantKey, gotKey string, generation uint64) *KeydirError {
	return NewKeydirError(nil, ErrorCodeKeydirKeyMismatch, "decoded record key does not match the keydir entry's key").
		WithKey(wantKey).
		WithGeneration(generation).
		WithOperation("Get").
		WithDetail("decodedKey", gotKey)
}

// NewTombstoneInvariantError reports that a live keydir entry resolved to a
// tombstone record on disk -- invariant 2 guarantees this never happens,
// since a tombstone removes its key from the keydir instead of leaving an
// entry behind.
func NewTombstoneInvariantError(key string, generation uint64) *KeydirError {
	return NewKeydirError(nil, ErrorCodeKeydirTombstone, "keydir entry resolved to a tombstone record").
		WithKey(key).
		WithGeneration(generation).
		WithOperation("Get")
}
