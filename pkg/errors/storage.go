package errors

// StorageError is a specialized error type for data-file operations. It
// embeds baseError to inherit all the standard error functionality, then
// adds storage-specific fields that pinpoint exactly where on disk a
// problem occurred.
type StorageError struct {
	*baseError
	generation uint64 // Which generation's data file was being accessed.
	offset     int64  // Byte offset within the data file where the problem happened.
	fileName   string // Name of the file that caused the issue.
	path       string // Full path of the file that caused the issue.
}

// NewStorageError creates a new storage-specific error.
func NewStorageError(err error, code ErrorCode, msg string) *StorageError {
	return &StorageError{baseError: NewBaseError(err, code, msg)}
}

// WithGeneration sets which data file generation was involved in the error.
func (se *StorageError) WithGeneration(generation uint64) *StorageError {
	se.generation = generation
	return se
}

// WithOffset records the byte position where the error occurred.
func (se *StorageError) WithOffset(offset int64) *StorageError {
	se.offset = offset
	return se
}

// WithFileName captures which file was being processed when the error occurred.
func (se *StorageError) WithFileName(fileName string) *StorageError {
	se.fileName = fileName
	return se
}

// WithPath captures which path was being processed when the error occurred.
func (se *StorageError) WithPath(path string) *StorageError {
	se.path = path
	return se
}

// Generation returns the data file generation where the error occurred.
func (se *StorageError) Generation() uint64 {
	return se.generation
}

// Offset returns the byte offset within the data file where the error happened.
func (se *StorageError) Offset() int64 {
	return se.offset
}

// FileName returns the name of the file that was being processed.
func (se *StorageError) FileName() string {
	return se.fileName
}

// Path returns the path of the file that was being processed.
func (se *StorageError) Path() string {
	return se.path
}

// NewIoError wraps a filesystem-level failure (open, read, write, seek,
// fsync) as an Io domain error.
func NewIoError(err error) *StorageError {
	return NewStorageError(err, ErrorCodeIO, "data file I/O failed")
}

// NewSerializeError wraps an encoding failure as a Serialize domain error.
func NewSerializeError(err error) *StorageError {
	return NewStorageError(err, ErrorCodeSerialize, "failed to encode record")
}

// NewDeserializeError wraps a decoding failure as a Deserialize domain
// error. A Deserialize failure on a read typically indicates data
// corruption.
func NewDeserializeError(err error, generation uint64, offset int64) *StorageError {
	return NewStorageError(err, ErrorCodeDeserialize, "failed to decode record").
		WithGeneration(generation).
		WithOffset(offset)
}
