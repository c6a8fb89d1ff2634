// Package bufreader provides a buffered reader that tracks its own
// absolute file offset.
//
// A plain *bufio.Reader loses track of its position: re-deriving it via
// Seek(0, io.SeekCurrent) on the underlying file would report the
// position after the buffer's read-ahead, not after what the caller has
// actually consumed -- and doing the seek at all would force a refill,
// throwing away whatever was still buffered. Instead this wrapper keeps
// its own logical offset, advanced by exactly the number of bytes
// returned from each successful Read, and only resynced on a real Seek.
package bufreader

import (
	"bufio"
	"io"
)

// Reader is a *bufio.Reader over an io.ReadSeeker that exposes its
// current logical offset without disturbing the buffer.
type Reader struct {
	inner *bufio.Reader
	rs    io.ReadSeeker
	pos   int64
}

// New wraps rs, positioning the logical offset at rs's current position.
func New(rs io.ReadSeeker) (*Reader, error) {
	pos, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	return &Reader{inner: bufio.NewReader(rs), rs: rs, pos: pos}, nil
}

// Read implements io.Reader, advancing the logical offset by exactly the
// number of bytes returned.
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.inner.Read(p)
	r.pos += int64(n)
	return n, err
}

// Pos returns the current logical offset without touching the buffer.
func (r *Reader) Pos() int64 {
	return r.pos
}

// Seek repositions the reader. Any buffered, unread bytes are discarded;
// this is the only operation that does so.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	newPos, err := r.rs.Seek(offset, whence)
	if err != nil {
		return 0, err
	}
	r.inner.Reset(r.rs)
	r.pos = newPos
	return newPos, nil
}

// Close closes the underlying reader if it implements io.Closer.
func (r *Reader) Close() error {
	if c, ok := r.rs.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
