// Package record implements rustcask's on-disk record codec: the
// bijective encoding between a (key, optional value) pair and the bytes
// written to a data file.
//
// Wire layout, all integers fixed-width little-endian so the encoding is
// stable across runs and platforms:
//
//	key_length   uint32
//	key_bytes    [key_length]byte
//	value_tag    byte   (0 = absent/tombstone, 1 = present)
//	value_length uint32 (only when value_tag == 1)
//	value_bytes  [value_length]byte (only when value_tag == 1)
//
// CRC and timestamp fields are reserved for a future version and are
// deliberately not part of this layout.
package record

import (
	"encoding/binary"
	"io"

	rcerrors "github.com/rustcask/rustcask/pkg/errors"
)

const (
	tagTombstone byte = 0
	tagPresent   byte = 1
)

// Record is a single log entry: a key and an optional value. A nil Value
// marks a tombstone.
type Record struct {
	Key   []byte
	Value []byte
}

// IsTombstone reports whether this record marks its key as deleted.
func (r Record) IsTombstone() bool {
	return r.Value == nil
}

// NewTombstone builds a tombstone record for key.
func NewTombstone(key []byte) Record {
	return Record{Key: key, Value: nil}
}

// Encode writes r to w and returns the number of bytes written. Encode is
// total: any in-memory (key, value) pair can be encoded.
func Encode(w io.Writer, r Record) (int, error) {
	var lenBuf [4]byte
	n := 0

	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(r.Key)))
	written, err := w.Write(lenBuf[:])
	n += written
	if err != nil {
		return n, rcerrors.NewSerializeError(err)
	}

	written, err = w.Write(r.Key)
	n += written
	if err != nil {
		return n, rcerrors.NewSerializeError(err)
	}

	if r.IsTombstone() {
		written, err = w.Write([]byte{tagTombstone})
		n += written
		if err != nil {
			return n, rcerrors.NewSerializeError(err)
		}
		return n, nil
	}

	written, err = w.Write([]byte{tagPresent})
	n += written
	if err != nil {
		return n, rcerrors.NewSerializeError(err)
	}

	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(r.Value)))
	written, err = w.Write(lenBuf[:])
	n += written
	if err != nil {
		return n, rcerrors.NewSerializeError(err)
	}

	written, err = w.Write(r.Value)
	n += written
	if err != nil {
		return n, rcerrors.NewSerializeError(err)
	}

	return n, nil
}

// Decode consumes exactly one record from r and leaves the reader
// positioned immediately after it.
//
// A clean end-of-stream (zero bytes available at a record boundary)
// returns io.EOF exactly, letting callers like the log file iterator tell
// "nothing more to read" apart from "the file is corrupt". Any other
// read failure -- including an EOF that arrives mid-record -- is reported
// as a Deserialize domain error, since it can only mean the data file is
// truncated or corrupt.
func Decode(r io.Reader) (Record, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		if err == io.EOF {
			return Record{}, io.EOF
		}
		return Record{}, rcerrors.NewDeserializeError(err, 0, 0)
	}
	keyLen := binary.LittleEndian.Uint32(lenBuf[:])

	key := make([]byte, keyLen)
	if _, err := io.ReadFull(r, key); err != nil {
		return Record{}, rcerrors.NewDeserializeError(err, 0, 0)
	}

	var tagBuf [1]byte
	if _, err := io.ReadFull(r, tagBuf[:]); err != nil {
		return Record{}, rcerrors.NewDeserializeError(err, 0, 0)
	}

	if tagBuf[0] == tagTombstone {
		return Record{Key: key, Value: nil}, nil
	}

	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return Record{}, rcerrors.NewDeserializeError(err, 0, 0)
	}
	valueLen := binary.LittleEndian.Uint32(lenBuf[:])

	value := make([]byte, valueLen)
	if _, err := io.ReadFull(r, value); err != nil {
		return Record{}, rcerrors.NewDeserializeError(err, 0, 0)
	}

	return Record{Key: key, Value: value}, nil
}

// EncodedLen returns the number of bytes Encode would write for r, without
// actually encoding it.
func EncodedLen(r Record) int {
	n := 4 + len(r.Key) + 1
	if !r.IsTombstone() {
		n += 4 + len(r.Value)
	}
	return n
}
