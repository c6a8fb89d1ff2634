// Package logfile presents a data file as a lazy, single-pass sequence of
// (record, extent) pairs, where extent gives the record's byte offset and
// length within the file. The keydir's BuildFrom replays each data file
// purely through this iterator, never touching the file's bytes directly.
package logfile

import (
	"io"
	"os"

	"github.com/rustcask/rustcask/internal/bufreader"
	"github.com/rustcask/rustcask/internal/record"
)

// Extent is the byte position of a record within its data file.
type Extent struct {
	Offset int64
	Length int64
}

// Iterator streams records out of a single data file in file order.
type Iterator struct {
	path   string
	file   *os.File
	reader *bufreader.Reader
}

// Open opens path for reading and positions the iterator at offset 0.
func Open(path string) (*Iterator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := bufreader.New(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Iterator{path: path, file: f, reader: r}, nil
}

// Close releases the iterator's file handle.
func (it *Iterator) Close() error {
	return it.file.Close()
}

// Next decodes the next record, yielding it along with the extent it
// occupies in the file. It returns io.EOF (and a zero Record) once every
// record has been consumed. A mid-record decode failure is returned as a
// Deserialize domain error (see internal/record) -- the iterator never
// silently truncates the sequence without signalling.
func (it *Iterator) Next() (record.Record, Extent, error) {
	offset := it.reader.Pos()

	rec, err := record.Decode(it.reader)
	if err != nil {
		if err == io.EOF {
			return record.Record{}, Extent{}, io.EOF
		}
		return record.Record{}, Extent{}, err
	}

	length := it.reader.Pos() - offset
	return rec, Extent{Offset: offset, Length: length}, nil
}
