// Package readerpool keeps one lazily-opened, positioned reader per
// generation so repeated Get()s against the same data file don't pay for a
// fresh os.Open and a cold buffer each time.
//
// A pool belongs to exactly one engine handle. Cloning a handle clones the
// pool too, but Clone always starts from an empty map -- handles never
// share a reader, and therefore never race each other's Seek. Within a
// single handle, concurrent callers are serialized by the pool's own lock,
// since a seek-then-read is one logical operation that must not be
// interleaved with another.
package readerpool

import (
	"io"
	"os"
	"sync"

	"github.com/rustcask/rustcask/internal/bufreader"
	"github.com/rustcask/rustcask/internal/datadir"
	"github.com/rustcask/rustcask/internal/record"
)

// Pool lazily opens and caches one reader per generation under dir.
type Pool struct {
	dir string

	mu      sync.Mutex
	readers map[uint64]*bufreader.Reader
}

// New returns an empty pool rooted at dir.
func New(dir string) *Pool {
	return &Pool{dir: dir, readers: make(map[uint64]*bufreader.Reader)}
}

// Clone returns a new, empty pool over the same directory. It never shares
// a reader with p: each clone opens its own file handles on demand.
func (p *Pool) Clone() *Pool {
	return New(p.dir)
}

// ReadAt seeks generation gen's reader to offset and reads exactly length
// bytes, returning them. Used by Get to resolve a keydir entry's value.
func (p *Pool) ReadAt(gen uint64, offset, length int64) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	r, err := p.reader(gen)
	if err != nil {
		return nil, err
	}
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// DecodeAt seeks generation gen's reader to offset and decodes a single
// record starting there. Used by merge to rewrite a live record into a new
// generation without re-deriving its length first.
func (p *Pool) DecodeAt(gen uint64, offset int64) (record.Record, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	r, err := p.reader(gen)
	if err != nil {
		return record.Record{}, err
	}
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return record.Record{}, err
	}
	return record.Decode(r)
}

// Invalidate closes and drops generation gen's cached reader, if any. The
// writer calls this on its own pool for each generation a merge is about
// to delete, just before removing the data file; pools owned by engine
// handles are not invalidated.
func (p *Pool) Invalidate(gen uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	r, ok := p.readers[gen]
	if !ok {
		return nil
	}
	delete(p.readers, gen)
	return r.Close()
}

// Close closes every cached reader.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for gen, r := range p.readers {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.readers, gen)
	}
	return firstErr
}

func (p *Pool) reader(gen uint64) (*bufreader.Reader, error) {
	if r, ok := p.readers[gen]; ok {
		return r, nil
	}
	f, err := os.Open(datadir.DataFilePath(p.dir, gen))
	if err != nil {
		return nil, err
	}
	r, err := bufreader.New(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	p.readers[gen] = r
	return r, nil
}
