package engine

import (
	"testing"

	"github.com/rustcask/rustcask/pkg/logger"
	"github.com/rustcask/rustcask/pkg/options"
)

func TestOpenSetGetRemove(t *testing.T) {
	dir := t.TempDir()
	e, err := Open(dir, options.WithLogger(logger.NewNop()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer e.Close()

	if err := e.Set([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := e.Get([]byte("k"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "v" {
		t.Fatalf("got %q, want %q", got, "v")
	}

	removed, err := e.Remove([]byte("k"))
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if string(removed) != "v" {
		t.Fatalf("got %q, want %q", removed, "v")
	}
	if _, err := e.Get([]byte("k")); err != ErrKeyNotFound {
		t.Fatalf("got %v, want ErrKeyNotFound", err)
	}
}

func TestGetMissingKeyReturnsErrKeyNotFound(t *testing.T) {
	dir := t.TempDir()
	e, err := Open(dir, options.WithLogger(logger.NewNop()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer e.Close()

	if _, err := e.Get([]byte("missing")); err != ErrKeyNotFound {
		t.Fatalf("got %v, want ErrKeyNotFound", err)
	}
}

func TestRemoveMissingKeyReturnsAbsentWithoutError(t *testing.T) {
	dir := t.TempDir()
	e, err := Open(dir, options.WithLogger(logger.NewNop()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer e.Close()

	removed, err := e.Remove([]byte("missing"))
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if removed != nil {
		t.Fatalf("got %q, want nil", removed)
	}
}

func TestReopenRecoversPreviouslySetData(t *testing.T) {
	dir := t.TempDir()

	e1, err := Open(dir, options.WithLogger(logger.NewNop()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := e1.Set([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := e1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	e2, err := Open(dir, options.WithLogger(logger.NewNop()))
	if err != nil {
		t.Fatalf("re-Open: %v", err)
	}
	defer e2.Close()

	got, err := e2.Get([]byte("k"))
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if string(got) != "v" {
		t.Fatalf("got %q, want %q", got, "v")
	}
}

func TestOpenRefusesSecondHandleOnSameDirectory(t *testing.T) {
	dir := t.TempDir()
	e1, err := Open(dir, options.WithLogger(logger.NewNop()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer e1.Close()

	if _, err := Open(dir, options.WithLogger(logger.NewNop())); err == nil {
		t.Fatal("expected second Open on the same directory to fail")
	}
}

func TestCloneSharesDataButHasIndependentReaderPool(t *testing.T) {
	dir := t.TempDir()
	e, err := Open(dir, options.WithLogger(logger.NewNop()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer e.Close()

	if err := e.Set([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	clone := e.Clone()
	defer clone.Close()

	got, err := clone.Get([]byte("k"))
	if err != nil {
		t.Fatalf("clone Get: %v", err)
	}
	if string(got) != "v" {
		t.Fatalf("got %q, want %q", got, "v")
	}

	if clone.readers == e.readers {
		t.Fatal("expected clone to have its own reader pool")
	}
}

func TestClosedEngineRejectsOperations(t *testing.T) {
	dir := t.TempDir()
	e, err := Open(dir, options.WithLogger(logger.NewNop()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := e.Set([]byte("k"), []byte("v")); err != ErrEngineClosed {
		t.Fatalf("got %v, want ErrEngineClosed", err)
	}
	if err := e.Close(); err != ErrEngineClosed {
		t.Fatalf("second Close got %v, want ErrEngineClosed", err)
	}
}

func TestMergeKeepsLatestValueOfOverwrittenKey(t *testing.T) {
	dir := t.TempDir()
	e, err := Open(dir, options.WithLogger(logger.NewNop()), options.WithMaxDataFileSize(1))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer e.Close()

	if err := e.Set([]byte("k"), []byte("old")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := e.Set([]byte("k"), []byte("new")); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}

	if err := e.Merge(); err != nil {
		t.Fatalf("Merge: %v", err)
	}

	got, err := e.Get([]byte("k"))
	if err != nil {
		t.Fatalf("Get after merge: %v", err)
	}
	if string(got) != "new" {
		t.Fatalf("got %q, want %q", got, "new")
	}
}
