package errors

import (
	"errors"
	"testing"
)

func TestAsStorageErrorExtractsContext(t *testing.T) {
	cause := errors.New("disk exploded")
	err := NewStorageError(cause, ErrorCodeIO, "failed to append record").
		WithGeneration(3).
		WithOffset(128).
		WithFileName("3.rustcask.data")

	se, ok := AsStorageError(err)
	if !ok {
		t.Fatal("expected StorageError to be extractable")
	}
	if se.Generation() != 3 || se.Offset() != 128 || se.FileName() != "3.rustcask.data" {
		t.Fatalf("unexpected StorageError context: %+v", se)
	}
	if !errors.Is(se, cause) && errors.Unwrap(se) != cause {
		t.Fatalf("expected StorageError to unwrap to cause")
	}
}

func TestGetErrorCodeDefaultsToInternal(t *testing.T) {
	if code := GetErrorCode(errors.New("plain error")); code != ErrorCodeInternal {
		t.Fatalf("got %v, want ErrorCodeInternal", code)
	}
}

func TestEngineErrorMergeIOCarriesInitialMergeGen(t *testing.T) {
	err := NewMergeIOError(errors.New("write failed"), 7)

	ee, ok := AsEngineError(err)
	if !ok {
		t.Fatal("expected EngineError to be extractable")
	}
	gen, has := ee.InitialMergeGen()
	if !has || gen != 7 {
		t.Fatalf("got (%d, %v), want (7, true)", gen, has)
	}
	if ee.Kind() != KindMergeIO {
		t.Fatalf("got kind %v, want KindMergeIO", ee.Kind())
	}
}

func TestNewMissingGenerationErrorIsKeydirError(t *testing.T) {
	err := NewMissingGenerationError("leader", 9)
	if !IsKeydirError(err) {
		t.Fatal("expected a KeydirError")
	}
	ke, _ := AsKeydirError(err)
	if ke.Key() != "leader" || ke.Generation() != 9 {
		t.Fatalf("unexpected KeydirError context: %+v", ke)
	}
}
