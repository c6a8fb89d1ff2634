package poison

import "testing"

func TestMutexGuardPoisonsOnPanic(t *testing.T) {
	var m Mutex

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate out of Guard")
			}
		}()
		_ = m.Guard(func() error {
			panic("boom")
		})
	}()

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected poisoned mutex to panic on next Guard")
			}
		}()
		_ = m.Guard(func() error { return nil })
	}()
}

func TestMutexGuardReturnsErrorWithoutPoisoning(t *testing.T) {
	var m Mutex
	wantErr := errTest
	if err := m.Guard(func() error { return wantErr }); err != wantErr {
		t.Fatalf("got %v, want %v", err, wantErr)
	}
	if err := m.Guard(func() error { return nil }); err != nil {
		t.Fatalf("unexpected error after non-panicking Guard: %v", err)
	}
}

func TestRWMutexReadersDoNotPoisonOnPanic(t *testing.T) {
	var m RWMutex

	func() {
		defer func() { recover() }()
		_ = m.RGuard(func() error { panic("read panic") })
	}()

	if err := m.RGuard(func() error { return nil }); err != nil {
		t.Fatalf("RGuard should not be poisoned by a read-side panic: %v", err)
	}
}

func TestRWMutexWriterPoisonsReaders(t *testing.T) {
	var m RWMutex

	func() {
		defer func() { recover() }()
		_ = m.Guard(func() error { panic("write panic") })
	}()

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected RGuard to panic after a poisoning write")
			}
		}()
		_ = m.RGuard(func() error { return nil })
	}()
}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }

var errTest = &testError{msg: "test error"}
