package compaction

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/rustcask/rustcask/pkg/logger"
)

func TestSchedulerCallsMergePeriodically(t *testing.T) {
	var calls atomic.Int32
	s := New(5*time.Millisecond, func() error {
		calls.Add(1)
		return nil
	}, logger.NewNop())

	s.Start()
	time.Sleep(40 * time.Millisecond)
	s.Stop()

	if calls.Load() < 2 {
		t.Fatalf("got %d merge calls, want at least 2", calls.Load())
	}
}

func TestSchedulerDisabledWhenIntervalIsZero(t *testing.T) {
	var calls atomic.Int32
	s := New(0, func() error {
		calls.Add(1)
		return nil
	}, logger.NewNop())

	s.Start()
	time.Sleep(10 * time.Millisecond)
	s.Stop()

	if calls.Load() != 0 {
		t.Fatalf("got %d merge calls, want 0", calls.Load())
	}
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	s := New(5*time.Millisecond, func() error { return nil }, logger.NewNop())
	s.Start()
	s.Stop()
	s.Stop()
}
