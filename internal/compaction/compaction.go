// Package compaction runs a background ticker that triggers a merge at a
// fixed interval, so a long-lived engine handle doesn't accumulate
// stale-record bloat across its data files without an operator remembering
// to call Merge themselves.
package compaction

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Scheduler periodically invokes a merge function until stopped.
type Scheduler struct {
	interval time.Duration
	merge    func() error
	log      *zap.SugaredLogger

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// New returns a Scheduler that calls merge every interval. It does not
// start running until Start is called.
func New(interval time.Duration, merge func() error, log *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		interval: interval,
		merge:    merge,
		log:      log,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the background ticker goroutine. Start is a no-op if
// interval is zero or negative: compaction is opt-in, per
// Options.CompactInterval.
func (s *Scheduler) Start() {
	if s.interval <= 0 {
		close(s.done)
		return
	}

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				if err := s.merge(); err != nil {
					s.log.Warnw("background compaction failed", "error", err)
				}
			}
		}
	}()
}

// Stop signals the scheduler to exit and waits for it to do so. Stop is
// idempotent. It waits on a channel that only Start closes, so a Stop on a
// Scheduler whose Start was never called blocks forever.
func (s *Scheduler) Stop() {
	s.once.Do(func() {
		close(s.stop)
	})
	<-s.done
}
