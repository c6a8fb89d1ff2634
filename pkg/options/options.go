// Package options provides the functional-options configuration surface
// for opening a rustcask engine: the data file rotation threshold, the
// fsync policy, the background compaction interval, and logger injection.
package options

import (
	"time"

	"go.uber.org/zap"
)

// Options holds the configuration parameters controlling an open engine.
type Options struct {
	// MaxDataFileSize is the number of bytes written to the active data
	// file that triggers rotation to a new generation.
	//
	// Default: 2GiB
	MaxDataFileSize uint64 `json:"maxDataFileSize"`

	// SyncMode, when true, issues an fsync after every set/remove so that a
	// returned mutation survives a host crash, not just a clean process
	// exit.
	//
	// Default: false
	SyncMode bool `json:"syncMode"`

	// CompactInterval configures how often the background compaction
	// scheduler calls Merge. A value <= 0 disables the scheduler entirely;
	// callers can still invoke Merge directly at any time.
	//
	// Default: 0 (disabled)
	CompactInterval time.Duration `json:"compactInterval"`

	// Logger receives structured log output from the engine and its
	// subsystems. A production logger is built if one isn't supplied.
	Logger *zap.SugaredLogger `json:"-"`
}

// OptionFunc is a function type that modifies the engine's configuration.
type OptionFunc func(*Options)

// WithMaxDataFileSize sets the active-file rotation threshold, in bytes.
// Values below MinDataFileSize or above MaxAllowedDataFileSize are
// ignored and the previous value is kept.
func WithMaxDataFileSize(size uint64) OptionFunc {
	return func(o *Options) {
		if size >= MinDataFileSize && size <= MaxAllowedDataFileSize {
			o.MaxDataFileSize = size
		}
	}
}

// WithSyncMode enables or disables fsync-after-every-mutation durability.
func WithSyncMode(sync bool) OptionFunc {
	return func(o *Options) {
		o.SyncMode = sync
	}
}

// WithCompactInterval sets how often the background scheduler compacts the
// engine. Pass 0 (or don't call this) to leave the scheduler disabled.
func WithCompactInterval(interval time.Duration) OptionFunc {
	return func(o *Options) {
		if interval >= 0 {
			o.CompactInterval = interval
		}
	}
}

// WithLogger injects a logger for the engine and its subsystems to use in
// place of the default production logger.
func WithLogger(logger *zap.SugaredLogger) OptionFunc {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}
