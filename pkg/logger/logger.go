// Package logger builds the structured loggers used throughout rustcask.
// It centralizes zap construction so every component logs with the same
// encoder, level, and service field instead of each package configuring
// its own.
package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a *zap.SugaredLogger for the given service name. The encoding
// and level are controlled by RUSTCASK_LOG_FORMAT ("json" or "console",
// default "json") and RUSTCASK_LOG_LEVEL (default "info"), following the
// env-driven convention used by the rest of the pack's services.
func New(service string) *zap.SugaredLogger {
	level := zapcore.InfoLevel
	if raw := strings.TrimSpace(os.Getenv("RUSTCASK_LOG_LEVEL")); raw != "" {
		if err := level.Set(raw); err != nil {
			level = zapcore.InfoLevel
		}
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if strings.EqualFold(strings.TrimSpace(os.Getenv("RUSTCASK_LOG_FORMAT")), "console") {
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger, err := cfg.Build()
	if err != nil {
		// Building the configured logger should never fail for this fixed
		// set of options; fall back to zap's example logger rather than
		// leaving every caller without one.
		logger = zap.NewExample()
	}

	return logger.Sugar().With("service", service)
}

// NewNop returns a logger that discards everything, for tests and for
// callers that don't want rustcask's own logging.
func NewNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
