package genie

import (
	"sync"

	"go.uber.org/zap"
)

// Log returns the package-wide logger used by every flow stage. Tests and
// embedding programs may call SetLogger to redirect it.
func Log() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// SetLogger replaces the package-wide logger, e.g. to attach a
// caller-provided zap.Logger with custom sinks or fields.
func SetLogger(l *zap.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

var (
	logger, _ = zap.NewProduction()
	loggerMu  sync.RWMutex
)
