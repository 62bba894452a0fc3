package log

import "go.uber.org/zap"

var logger *zap.Logger

// Init builds the process logger once. Later calls are no-ops.
func Init(prod bool) error {
	if logger != nil {
		return nil
	}
	var err error
	if prod {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	return err
}

// L returns the process logger, or a no-op logger before Init so packages
// can log from tests without setup.
func L() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// Sync flushes buffered entries; errors from syncing stderr are ignored.
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
