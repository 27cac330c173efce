// Package logger provides a leveled, thread-safe logging facility backed by zap.
//
// The logger supports four levels: Debug, Info, Warn, and Error.
// Each log entry includes a timestamp, level, optional scope, and message:
//
//	[2026-01-02 15:04:05.000] [INFO] [solver] converged after 812 iterations
//
// # Basic Usage
//
// Using the default logger:
//
//	logger.Info("", "Application started")
//	logger.Info("solver", "iteration %d error %.3e", iter, err)
//	logger.Error("export", "Failed: %v", err)
//
// Creating a custom logger:
//
//	l := logger.New(os.Stderr, logger.LevelDebug)
//	l.Debug("worker-3", "Debug message")
//
// Structured fields are available through Zap():
//
//	l.Zap().Info("phase done", zap.Int("iteration", iter))
//
// # Log Levels
//
// Messages below the configured level are filtered:
//   - LevelDebug: all messages
//   - LevelInfo: Info, Warn, Error
//   - LevelWarn: Warn, Error
//   - LevelError: Error only
package logger
