// Package logging provides structured logging utilities for paramvault.
//
// It wraps the standard library slog package with project defaults:
// JSON output to stderr, module/version context on every record,
// environment-based level configuration (LOG_LEVEL), and source location
// tracking for debug logs.
//
// Setting the default logger:
//
//	logging.SetDefaultStructuredLogger("paramvault", version)
//	slog.Info("starting backup", "connection", conn)
//
// Setting an explicit level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("paramvault", version, "debug")
//
// If LOG_LEVEL is not set and no explicit level is given, the level
// defaults to INFO.
package logging
