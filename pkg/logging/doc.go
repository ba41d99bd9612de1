// Package logging provides structured logging configuration for mockrr.
//
// This package wraps log/slog so the CLI, the orchestrator and the cache
// backends log the same way. It supports configurable log levels and output
// formats.
//
// # Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelDebug,
//	    Format: logging.FormatJSON,
//	})
//
//	logger.Debug("resource generated", "id", id, "source", "file")
//
// # Integration
//
// Components accept a *slog.Logger through an option. If no logger is
// provided they use logging.Nop(). Component tags a logger with the name of
// the subsystem writing to it.
package logging
