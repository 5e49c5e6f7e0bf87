// Package logging assembles the structured slog loggers used across scriptdb.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and tees every record into a JSON log file when a log directory
// is configured. The package also provides a no-op logger for tests and
// wiring code that cannot fail.
package logging
