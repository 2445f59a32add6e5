// Package logging assembles the structured slog loggers used by whatswatched.
//
// It owns the console and JSON handlers, level parsing, optional log-file
// fan-out, and the attribute helpers that keep field names consistent. Log
// lines go to stderr so prompts and reports on stdout stay readable; a no-op
// logger is provided for tests and wiring code that cannot fail.
package logging
